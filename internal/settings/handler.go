package settings

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/office-calendar/internal/auth"
	"github.com/frahmantamala/office-calendar/internal/transport"
)

type ServiceAPI interface {
	Get(ctx context.Context, employeeID int64) (*Settings, error)
	Update(ctx context.Context, employeeID int64, dto UpdateSettingsDTO) (*Settings, error)
	Reset(ctx context.Context, employeeID int64) (*Settings, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     service,
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok || account == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	prefs, err := h.Service.Get(r.Context(), account.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, prefs)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok || account == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateSettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prefs, err := h.Service.Update(r.Context(), account.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, prefs)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok || account == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	prefs, err := h.Service.Reset(r.Context(), account.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, prefs)
}
