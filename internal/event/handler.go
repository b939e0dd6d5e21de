package event

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/office-calendar/internal/auth"
	"github.com/frahmantamala/office-calendar/internal/transport"
)

type ServiceAPI interface {
	CreateEvent(ctx context.Context, creatorID int64, dto CreateEventDTO) (*Event, error)
	UpdateEvent(ctx context.Context, eventID int64, dto UpdateEventDTO) (*Event, error)
	DeleteEvent(ctx context.Context, eventID int64) error
	GetEvent(ctx context.Context, eventID int64) (*Event, error)
	ListEvents(ctx context.Context, filter ListFilter, limit, offset int) ([]*Event, error)
	Attend(ctx context.Context, eventID, employeeID int64) error
	Unattend(ctx context.Context, eventID, employeeID int64) (bool, error)
	AttendanceStatus(ctx context.Context, eventID, employeeID int64) (*AttendanceStatusDTO, error)
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok || account == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateEventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ev, err := h.Service.CreateEvent(r.Context(), account.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ev)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	var dto UpdateEventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ev, err := h.Service.UpdateEvent(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ev)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	if err := h.Service.DeleteEvent(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	ev, err := h.Service.GetEvent(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ev)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := transport.Pagination(r, 50, 200)

	filter := ListFilter{Date: r.URL.Query().Get("date")}
	if roomStr := r.URL.Query().Get("roomId"); roomStr != "" {
		if roomID, err := strconv.ParseInt(roomStr, 10, 64); err == nil {
			filter.RoomID = roomID
		}
	}

	list, err := h.Service.ListEvents(r.Context(), filter, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"events": list,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) Attend(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok || account == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	if err := h.Service.Attend(r.Context(), id, account.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"attending": true})
}

// Unattend answers 200 when a participation row was removed and 200 with
// changed=false when there was nothing to remove, so clients can tell a real
// removal from a no-op.
func (h *Handler) Unattend(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok || account == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	changed, err := h.Service.Unattend(r.Context(), id, account.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"attending": false,
		"changed":   changed,
	})
}

func (h *Handler) AttendanceStatus(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok || account == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	status, err := h.Service.AttendanceStatus(r.Context(), id, account.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, status)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
