package booking

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
	CreateBooking(ctx context.Context, employeeID int64, dto CreateBookingDTO) (*Booking, error)
	UpdateBooking(ctx context.Context, bookingID int64, dto UpdateBookingDTO) (*Booking, error)
	DeleteBooking(ctx context.Context, bookingID int64) error
	GetBooking(ctx context.Context, bookingID int64) (*Booking, error)
	ListBookings(ctx context.Context, filter ListFilter, limit, offset int) ([]*Booking, error)
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

	var dto CreateBookingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.CreateBooking(r.Context(), account.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid booking ID")
		return
	}

	var dto UpdateBookingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.UpdateBooking(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid booking ID")
		return
	}

	if err := h.Service.DeleteBooking(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid booking ID")
		return
	}

	b, err := h.Service.GetBooking(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := transport.Pagination(r, 50, 200)

	filter := ListFilter{Date: r.URL.Query().Get("date")}
	if roomStr := r.URL.Query().Get("roomId"); roomStr != "" {
		if roomID, err := strconv.ParseInt(roomStr, 10, 64); err == nil {
			filter.RoomID = roomID
		}
	}

	bookings, err := h.Service.ListBookings(r.Context(), filter, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"limit":    limit,
		"offset":   offset,
	})
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
