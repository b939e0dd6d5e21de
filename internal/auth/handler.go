package auth

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		if _, ok := err.(ValidationError); ok {
			h.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, LoginResponse{
		Employee: EmployeeSessionDTO{
			EmployeeID:   result.Account.ID,
			Name:         result.Account.FullName(),
			Email:        result.Account.Email,
			Role:         result.Account.Role.String(),
			Token:        result.Tokens.AccessToken,
			RefreshToken: result.Tokens.RefreshToken,
		},
	})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout only verifies the caller held a valid token. Session invalidation is
// client-side: the short-lived access token simply expires, and the refresh
// token rotates out on next use.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware validates the bearer token and loads the account into the
// request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		account, err := h.Service.GetAccountByID(r.Context(), claims.EmployeeID)
		if err != nil {
			h.Logger.Error("auth middleware: failed to load account", "employee_id", claims.EmployeeID, "error", err)
			h.WriteError(w, http.StatusUnauthorized, "account not found")
			return
		}

		if account.Role.IsTerminated() {
			h.HandleServiceError(w, internal.ErrAccountTerminated)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithAccount(r.Context(), account)))
	})
}

// RequireAdmin gates admin-only endpoints. Must run after AuthMiddleware.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := AccountFromContext(r.Context())
		if !ok || account == nil {
			h.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if !account.Role.IsAdmin() {
			h.Logger.Warn("access denied: admin role required",
				"employee_id", account.ID,
				"role", account.Role)
			h.HandleServiceError(w, internal.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
