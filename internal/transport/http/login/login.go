package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/oms-labs/order-svc/internal/service/services/authsvc"
	"github.com/oms-labs/order-svc/internal/transport/http/converters"
	"github.com/oms-labs/order-svc/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	Login(ctx context.Context, email, password string) (authsvc.AuthResult, error)
}

type request struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles the authentication request.
func Login(w http.ResponseWriter, r *http.Request, svc service) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to decode request body")
		slog.Error("Error decoding request body for login", "error", err)

		return
	}

	result, err := svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.DomainError(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, converters.AuthResponse{
		AccessToken:  result.AccessToken,
		ExpiresAtUTC: result.ExpiresAtUTC,
	})
}
