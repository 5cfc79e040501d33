package register

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
	Register(ctx context.Context, email, password, fullName string) (authsvc.AuthResult, error)
}

type request struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Register handles the account creation request.
func Register(w http.ResponseWriter, r *http.Request, svc service) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to decode request body")
		slog.Error("Error decoding request body for register", "error", err)

		return
	}

	result, err := svc.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		respond.DomainError(w, err)

		return
	}

	respond.JSON(w, http.StatusCreated, converters.AuthResponse{
		AccessToken:  result.AccessToken,
		ExpiresAtUTC: result.ExpiresAtUTC,
	})
}
