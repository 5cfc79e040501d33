package auditevent

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oms-labs/order-svc/internal/service/errs"
)

// AuditEvent is an immutable record of a business action. User and order
// references are weak: nullable, no foreign keys, so the trail survives
// deletion of what it refers to.
type AuditEvent struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	Action    string     `json:"action"`
	OrderID   *uuid.UUID `json:"orderId,omitempty"`
	Details   []byte     `json:"details,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// New builds an event. details may be nil; otherwise it is serialized to
// JSON and kept opaque from then on.
func New(userID *uuid.UUID, action string, orderID *uuid.UUID, details any) (AuditEvent, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return AuditEvent{}, fmt.Errorf("%w: action is required", errs.ErrValidation)
	}

	var payload []byte
	if details != nil {
		var err error
		payload, err = json.Marshal(details)
		if err != nil {
			return AuditEvent{}, fmt.Errorf("failed to marshal audit details: %w", err)
		}
	}

	return AuditEvent{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action,
		OrderID:   orderID,
		Details:   payload,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// MarshalPayload serializes the whole event for transport.
func (e AuditEvent) MarshalPayload() ([]byte, error) {
	return json.Marshal(e)
}
