package model

import (
	"time"

	"github.com/muhammadheryan/artisanhub/constant"
)

// LoginEvent is published after every successful login.
type LoginEvent struct {
	EventID        string                  `json:"event_id" validate:"required"`
	UserID         uint64                  `json:"user_id" validate:"required"`
	Role           constant.Role           `json:"role" validate:"required,role"`
	IdentifierType constant.IdentifierType `json:"identifier_type" validate:"required,oneof=email phone"`
	OccurredAt     time.Time               `json:"occurred_at" validate:"required"`
}

// LoginAuditEntity represents the login_audit table entity
type LoginAuditEntity struct {
	ID             uint64                  `db:"id"`
	EventID        string                  `db:"event_id"`
	UserID         uint64                  `db:"user_id"`
	Role           constant.Role           `db:"role"`
	IdentifierType constant.IdentifierType `db:"identifier_type"`
	OccurredAt     time.Time               `db:"occurred_at"`
}
