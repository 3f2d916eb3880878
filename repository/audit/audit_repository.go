package audit

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/muhammadheryan/artisanhub/model"
)

type SQL struct {
	conn *sqlx.DB
}

type AuditRepository interface {
	Insert(ctx context.Context, entry *model.LoginAuditEntity) error
}

func NewAuditRepository(conn *sqlx.DB) AuditRepository {
	return &SQL{conn: conn}
}

// event_id is unique, so a redelivered event is a no-op.
const insertLoginAuditQuery = `INSERT IGNORE INTO login_audit (event_id, user_id, role, identifier_type, occurred_at) VALUES (:event_id, :user_id, :role, :identifier_type, :occurred_at)`

func (s *SQL) Insert(ctx context.Context, entry *model.LoginAuditEntity) error {
	_, err := s.conn.NamedExecContext(ctx, insertLoginAuditQuery, entry)
	return err
}
