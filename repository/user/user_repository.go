package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/muhammadheryan/artisanhub/model"
)

type SQL struct {
	conn *sqlx.DB
}

type UserRepository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, req *model.UserEntity) (*model.UserEntity, error)
	Get(ctx context.Context, filter *model.UserFilter) (*model.UserEntity, error)
	GetByIdentifier(ctx context.Context, identifier string) (*model.UserEntity, error)
	ExistsByIdentifiersTx(ctx context.Context, tx *sqlx.Tx, email, phone string) (bool, error)
}

func NewUserRepository(conn *sqlx.DB) UserRepository {
	return &SQL{conn: conn}
}

const (
	insertUserQuery = `INSERT INTO users (name, email, phone, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?, NOW())`
	getUserBase     = `SELECT id, name, email, phone, password_hash, role, created_at, updated_at FROM users WHERE true`

	// ordered so a cross-column collision always resolves to the oldest account
	getUserByIdentifierQuery = `SELECT id, name, email, phone, password_hash, role, created_at, updated_at FROM users WHERE email = ? OR phone = ? ORDER BY id LIMIT 1`

	existsByIdentifiersQuery = `SELECT id FROM users WHERE email IN (?, ?) OR phone IN (?, ?) LIMIT 1 FOR UPDATE`
)

func (s *SQL) CreateTx(ctx context.Context, tx *sqlx.Tx, data *model.UserEntity) (*model.UserEntity, error) {
	result, err := tx.ExecContext(ctx, insertUserQuery, data.Name, data.Email, data.Phone, data.PasswordHash, data.Role)
	if err != nil {
		return nil, err
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	data.ID = uint64(lastID)
	return data, nil
}

func (s *SQL) Get(ctx context.Context, filter *model.UserFilter) (*model.UserEntity, error) {
	query := getUserBase
	args := make([]any, 0, 3)

	if filter.ID != 0 {
		query += " AND id = ?"
		args = append(args, filter.ID)
	}
	if filter.Email != "" {
		query += " AND email = ?"
		args = append(args, filter.Email)
	}
	if filter.Phone != "" {
		query += " AND phone = ?"
		args = append(args, filter.Phone)
	}
	query += " LIMIT 1"

	var entity model.UserEntity
	if err := s.conn.QueryRowxContext(ctx, query, args...).StructScan(&entity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// GetByIdentifier returns the first user whose email or phone equals identifier,
// or nil when none does.
func (s *SQL) GetByIdentifier(ctx context.Context, identifier string) (*model.UserEntity, error) {
	var entity model.UserEntity
	if err := s.conn.QueryRowxContext(ctx, getUserByIdentifierQuery, identifier, identifier).StructScan(&entity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// ExistsByIdentifiersTx reports whether email or phone is already taken in
// either column. Matching rows are locked until tx ends.
func (s *SQL) ExistsByIdentifiersTx(ctx context.Context, tx *sqlx.Tx, email, phone string) (bool, error) {
	var id uint64
	if err := tx.GetContext(ctx, &id, existsByIdentifiersQuery, email, phone, email, phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
