package tx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (TxRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	conn := sqlx.NewDb(db, "mysql")
	t.Cleanup(func() { conn.Close() })
	return NewTxRepository(conn), mock
}

func TestTxOptions_RepeatableRead(t *testing.T) {
	assert.Equal(t, sql.LevelRepeatableRead, txOptions.Isolation)
	assert.False(t, txOptions.ReadOnly)
}

func TestTxRepository(t *testing.T) {
	t.Run("commit then deferred rollback is a no-op", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		tx, err := repo.BeginTx(context.Background())
		require.NoError(t, err)
		require.NoError(t, repo.CommitTx(tx))
		assert.NoError(t, repo.RollbackTx(tx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback without commit", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		tx, err := repo.BeginTx(context.Background())
		require.NoError(t, err)
		assert.NoError(t, repo.RollbackTx(tx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback error is returned", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("bad connection"))

		tx, err := repo.BeginTx(context.Background())
		require.NoError(t, err)
		assert.Error(t, repo.RollbackTx(tx))
	})

	t.Run("commit error is returned", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("deadlock found"))

		tx, err := repo.BeginTx(context.Background())
		require.NoError(t, err)
		assert.Error(t, repo.CommitTx(tx))
		assert.NoError(t, repo.RollbackTx(tx))
	})

	t.Run("begin error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		tx, err := repo.BeginTx(context.Background())
		assert.Error(t, err)
		assert.Nil(t, tx)
	})
}
