package health_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	apphealth "github.com/muhammadheryan/artisanhub/application/health"
	redismocks "github.com/muhammadheryan/artisanhub/mocks/repository/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthApp_Check(t *testing.T) {
	tests := []struct {
		name       string
		dbErr      error
		redisErr   error
		wantStatus string
		wantChecks map[string]string
	}{
		{
			name:       "all dependencies up",
			wantStatus: apphealth.StatusOK,
			wantChecks: map[string]string{"mysql": "ok", "redis": "ok"},
		},
		{
			name:       "mysql down",
			dbErr:      errors.New("connection refused"),
			wantStatus: apphealth.StatusDegraded,
			wantChecks: map[string]string{"mysql": "unavailable", "redis": "ok"},
		},
		{
			name:       "redis down",
			redisErr:   errors.New("i/o timeout"),
			wantStatus: apphealth.StatusDegraded,
			wantChecks: map[string]string{"mysql": "ok", "redis": "unavailable"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer db.Close()

			dbMock.ExpectPing().WillReturnError(tt.dbErr)

			redisRepo := redismocks.NewRedisRepository(t)
			redisRepo.On("Ping", mock.Anything).Return(tt.redisErr).Once()

			got := apphealth.NewHealthApp(db, redisRepo).Check(context.Background())

			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantChecks, got.Checks)
			assert.NoError(t, dbMock.ExpectationsWereMet())
		})
	}
}
