package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	healthapp "github.com/muhammadheryan/artisanhub/application/health"
	"github.com/muhammadheryan/artisanhub/constant"
	auditappmocks "github.com/muhammadheryan/artisanhub/mocks/application/audit"
	userappmocks "github.com/muhammadheryan/artisanhub/mocks/application/user"
	redismocks "github.com/muhammadheryan/artisanhub/mocks/repository/redis"
	"github.com/muhammadheryan/artisanhub/model"
	"github.com/muhammadheryan/artisanhub/utils/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const loginEventJSON = `{"event_id":"5f1c1c3e-2b7a-4c9a-9a43-0f6f4f1b2c11","user_id":2,"role":"seller","identifier_type":"phone","occurred_at":"2026-02-14T02:30:00Z"}`

func TestRecordLoginAudit(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		body       string
		mockCall   func(m *auditappmocks.AuditApp)
		wantStatus int
	}{
		{
			name:   "recorded",
			header: "Bearer internal-key",
			body:   loginEventJSON,
			mockCall: func(m *auditappmocks.AuditApp) {
				m.On("RecordLogin", mock.Anything, mock.MatchedBy(func(e *model.LoginEvent) bool {
					return e.UserID == 2 && e.Role == constant.RoleSeller && e.IdentifierType == constant.IdentifierTypePhone
				})).Return(nil).Once()
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "invalid event",
			header: "Bearer internal-key",
			body:   loginEventJSON,
			mockCall: func(m *auditappmocks.AuditApp) {
				m.On("RecordLogin", mock.Anything, mock.Anything).
					Return(errors.SetCustomError(constant.ErrInvalidRequest)).Once()
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad json",
			header:     "Bearer internal-key",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing key",
			body:       loginEventJSON,
			wantStatus: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			auditApp := auditappmocks.NewAuditApp(t)
			if tt.mockCall != nil {
				tt.mockCall(auditApp)
			}
			handler := NewTransport(userappmocks.NewUserApp(t), auditApp, nil, Options{InternalAPIKey: "internal-key"})

			req := httptest.NewRequest(http.MethodPost, "/internal/v1/audit/login", strings.NewReader(tt.body))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		redisErr   error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "healthy",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok","checks":{"mysql":"ok","redis":"ok"}}`,
		},
		{
			name:       "redis down",
			redisErr:   assert.AnError,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"degraded","checks":{"mysql":"ok","redis":"unavailable"}}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer db.Close()
			dbMock.ExpectPing()

			redisRepo := redismocks.NewRedisRepository(t)
			redisRepo.On("Ping", mock.Anything).Return(tt.redisErr).Once()

			handler := NewTransport(userappmocks.NewUserApp(t), nil, healthapp.NewHealthApp(db, redisRepo), Options{})

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	handler := NewTransport(userappmocks.NewUserApp(t), nil, nil, Options{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Data not found"}`, rec.Body.String())
}

func TestWrongMethodOnKnownRoute(t *testing.T) {
	handler := NewTransport(userappmocks.NewUserApp(t), nil, nil, Options{InternalAPIKey: "internal"})

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "login is POST only", method: http.MethodGet, path: "/api/login"},
		{name: "register is POST only", method: http.MethodPut, path: "/api/register"},
		{name: "healthz is GET only", method: http.MethodPost, path: "/healthz"},
		{name: "role dashboard is GET only", method: http.MethodPost, path: "/api/seller/dashboard"},
		{name: "internal audit is POST only", method: http.MethodGet, path: "/internal/v1/audit/login"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.JSONEq(t, `{"message":"Method not allowed"}`, rec.Body.String())
		})
	}
}
