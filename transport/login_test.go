package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	userapp "github.com/muhammadheryan/artisanhub/application/user"
	"github.com/muhammadheryan/artisanhub/cmd/config"
	"github.com/muhammadheryan/artisanhub/constant"
	"github.com/muhammadheryan/artisanhub/model"
	txrepo "github.com/muhammadheryan/artisanhub/repository/tx"
	userrepo "github.com/muhammadheryan/artisanhub/repository/user"
	"github.com/muhammadheryan/artisanhub/utils/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const loginTestSecret = "transport-test-secret-0123456789abcdef"

var (
	lookupQuery = regexp.QuoteMeta("FROM users WHERE email = ? OR phone = ? ORDER BY id LIMIT 1")
	userColumns = []string{"id", "name", "email", "phone", "password_hash", "role", "created_at", "updated_at"}
)

type loginFixture struct {
	handler http.Handler
	db      *sqlx.DB
	mock    sqlmock.Sqlmock
}

func newLoginFixture(t *testing.T) *loginFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	conn := sqlx.NewDb(db, "mysql")
	t.Cleanup(func() { conn.Close() })

	cfg := &config.Config{
		Database: config.DatabaseConfig{QueryTimeout: time.Second},
		Auth: config.AuthConfig{
			JWTSecret:     loginTestSecret,
			JWTExpiration: time.Hour,
			BcryptCost:    bcrypt.MinCost,
		},
	}
	app := userapp.NewUserApp(cfg, userrepo.NewUserRepository(conn), txrepo.NewTxRepository(conn), nil, nil)

	return &loginFixture{
		handler: NewTransport(app, nil, nil, Options{InternalAPIKey: "internal"}),
		db:      conn,
		mock:    mock,
	}
}

func (f *loginFixture) post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func customerRow(t *testing.T) *sqlmock.Rows {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.MinCost)
	require.NoError(t, err)
	return sqlmock.NewRows(userColumns).
		AddRow(1, "Demo Customer", "customer@artisanhub.com", "+1234567890", string(hashed), "customer", time.Now(), nil)
}

func TestLogin_EmailSuccess(t *testing.T) {
	f := newLoginFixture(t)
	f.mock.ExpectQuery(lookupQuery).
		WithArgs("customer@artisanhub.com", "customer@artisanhub.com").
		WillReturnRows(customerRow(t))

	rec := f.post(t, `{"emailOrPhone":"customer@artisanhub.com","password":"customer123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password_hash")
	assert.NotContains(t, rec.Body.String(), "$2a$")

	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.PublicUser{ID: 1, Name: "Demo Customer", Email: "customer@artisanhub.com", Role: constant.RoleCustomer}, resp.User)

	claims, err := token.NewIssuer(loginTestSecret).Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.ID)
	assert.Equal(t, constant.RoleCustomer, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLogin_PhoneSuccess(t *testing.T) {
	f := newLoginFixture(t)
	f.mock.ExpectQuery(lookupQuery).
		WithArgs("+1234567890", "+1234567890").
		WillReturnRows(customerRow(t))

	rec := f.post(t, `{"emailOrPhone":"+1234567890","password":"customer123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(1), resp.User.ID)
	assert.Equal(t, constant.RoleCustomer, resp.User.Role)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mockCall   func(t *testing.T, f *loginFixture)
		wantStatus int
		wantMsg    string
	}{
		{
			name: "wrong password",
			body: `{"emailOrPhone":"customer@artisanhub.com","password":"wrongpass"}`,
			mockCall: func(t *testing.T, f *loginFixture) {
				f.mock.ExpectQuery(lookupQuery).WillReturnRows(customerRow(t))
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid email/phone or password",
		},
		{
			name: "unknown identifier",
			body: `{"emailOrPhone":"nobody@example.com","password":"x"}`,
			mockCall: func(t *testing.T, f *loginFixture) {
				f.mock.ExpectQuery(lookupQuery).
					WithArgs("nobody@example.com", "nobody@example.com").
					WillReturnRows(sqlmock.NewRows(userColumns))
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid email/phone or password",
		},
		{
			name: "store unavailable",
			body: `{"emailOrPhone":"customer@artisanhub.com","password":"customer123"}`,
			mockCall: func(t *testing.T, f *loginFixture) {
				f.mock.ExpectClose()
				require.NoError(t, f.db.Close())
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Server error",
		},
		{
			name: "lookup exceeds query timeout",
			body: `{"emailOrPhone":"customer@artisanhub.com","password":"customer123"}`,
			mockCall: func(t *testing.T, f *loginFixture) {
				f.mock.ExpectQuery(lookupQuery).
					WillDelayFor(2 * time.Second).
					WillReturnRows(customerRow(t))
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Server error",
		},
		{
			name:       "malformed json",
			body:       `{"emailOrPhone":`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid request",
		},
		{
			name:       "missing password",
			body:       `{"emailOrPhone":"customer@artisanhub.com"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid request",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newLoginFixture(t)
			if tt.mockCall != nil {
				tt.mockCall(t, f)
			}

			rec := f.post(t, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, `{"message":"`+tt.wantMsg+`"}`, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "sql")
		})
	}
}

func TestLogin_SellerRoleRoundTrip(t *testing.T) {
	f := newLoginFixture(t)
	hashed, err := bcrypt.GenerateFromPassword([]byte("seller123"), bcrypt.MinCost)
	require.NoError(t, err)
	f.mock.ExpectQuery(lookupQuery).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(2, "Demo Seller", "seller@artisanhub.com", "+1987654321", string(hashed), "seller", time.Now(), nil))

	rec := f.post(t, `{"emailOrPhone":"seller@artisanhub.com","password":"seller123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, constant.RoleSeller, resp.User.Role)

	// the issued token routes the seller to the seller dashboard
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	dash := httptest.NewRecorder()
	f.handler.ServeHTTP(dash, req)

	require.Equal(t, http.StatusOK, dash.Code)
	assert.JSONEq(t, `{"role":"seller","path":"/seller-dashboard"}`, dash.Body.String())
}

func TestRegister_Conflict(t *testing.T) {
	f := newLoginFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email IN (?, ?) OR phone IN (?, ?) LIMIT 1 FOR UPDATE")).
		WithArgs("customer@artisanhub.com", "+1999", "customer@artisanhub.com", "+1999").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	f.mock.ExpectRollback()

	body, _ := json.Marshal(model.RegisterRequest{
		Name:     "Someone",
		Email:    "customer@artisanhub.com",
		Phone:    "+1999",
		Password: "password123",
		Role:     "customer",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"message":"Email or phone already registered"}`, rec.Body.String())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
