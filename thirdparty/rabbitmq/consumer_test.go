package rabbitmq

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/muhammadheryan/artisanhub/constant"
	"github.com/muhammadheryan/artisanhub/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginEventBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(model.LoginEvent{
		EventID:        "0b0f5a8e-3c8e-4c55-8d6b-4d3c2b1a0f9e",
		UserID:         1,
		Role:           constant.RoleCustomer,
		IdentifierType: constant.IdentifierTypeEmail,
		OccurredAt:     time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return body
}

func TestAuditForwarder_Process(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   func(t *testing.T) []byte
		want   deliveryAction
		called bool
	}{
		{name: "success: forwarded and acked", status: http.StatusNoContent, body: loginEventBody, want: actionAck, called: true},
		{name: "error: server error requeues", status: http.StatusInternalServerError, body: loginEventBody, want: actionRequeue, called: true},
		{name: "error: unauthorized requeues", status: http.StatusForbidden, body: loginEventBody, want: actionRequeue, called: true},
		{name: "bad request is dropped", status: http.StatusBadRequest, body: loginEventBody, want: actionAck, called: true},
		{name: "invalid json is dropped", status: http.StatusOK, body: func(*testing.T) []byte { return []byte("{not json") }, want: actionDrop},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			called := false
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, auditLoginPath, r.URL.Path)
				assert.Equal(t, "Bearer internal-key", r.Header.Get("Authorization"))
				got, _ := io.ReadAll(r.Body)
				assert.JSONEq(t, string(loginEventBody(t)), string(got))
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			f := NewAuditForwarder(srv.URL, "internal-key", srv.Client())
			got := f.process(context.Background(), tt.body(t))

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.called, called)
		})
	}
}

func TestAuditForwarder_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewAuditForwarder(url, "internal-key", &http.Client{Timeout: time.Second})
	assert.Equal(t, actionRequeue, f.process(context.Background(), loginEventBody(t)))
}

func TestNoopPublisher(t *testing.T) {
	var p EventPublisher = NoopPublisher{}
	assert.NoError(t, p.PublishLoginEvent(context.Background(), model.LoginEvent{}))
}
