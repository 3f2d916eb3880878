package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appaudit "github.com/muhammadheryan/artisanhub/application/audit"
	"github.com/muhammadheryan/artisanhub/constant"
	auditmocks "github.com/muhammadheryan/artisanhub/mocks/repository/audit"
	"github.com/muhammadheryan/artisanhub/model"
	cerr "github.com/muhammadheryan/artisanhub/utils/errors"
	"github.com/stretchr/testify/mock"
)

func TestAuditApp_RecordLogin(t *testing.T) {
	occurred := time.Date(2026, 2, 14, 9, 30, 0, 0, time.FixedZone("WIB", 7*3600))
	validEvent := func() *model.LoginEvent {
		return &model.LoginEvent{
			EventID:        "5f1c1c3e-2b7a-4c9a-9a43-0f6f4f1b2c11",
			UserID:         2,
			Role:           constant.RoleSeller,
			IdentifierType: constant.IdentifierTypePhone,
			OccurredAt:     occurred,
		}
	}

	type fields struct {
		auditRepo *auditmocks.AuditRepository
	}
	tests := []struct {
		name     string
		fields   fields
		event    *model.LoginEvent
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name:   "success: event stored in UTC",
			fields: fields{auditRepo: auditmocks.NewAuditRepository(t)},
			event:  validEvent(),
			mockCall: func(f fields) {
				f.auditRepo.
					On("Insert", mock.Anything, &model.LoginAuditEntity{
						EventID:        "5f1c1c3e-2b7a-4c9a-9a43-0f6f4f1b2c11",
						UserID:         2,
						Role:           constant.RoleSeller,
						IdentifierType: constant.IdentifierTypePhone,
						OccurredAt:     occurred.UTC(),
					}).
					Return(nil).
					Once()
			},
		},
		{
			name:    "error: nil event",
			fields:  fields{auditRepo: auditmocks.NewAuditRepository(t)},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name:   "error: unknown role",
			fields: fields{auditRepo: auditmocks.NewAuditRepository(t)},
			event: func() *model.LoginEvent {
				e := validEvent()
				e.Role = "admin"
				return e
			}(),
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name:   "error: missing event id",
			fields: fields{auditRepo: auditmocks.NewAuditRepository(t)},
			event: func() *model.LoginEvent {
				e := validEvent()
				e.EventID = ""
				return e
			}(),
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name:   "error: repository fails",
			fields: fields{auditRepo: auditmocks.NewAuditRepository(t)},
			event:  validEvent(),
			mockCall: func(f fields) {
				f.auditRepo.
					On("Insert", mock.Anything, mock.AnythingOfType("*model.LoginAuditEntity")).
					Return(errors.New("db down")).
					Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.mockCall != nil {
				tt.mockCall(tt.fields)
			}
			app := appaudit.NewAuditApp(tt.fields.auditRepo)

			err := app.RecordLogin(context.Background(), tt.event)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RecordLogin() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var ce cerr.CustomError
				if !errors.As(err, &ce) {
					t.Fatalf("error type = %T, want CustomError", err)
				}
				if ce.ErrorCode() != constant.ErrorTypeCode[tt.errCode] {
					t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[tt.errCode])
				}
			}
		})
	}
}
