package audit

import (
	"context"

	"github.com/muhammadheryan/artisanhub/constant"
	"github.com/muhammadheryan/artisanhub/model"
	auditrepo "github.com/muhammadheryan/artisanhub/repository/audit"
	"github.com/muhammadheryan/artisanhub/utils/errors"
	"github.com/muhammadheryan/artisanhub/utils/logger"
	validatorx "github.com/muhammadheryan/artisanhub/utils/validator"
	"go.uber.org/zap"
)

type AuditApp interface {
	RecordLogin(ctx context.Context, event *model.LoginEvent) error
}

type AuditAppImpl struct {
	auditRepo auditrepo.AuditRepository
}

func NewAuditApp(auditRepo auditrepo.AuditRepository) AuditApp {
	return &AuditAppImpl{auditRepo: auditRepo}
}

// RecordLogin stores one login event. Replays of the same event id are ignored by the store.
func (s *AuditAppImpl) RecordLogin(ctx context.Context, event *model.LoginEvent) error {
	if event == nil {
		return errors.SetCustomError(constant.ErrInvalidRequest)
	}
	if err := validatorx.ValidateStruct(event); err != nil {
		return errors.WrapCustomError(constant.ErrInvalidRequest, err)
	}

	err := s.auditRepo.Insert(ctx, &model.LoginAuditEntity{
		EventID:        event.EventID,
		UserID:         event.UserID,
		Role:           event.Role,
		IdentifierType: event.IdentifierType,
		OccurredAt:     event.OccurredAt.UTC(),
	})
	if err != nil {
		logger.Error("[RecordLogin] err auditRepo.Insert",
			zap.String("event_id", event.EventID),
			zap.String("error", err.Error()),
		)
		return errors.WrapCustomError(constant.ErrInternal, err)
	}

	return nil
}
