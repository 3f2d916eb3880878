package user

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/muhammadheryan/artisanhub/cmd/config"
	"github.com/muhammadheryan/artisanhub/constant"
	"github.com/muhammadheryan/artisanhub/model"
	redisrepo "github.com/muhammadheryan/artisanhub/repository/redis"
	txrepo "github.com/muhammadheryan/artisanhub/repository/tx"
	userrepo "github.com/muhammadheryan/artisanhub/repository/user"
	"github.com/muhammadheryan/artisanhub/thirdparty/rabbitmq"
	"github.com/muhammadheryan/artisanhub/utils/errors"
	"github.com/muhammadheryan/artisanhub/utils/logger"
	"github.com/muhammadheryan/artisanhub/utils/password"
	"github.com/muhammadheryan/artisanhub/utils/token"
	"go.uber.org/zap"
)

const (
	mysqlDuplicateEntry = 1062
	publishTimeout      = 2 * time.Second
)

type UserApp interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*token.Claims, error)
	GetProfile(ctx context.Context, userID uint64) (*model.PublicUser, error)
	ResolveDashboard(ctx context.Context, role constant.Role) (*model.DashboardResponse, error)
	GetDashboard(ctx context.Context, userID uint64, role constant.Role) (*model.DashboardResponse, error)
}

type UserAppImpl struct {
	config    *config.Config
	userRepo  userrepo.UserRepository
	txRepo    txrepo.TxRepository
	redisRepo redisrepo.Repository
	publisher rabbitmq.EventPublisher
	tokens    *token.Issuer
	hasher    *password.Hasher
}

type Option func(*UserAppImpl)

// WithTokenIssuer overrides the issuer built from config, mostly for tests
// that need a fixed clock.
func WithTokenIssuer(issuer *token.Issuer) Option {
	return func(s *UserAppImpl) {
		s.tokens = issuer
	}
}

func NewUserApp(
	config *config.Config,
	userRepo userrepo.UserRepository,
	txRepo txrepo.TxRepository,
	redisRepo redisrepo.Repository,
	publisher rabbitmq.EventPublisher,
	opts ...Option,
) UserApp {
	s := &UserAppImpl{
		config:    config,
		userRepo:  userRepo,
		txRepo:    txRepo,
		redisRepo: redisRepo,
		publisher: publisher,
		tokens:    token.NewIssuer(config.Auth.JWTSecret),
		hasher:    password.NewHasher(config.Auth.BcryptCost),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserAppImpl) Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error) {
	role, err := constant.ParseRole(req.Role)
	if err != nil {
		return nil, errors.WrapCustomError(constant.ErrInvalidRequest, err)
	}

	email := normalizeIdentifier(req.Email)
	phone := strings.TrimSpace(req.Phone)

	// Hash before opening the transaction so row locks are not held during bcrypt
	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		logger.Error("[Register] err hasher.Hash", zap.String("error", err.Error()))
		return nil, errors.WrapCustomError(constant.ErrInternal, err)
	}

	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[Register] err BeginTx", zap.String("error", err.Error()))
		return nil, errors.WrapCustomError(constant.ErrInternal, err)
	}
	defer s.txRepo.RollbackTx(tx)

	exists, err := s.userRepo.ExistsByIdentifiersTx(ctx, tx, email, phone)
	if err != nil {
		logger.Error("[Register] err userRepo.ExistsByIdentifiersTx", zap.String("error", err.Error()))
		return nil, errors.WrapCustomError(constant.ErrInternal, err)
	}
	if exists {
		return nil, errors.SetCustomError(constant.ErrCredentialExists)
	}

	userEntity, err := s.userRepo.CreateTx(ctx, tx, &model.UserEntity{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        phone,
		PasswordHash: hashedPassword,
		Role:         role,
	})
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, errors.SetCustomError(constant.ErrCredentialExists)
		}
		logger.Error("[Register] err userRepo.CreateTx", zap.String("error", err.Error()))
		return nil, errors.WrapCustomError(constant.ErrInternal, err)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		if isDuplicateEntry(err) {
			return nil, errors.SetCustomError(constant.ErrCredentialExists)
		}
		logger.Error("[Register] err CommitTx", zap.String("error", err.Error()))
		return nil, errors.WrapCustomError(constant.ErrInternal, err)
	}

	logger.Info("[Register] user registered", zap.Uint64("user_id", userEntity.ID), zap.String("role", role.String()))

	return &model.RegisterResponse{
		ID:    userEntity.ID,
		Name:  userEntity.Name,
		Email: userEntity.Email,
		Role:  userEntity.Role,
	}, nil
}

func (s *UserAppImpl) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	identifier := normalizeIdentifier(req.EmailOrPhone)
	if identifier == "" || req.Password == "" {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}
	identifierType := identifierTypeOf(identifier)

	if !s.reserveAttempt(ctx, identifier) {
		logger.Warn("[Login] too many attempts", zap.String("identifier_type", string(identifierType)))
		return nil, errors.SetCustomError(constant.ErrTooManyAttempts)
	}

	user, err := s.lookup(ctx, identifier)
	if err != nil {
		logger.Error("[Login] err userRepo.GetByIdentifier", zap.String("error", err.Error()))
		return nil, errors.WrapCustomError(constant.ErrInternal, err)
	}

	if user == nil {
		s.hasher.CompareDummy(req.Password)
		logger.Info("[Login] user not found", zap.String("identifier_type", string(identifierType)))
		return nil, errors.SetCustomError(constant.ErrUserNotFound)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if stderrors.Is(err, password.ErrMismatch) {
			logger.Info("[Login] incorrect password", zap.Uint64("user_id", user.ID))
			return nil, errors.SetCustomError(constant.ErrInvalidPassword)
		}
		logger.Error("[Login] err hasher.Compare", zap.Uint64("user_id", user.ID), zap.String("error", err.Error()))
		return nil, errors.WrapCustomError(constant.ErrInternal, err)
	}

	if !user.Role.Valid() {
		logger.Error("[Login] stored role is not recognised", zap.Uint64("user_id", user.ID), zap.String("role", string(user.Role)))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	tokenString, _, err := s.tokens.Issue(user.ID, user.Role, s.config.Auth.JWTExpiration)
	if err != nil {
		logger.Error("[Login] err tokens.Issue", zap.String("error", err.Error()))
		return nil, errors.WrapCustomError(constant.ErrInternal, err)
	}

	s.resetAttempts(ctx, identifier)
	s.publishLogin(ctx, user, identifierType)

	return &model.LoginResponse{
		Token: tokenString,
		User:  user.Public(),
	}, nil
}

func (s *UserAppImpl) ValidateToken(ctx context.Context, tokenString string) (*token.Claims, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		switch {
		case stderrors.Is(err, token.ErrExpired):
			return nil, errors.WrapCustomError(constant.ErrTokenExpired, err)
		case stderrors.Is(err, token.ErrInvalidSignature):
			logger.Warn("[ValidateToken] token signature rejected", zap.String("error", err.Error()))
		default:
			logger.Debug("[ValidateToken] token rejected", zap.String("error", err.Error()))
		}
		return nil, errors.WrapCustomError(constant.ErrUnauthorize, err)
	}
	return claims, nil
}

func (s *UserAppImpl) GetProfile(ctx context.Context, userID uint64) (*model.PublicUser, error) {
	user, err := s.userRepo.Get(ctx, &model.UserFilter{ID: userID})
	if err != nil {
		logger.Error("[GetProfile] err userRepo.Get", zap.String("error", err.Error()))
		return nil, errors.WrapCustomError(constant.ErrInternal, err)
	}
	if user == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	profile := user.Public()
	return &profile, nil
}

func (s *UserAppImpl) ResolveDashboard(ctx context.Context, role constant.Role) (*model.DashboardResponse, error) {
	path, ok := constant.RoleDashboardPath[role]
	if !ok {
		return nil, errors.SetCustomError(constant.ErrForbidden)
	}
	return &model.DashboardResponse{Role: role, Path: path}, nil
}

func (s *UserAppImpl) GetDashboard(ctx context.Context, userID uint64, role constant.Role) (*model.DashboardResponse, error) {
	resp, err := s.ResolveDashboard(ctx, role)
	if err != nil {
		return nil, err
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	// role in the token must still match the account
	if profile.Role != role {
		return nil, errors.SetCustomError(constant.ErrForbidden)
	}

	resp.User = profile
	return resp, nil
}

func (s *UserAppImpl) lookup(ctx context.Context, identifier string) (*model.UserEntity, error) {
	if s.config.Database.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Database.QueryTimeout)
		defer cancel()
	}
	return s.userRepo.GetByIdentifier(ctx, identifier)
}

func (s *UserAppImpl) throttleEnabled() bool {
	return s.redisRepo != nil && s.config.Auth.MaxLoginAttempts > 0
}

// reserveAttempt counts the attempt before credentials are checked, so at most
// MaxLoginAttempts passwords are verified per identifier and window. It fails
// open: a Redis outage never blocks a login.
func (s *UserAppImpl) reserveAttempt(ctx context.Context, identifier string) bool {
	if !s.throttleEnabled() {
		return true
	}

	attempts, err := s.redisRepo.IncrLoginAttempts(ctx, identifier, s.config.Auth.LoginLockout)
	if err != nil {
		logger.Warn("[Login] err redisRepo.IncrLoginAttempts", zap.String("error", err.Error()))
		return true
	}
	return attempts <= int64(s.config.Auth.MaxLoginAttempts)
}

func (s *UserAppImpl) resetAttempts(ctx context.Context, identifier string) {
	if !s.throttleEnabled() {
		return
	}
	if err := s.redisRepo.ResetLoginAttempts(ctx, identifier); err != nil {
		logger.Warn("[Login] err redisRepo.ResetLoginAttempts", zap.String("error", err.Error()))
	}
}

func (s *UserAppImpl) publishLogin(ctx context.Context, user *model.UserEntity, identifierType constant.IdentifierType) {
	if s.publisher == nil {
		return
	}

	event := model.LoginEvent{
		EventID:        uuid.NewString(),
		UserID:         user.ID,
		Role:           user.Role,
		IdentifierType: identifierType,
		OccurredAt:     time.Now().UTC(),
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := s.publisher.PublishLoginEvent(pubCtx, event); err != nil {
		logger.Error("[Login] err publisher.PublishLoginEvent",
			zap.String("event_id", event.EventID),
			zap.String("error", err.Error()),
		)
	}
}

// normalizeIdentifier trims the identifier and lower-cases emails.
func normalizeIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if isEmail(identifier) {
		return strings.ToLower(identifier)
	}
	return identifier
}

func identifierTypeOf(identifier string) constant.IdentifierType {
	if isEmail(identifier) {
		return constant.IdentifierTypeEmail
	}
	return constant.IdentifierTypePhone
}

// isEmail checks if identifier looks like an email
func isEmail(identifier string) bool {
	return strings.ContainsRune(identifier, '@')
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return stderrors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
