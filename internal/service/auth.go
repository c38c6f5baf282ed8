package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/apperrors"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/auth"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/config"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/metrics"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/policy"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/store"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/validation"
)

var errInvalidCredentials = apperrors.Unauthorized("invalid email or password")

type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	User         *db.User
}

type Auth struct {
	repo       store.Repository
	jwt        *auth.JWTManager
	hasher     *auth.Hasher
	validate   *validation.Validator
	logger     *zap.SugaredLogger
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAuth(
	cfg *config.Config,
	repo store.Repository,
	jwt *auth.JWTManager,
	hasher *auth.Hasher,
	v *validation.Validator,
	l *zap.SugaredLogger,
) *Auth {
	return &Auth{
		repo:       repo,
		jwt:        jwt,
		hasher:     hasher,
		validate:   v,
		logger:     l,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        time.Now,
	}
}

func (s *Auth) Register(ctx context.Context, req *models.RegisterReq) (user *db.User, err error) {
	defer func() { metrics.RecordAuth("register", err) }()

	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("email already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user = &db.User{
		Username: strings.TrimSpace(req.Username),
		Email:    email,
		Password: hash,
		Role:     string(policy.RoleUser),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Conflict("username or email already taken")
		}
		return nil, err
	}

	return user, nil
}

func (s *Auth) Login(ctx context.Context, req *models.LoginReq) (session *Session, err error) {
	defer func() { metrics.RecordAuth("login", err) }()

	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Check(user.Password, req.Password); err != nil {
		return nil, errInvalidCredentials
	}

	return s.issue(ctx, user)
}

// Refresh trades a valid refresh token for a new session. The old refresh
// token stops working.
func (s *Auth) Refresh(ctx context.Context, req *models.RefreshReq) (session *Session, err error) {
	defer func() { metrics.RecordAuth("refresh", err) }()

	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid refresh token")
		}
		return nil, err
	}
	if user.RefreshToken == nil || *user.RefreshToken != req.RefreshToken {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}
	if user.RefreshTokenExpiresAt == nil || !s.now().Before(*user.RefreshTokenExpiresAt) {
		return nil, apperrors.Unauthorized("refresh token expired")
	}

	return s.issue(ctx, user)
}

func (s *Auth) Me(ctx context.Context, p policy.Principal) (*db.User, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	user, err := s.repo.GetUser(ctx, p.ID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

// Authenticate resolves a bearer token to the principal it was issued for.
func (s *Auth) Authenticate(token string) (policy.Principal, error) {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return policy.Anonymous, apperrors.Unauthorized("invalid token").WithCause(err)
	}
	p, err := claims.Principal()
	if err != nil {
		return policy.Anonymous, apperrors.Unauthorized("invalid token").WithCause(err)
	}
	return p, nil
}

func (s *Auth) issue(ctx context.Context, user *db.User) (*Session, error) {
	access, err := s.jwt.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()
	expires := s.now().Add(s.refreshTTL).UTC()
	user.RefreshToken = &refresh
	user.RefreshTokenExpiresAt = &expires
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.jwt.TTL(),
		User:         user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
