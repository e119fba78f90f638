package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"dormhop/backend/config"
	"dormhop/backend/internal/dto"
	"dormhop/backend/internal/model"
	"dormhop/backend/internal/repository"
	"dormhop/backend/pkg/clock"
	pkgerrors "dormhop/backend/pkg/errors"
	"dormhop/backend/pkg/identity"
	"dormhop/backend/pkg/jwt"
)

var (
	ErrInvalidIDToken        = pkgerrors.New(pkgerrors.KindUnauthenticated, "invalid identity token")
	ErrEmailDomainNotAllowed = pkgerrors.New(pkgerrors.KindForbidden, "email domain is not allowed")
	ErrClassYearRequired     = pkgerrors.New(pkgerrors.KindInvalidInput, "class_year is required for new users")
	ErrEmailTaken            = pkgerrors.New(pkgerrors.KindConflict, "email already registered")
)

// TokenBlacklist revokes token ids until they expire
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService sign-in, dev registration and logout
type AuthService interface {
	// GoogleSignIn reports created=true when the account was created by this call
	GoogleSignIn(ctx context.Context, req *dto.GoogleSignInRequest) (resp *dto.AuthResponse, created bool, err error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	verifier  identity.Verifier
	blacklist TokenBlacklist
	clock     clock.Clock
	logger    *zap.Logger
}

// NewAuthService creates an AuthService; blacklist may be nil
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	verifier identity.Verifier,
	blacklist TokenBlacklist,
	clk clock.Clock,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		verifier:  verifier,
		blacklist: blacklist,
		clock:     clk,
		logger:    logger,
	}
}

// newUserParams profile data for a first sign-in or registration
type newUserParams struct {
	email     string
	fullName  string
	classYear int
	gender    string
	listed    bool
	room      *dto.UpdateRoomRequest
}

// ────── GoogleSignIn ──────

func (s *authService) GoogleSignIn(ctx context.Context, req *dto.GoogleSignInRequest) (*dto.AuthResponse, bool, error) {
	if s.verifier == nil {
		return nil, false, ErrInvalidIDToken
	}
	id, err := s.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		s.logger.Debug("identity token rejected", zap.Error(err))
		return nil, false, ErrInvalidIDToken
	}
	if !identity.EmailInDomain(id.Email, s.cfg.Auth.AllowedEmailDomain) {
		return nil, false, ErrEmailDomainNotAllowed
	}

	user, err := s.repo.User.GetByEmail(ctx, id.Email)
	if err == nil {
		resp, err := s.issue(user)
		return resp, false, err
	}
	if !isNotFound(err) {
		s.logger.Error("lookup user by email failed", zap.Error(err))
		return nil, false, err
	}

	if req.ClassYear == nil {
		return nil, false, ErrClassYearRequired
	}
	user, err = s.createUser(ctx, newUserParams{
		email:     id.Email,
		fullName:  id.FullName,
		classYear: *req.ClassYear,
		gender:    req.Gender,
		listed:    req.IsRoomListed,
		room:      req.CurrentRoom,
	})
	if errors.Is(err, ErrEmailTaken) {
		// a concurrent first sign-in won the insert
		existing, getErr := s.repo.User.GetByEmail(ctx, id.Email)
		if getErr != nil {
			return nil, false, getErr
		}
		resp, err := s.issue(existing)
		return resp, false, err
	}
	if err != nil {
		return nil, false, err
	}

	s.logger.Info("user signed up", zap.String("user_id", user.UserID))
	resp, err := s.issue(user)
	return resp, true, err
}

// ────── Register ──────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	user, err := s.createUser(ctx, newUserParams{
		email:     strings.ToLower(strings.TrimSpace(req.Email)),
		fullName:  strings.TrimSpace(req.FullName),
		classYear: req.ClassYear,
		gender:    req.Gender,
		listed:    req.IsRoomListed,
		room:      req.CurrentRoom,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.UserID))
	return s.issue(user)
}

// ────── Logout ──────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil {
		s.logger.Warn("token blacklist unavailable, logout is client-side only")
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, expiresAt.Sub(s.clock.Now())); err != nil {
		s.logger.Error("blacklist token failed", zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *authService) createUser(ctx context.Context, p newUserParams) (*model.User, error) {
	now := s.clock.Now()
	user := &model.User{
		Email:        p.email,
		FullName:     p.fullName,
		ClassYear:    p.classYear,
		Gender:       p.gender,
		IsRoomListed: p.listed,
		BaseModel:    model.BaseModel{CreatedAt: now, UpdatedAt: now},
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		if p.room == nil {
			return nil
		}
		room, err := saveRoom(ctx, tx, s.cfg.Policy, now, user, p.room)
		if err != nil {
			return err
		}
		user.Room = room
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindInternal {
			s.logger.Error("create user failed", zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) issue(user *model.User) (*dto.AuthResponse, error) {
	token, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Email)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:      toUserResponse(user),
	}, nil
}
