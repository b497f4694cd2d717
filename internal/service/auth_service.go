package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"abroad-compass/backend/config"
	"abroad-compass/backend/internal/dto"
	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/internal/repository"
	"abroad-compass/backend/internal/stage"
	pkgerrors "abroad-compass/backend/pkg/errors"
	"abroad-compass/backend/pkg/jwt"
	"abroad-compass/backend/pkg/redis"
)

const bcryptMaxBytes = 72

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrWrongPassword      = errors.New("Incorrect current password")
	ErrUserNotFound       = pkgerrors.NotFound("User not found")
	ErrEmailRegistered    = pkgerrors.Conflict("Email already registered")
	ErrPasswordTooLong    = pkgerrors.Validation("Password is too long (maximum %d bytes)", bcryptMaxBytes)
)

// AuthService 认证业务接口
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Logout 将 Token 的 jti 加入黑名单直至其过期
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client // 可为 nil，此时登出不生效于服务端
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.TokenResponse, error) {
	if len(req.Password) > bcryptMaxBytes {
		return nil, ErrPasswordTooLong
	}
	email := normalizeEmail(req.Email)

	// 1. 邮箱唯一
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailRegistered
	} else if !repository.IsNotFound(err) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, pkgerrors.Persistence("failed to load user", err)
	}

	// 2. 密码哈希 (bcrypt)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	// 3. 创建用户
	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		CurrentStage: string(stage.Profile),
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrEmailRegistered
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, pkgerrors.Persistence("failed to create user", err)
	}

	s.logger.Info("新用户注册", zap.String("user_id", user.UserID))
	return s.issueToken(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, pkgerrors.Persistence("failed to load user", err)
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token
	return s.issueToken(user)
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.rdb == nil {
		s.logger.Warn("未配置 Redis，跳过 Token 黑名单", zap.String("user_id", claims.UserID))
		return nil
	}
	if err := s.rdb.BlacklistToken(ctx, claims.ID, claims.Remaining()); err != nil {
		s.logger.Error("加入 Token 黑名单失败", zap.Error(err))
		return pkgerrors.Persistence("failed to revoke token", err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, pkgerrors.Persistence("failed to load user", err)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	if len(req.NewPassword) > bcryptMaxBytes {
		return ErrPasswordTooLong
	}
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return pkgerrors.Persistence("failed to load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.repo.User.Update(ctx, user); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return pkgerrors.New(pkgerrors.KindStateConflict, err.Error(), err)
		}
		s.logger.Error("更新密码失败", zap.String("user_id", userID), zap.Error(err))
		return pkgerrors.Persistence("failed to update password", err)
	}

	s.logger.Info("用户修改密码", zap.String("user_id", userID))
	return nil
}

func (s *authService) issueToken(user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Email)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        toUserResponse(user),
	}, nil
}

// ── 辅助函数 ──

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:                  u.UserID,
		Name:                u.Name,
		Email:               u.Email,
		OnboardingCompleted: u.OnboardingCompleted,
		CurrentStage:        u.CurrentStage,
	}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return resp
}
