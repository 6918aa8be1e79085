package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/electronicsstore/internal/auth/domain"
	"github.com/wyfcoding/electronicsstore/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// RegisterCommand 注册命令
type RegisterCommand struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// LoginCommand 登录命令
type LoginCommand struct {
	Email      string
	Password   string
	RememberMe bool
}

// AuthCommandService 认证命令服务
type AuthCommandService struct {
	users       domain.UserRepository
	sessions    domain.SessionRepository
	publisher   domain.EventPublisher
	authTTL     time.Duration
	rememberTTL time.Duration
}

// NewAuthCommandService 创建认证命令服务实例
func NewAuthCommandService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	publisher domain.EventPublisher,
	authTTL, rememberTTL time.Duration,
) *AuthCommandService {
	return &AuthCommandService{
		users:       users,
		sessions:    sessions,
		publisher:   publisher,
		authTTL:     authTTL,
		rememberTTL: rememberTTL,
	}
}

// Register 处理用户注册，密码使用 bcrypt 哈希
func (s *AuthCommandService) Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        cmd.Email,
		PasswordHash: string(hash),
		FullName:     cmd.FullName,
		Phone:        cmd.Phone,
		Role:         domain.RoleCustomer,
		IsActive:     true,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.UserRegisteredEvent{
			UserID:    user.ID,
			Email:     user.Email,
			FullName:  user.FullName,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(ctx, domain.UserRegisteredEventType, user.Email, event); err != nil {
			logger.Warn(ctx, "failed to publish user registered event", "email", user.Email, "error", err)
		}
	}

	return user, nil
}

// Login 处理登录，成功后签发会话令牌
func (s *AuthCommandService) Login(ctx context.Context, cmd LoginCommand) (*domain.AuthSession, error) {
	user, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrUserDisabled
	}

	ttl := s.authTTL
	if cmd.RememberMe {
		ttl = s.rememberTTL
	}

	now := time.Now()
	session := &domain.AuthSession{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.sessions.Save(ctx, session, ttl); err != nil {
		return nil, err
	}

	user.LastLoginAt = &now
	if err := s.users.Save(ctx, user); err != nil {
		logger.Warn(ctx, "failed to record last login time", "user_id", user.ID, "error", err)
	}

	return session, nil
}

// Logout 处理登出，删除会话
func (s *AuthCommandService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// SetUserActive 启用或停用用户
func (s *AuthCommandService) SetUserActive(ctx context.Context, userID uint, active bool) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangeUserRole 修改用户角色，仅超级管理员可调用。
// 不允许把最后一名超级管理员降级。
func (s *AuthCommandService) ChangeUserRole(ctx context.Context, userID uint, role domain.UserRole) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleSuperAdmin && role != domain.RoleSuperAdmin {
		count, err := s.users.CountByRole(ctx, domain.RoleSuperAdmin)
		if err != nil {
			return nil, err
		}
		if count <= 1 {
			return nil, domain.ErrLastSuperAdmin
		}
	}
	user.Role = role
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
