package application

import (
	"context"
	"time"

	"github.com/wyfcoding/electronicsstore/internal/auth/domain"
)

// AuthQueryService 认证查询服务
type AuthQueryService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
}

// NewAuthQueryService 创建认证查询服务实例
func NewAuthQueryService(users domain.UserRepository, sessions domain.SessionRepository) *AuthQueryService {
	return &AuthQueryService{users: users, sessions: sessions}
}

// ResolveSession 根据令牌解析当前用户
func (s *AuthQueryService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserDisabled
	}
	return user, nil
}

// GetUser 根据 ID 获取用户
func (s *AuthQueryService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers 按过滤条件分页查询用户
func (s *AuthQueryService) ListUsers(ctx context.Context, filter domain.UserFilter) ([]*domain.User, int64, error) {
	return s.users.List(ctx, filter)
}

// CountByRole 按角色统计用户数
func (s *AuthQueryService) CountByRole(ctx context.Context, role domain.UserRole) (int64, error) {
	return s.users.CountByRole(ctx, role)
}
