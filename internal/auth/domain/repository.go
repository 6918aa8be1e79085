package domain

import (
	"context"
	"time"
)

// UserFilter 用户列表过滤条件
type UserFilter struct {
	Role   *UserRole
	Search string
	Offset int
	Limit  int
}

// UserRepository 用户仓储接口
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	// GetByID 根据 ID 获取用户，未找到返回 ErrUserNotFound
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]*User, int64, error)
	// CountByRole 按角色统计用户数
	CountByRole(ctx context.Context, role UserRole) (int64, error)
}

// SessionRepository 会话仓储接口
type SessionRepository interface {
	Save(ctx context.Context, session *AuthSession, ttl time.Duration) error
	// Get 根据令牌获取会话，未找到返回 ErrSessionNotFound
	Get(ctx context.Context, token string) (*AuthSession, error)
	Delete(ctx context.Context, token string) error
}
