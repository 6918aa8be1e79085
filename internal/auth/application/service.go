package application

import (
	"time"

	"github.com/wyfcoding/electronicsstore/internal/auth/domain"
)

// AuthApplicationService 认证应用服务门面，聚合命令与查询
type AuthApplicationService struct {
	*AuthCommandService
	*AuthQueryService
}

// NewAuthApplicationService 创建认证应用服务实例
func NewAuthApplicationService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	publisher domain.EventPublisher,
	authTTL, rememberTTL time.Duration,
) *AuthApplicationService {
	return &AuthApplicationService{
		AuthCommandService: NewAuthCommandService(users, sessions, publisher, authTTL, rememberTTL),
		AuthQueryService:   NewAuthQueryService(users, sessions),
	}
}
