package application

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	authdomain "github.com/wyfcoding/electronicsstore/internal/auth/domain"
	"github.com/wyfcoding/electronicsstore/internal/cart/domain"
	"github.com/wyfcoding/electronicsstore/pkg/logger"
)

// GuestIDPrefix 游客购物车标识前缀
const GuestIDPrefix = "guest_"

// CartIdentityService 购物车身份解析。登录用户使用用户 ID，
// 游客使用 guest_<uuid> 标识并在 Redis 中维护空闲过期。
type CartIdentityService struct {
	guests  domain.GuestSessionRepository
	idleTTL time.Duration
}

// NewCartIdentityService 创建身份解析服务实例
func NewCartIdentityService(guests domain.GuestSessionRepository, idleTTL time.Duration) *CartIdentityService {
	return &CartIdentityService{guests: guests, idleTTL: idleTTL}
}

// Resolve 解析当前请求的购物车标识。返回标识和需要回写给
// 客户端的游客令牌（登录用户为空字符串）。
func (s *CartIdentityService) Resolve(ctx context.Context, user *authdomain.User, guestToken string) (string, string) {
	if user != nil {
		return strconv.FormatUint(uint64(user.ID), 10), ""
	}

	if guestToken != "" && strings.HasPrefix(guestToken, GuestIDPrefix) {
		valid, err := s.guests.Exists(ctx, guestToken)
		if err != nil {
			logger.Warn(ctx, "failed to check guest session", "guest_id", guestToken, "error", err)
		}
		if valid {
			if err := s.guests.Touch(ctx, guestToken, s.idleTTL); err != nil {
				logger.Warn(ctx, "failed to refresh guest session", "guest_id", guestToken, "error", err)
			}
			return guestToken, guestToken
		}
	}

	guestID := GuestIDPrefix + uuid.NewString()
	if err := s.guests.Touch(ctx, guestID, s.idleTTL); err != nil {
		logger.Warn(ctx, "failed to register guest session", "guest_id", guestID, "error", err)
	}
	return guestID, guestID
}
