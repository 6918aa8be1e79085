package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/electronicsstore/internal/admin/application"
	authapp "github.com/wyfcoding/electronicsstore/internal/auth/application"
	authdomain "github.com/wyfcoding/electronicsstore/internal/auth/domain"
)

// memUserRepo 内存用户仓储
type memUserRepo struct {
	users map[uint]*authdomain.User
}

func (r *memUserRepo) Save(ctx context.Context, user *authdomain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uint) (*authdomain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, authdomain.ErrUserNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, authdomain.ErrUserNotFound
}

func (r *memUserRepo) List(ctx context.Context, filter authdomain.UserFilter) ([]*authdomain.User, int64, error) {
	return nil, 0, nil
}

func (r *memUserRepo) CountByRole(ctx context.Context, role authdomain.UserRole) (int64, error) {
	var count int64
	for _, user := range r.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

// memSessionRepo 内存会话仓储
type memSessionRepo struct{}

func (r *memSessionRepo) Save(ctx context.Context, session *authdomain.AuthSession, ttl time.Duration) error {
	return nil
}

func (r *memSessionRepo) Get(ctx context.Context, token string) (*authdomain.AuthSession, error) {
	return nil, authdomain.ErrSessionNotFound
}

func (r *memSessionRepo) Delete(ctx context.Context, token string) error { return nil }

func TestChangeUserRoleLastSuperAdminConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)

	root := &authdomain.User{Email: "root@example.com", Role: authdomain.RoleSuperAdmin, IsActive: true}
	root.ID = 1
	users := &memUserRepo{users: map[uint]*authdomain.User{1: root}}

	authService := authapp.NewAuthApplicationService(users, &memSessionRepo{}, nil, time.Hour, time.Hour)
	handler := NewAdminHandler(application.NewAdminApplicationService(nil, authService, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodPut, "/v1/admin/users/1/role", strings.NewReader(`{"role":"ADMIN"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.ChangeUserRole(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, authdomain.RoleSuperAdmin, root.Role)
}
