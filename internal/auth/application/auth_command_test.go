package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/electronicsstore/internal/auth/domain"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo 内存用户仓储
type fakeUserRepo struct {
	nextID uint
	users  map[uint]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*domain.User)}
}

func (r *fakeUserRepo) Save(ctx context.Context, user *domain.User) error {
	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, f domain.UserFilter) ([]*domain.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role domain.UserRole) (int64, error) {
	var count int64
	for _, user := range r.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

// fakeSessionRepo 内存会话仓储
type fakeSessionRepo struct {
	sessions map[string]*domain.AuthSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.AuthSession)}
}

func (r *fakeSessionRepo) Save(ctx context.Context, session *domain.AuthSession, ttl time.Duration) error {
	r.sessions[session.Token] = session
	return nil
}

func (r *fakeSessionRepo) Get(ctx context.Context, token string) (*domain.AuthSession, error) {
	session, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func newAuthService() (*AuthApplicationService, *fakeUserRepo, *fakeSessionRepo) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	svc := NewAuthApplicationService(users, sessions, nil, 2*time.Hour, 30*24*time.Hour)
	return svc, users, sessions
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, users, _ := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterCommand{
		Email:    "alex@example.com",
		Password: "s3cret-pass",
		FullName: "Alex Chen",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)

	stored := users.users[user.ID]
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterCommand{Email: "alex@example.com", Password: "pw", FullName: "Alex"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterCommand{Email: "alex@example.com", Password: "pw2", FullName: "Alexa"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLoginIssuesSession(t *testing.T) {
	svc, _, sessions := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterCommand{Email: "alex@example.com", Password: "s3cret-pass", FullName: "Alex"})
	require.NoError(t, err)

	session, err := svc.Login(ctx, LoginCommand{Email: "alex@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Contains(t, sessions.sessions, session.Token)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), session.ExpiresAt, time.Minute)

	// 记住我延长有效期
	remembered, err := svc.Login(ctx, LoginCommand{Email: "alex@example.com", Password: "s3cret-pass", RememberMe: true})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), remembered.ExpiresAt, time.Minute)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterCommand{Email: "alex@example.com", Password: "s3cret-pass", FullName: "Alex"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginCommand{Email: "alex@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// 不存在的账号返回同样的错误，避免泄露注册状态
	_, err = svc.Login(ctx, LoginCommand{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginRejectsDisabledUser(t *testing.T) {
	svc, users, _ := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterCommand{Email: "alex@example.com", Password: "s3cret-pass", FullName: "Alex"})
	require.NoError(t, err)
	users.users[user.ID].IsActive = false

	_, err = svc.Login(ctx, LoginCommand{Email: "alex@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrUserDisabled)
}

func TestLogoutRemovesSession(t *testing.T) {
	svc, _, sessions := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterCommand{Email: "alex@example.com", Password: "s3cret-pass", FullName: "Alex"})
	require.NoError(t, err)
	session, err := svc.Login(ctx, LoginCommand{Email: "alex@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.Token))
	assert.NotContains(t, sessions.sessions, session.Token)
}

func TestResolveSessionChecksUserState(t *testing.T) {
	svc, users, _ := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterCommand{Email: "alex@example.com", Password: "s3cret-pass", FullName: "Alex"})
	require.NoError(t, err)
	session, err := svc.Login(ctx, LoginCommand{Email: "alex@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	resolved, err := svc.ResolveSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	// 登录后被停用的账号会话立即失效
	users.users[user.ID].IsActive = false
	_, err = svc.ResolveSession(ctx, session.Token)
	assert.ErrorIs(t, err, domain.ErrUserDisabled)

	_, err = svc.ResolveSession(ctx, "unknown-token")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestChangeUserRoleValidatesRole(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterCommand{Email: "alex@example.com", Password: "pw", FullName: "Alex"})
	require.NoError(t, err)

	updated, err := svc.ChangeUserRole(ctx, user.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)

	_, err = svc.ChangeUserRole(ctx, user.ID, domain.UserRole("ROOT"))
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestChangeUserRoleKeepsLastSuperAdmin(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	root, err := svc.Register(ctx, RegisterCommand{Email: "root@example.com", Password: "pw", FullName: "Root"})
	require.NoError(t, err)
	root, err = svc.ChangeUserRole(ctx, root.ID, domain.RoleSuperAdmin)
	require.NoError(t, err)

	_, err = svc.ChangeUserRole(ctx, root.ID, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrLastSuperAdmin)

	second, err := svc.Register(ctx, RegisterCommand{Email: "root2@example.com", Password: "pw", FullName: "Root Two"})
	require.NoError(t, err)
	_, err = svc.ChangeUserRole(ctx, second.ID, domain.RoleSuperAdmin)
	require.NoError(t, err)

	demoted, err := svc.ChangeUserRole(ctx, root.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, demoted.Role)
}
