package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleCustomer.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleSuperAdmin.Valid())
	assert.False(t, UserRole("ROOT").Valid())
	assert.False(t, UserRole("").Valid())
}

func TestIsAdmin(t *testing.T) {
	assert.False(t, (&User{Role: RoleCustomer}).IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.True(t, (&User{Role: RoleSuperAdmin}).IsAdmin())
}

func TestCanAccessAdmin(t *testing.T) {
	// 停用的管理员不可进入后台
	assert.False(t, (&User{Role: RoleAdmin, IsActive: false}).CanAccessAdmin())
	assert.True(t, (&User{Role: RoleAdmin, IsActive: true}).CanAccessAdmin())
	assert.True(t, (&User{Role: RoleSuperAdmin, IsActive: true}).CanAccessAdmin())
	assert.False(t, (&User{Role: RoleCustomer, IsActive: true}).CanAccessAdmin())
}
