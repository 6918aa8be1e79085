package domain

import (
	"time"

	"gorm.io/gorm"
)

// UserRole 用户角色
type UserRole string

const (
	RoleCustomer   UserRole = "CUSTOMER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

// Valid 校验角色是否在闭集内
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// User 用户实体
type User struct {
	gorm.Model
	Email        string     `gorm:"column:email;type:varchar(200);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(100);not null" json:"-"`
	FullName     string     `gorm:"column:full_name;type:varchar(100);not null" json:"full_name"`
	Phone        string     `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Role         UserRole   `gorm:"column:role;type:varchar(20);not null;default:'CUSTOMER'" json:"role"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"last_login_at"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsAdmin 是否具备后台访问权限
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// IsSuperAdmin 是否为超级管理员
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// CanAccessAdmin 后台访问门槛：账号启用且角色为管理员
func (u *User) CanAccessAdmin() bool {
	return u.IsActive && u.IsAdmin()
}
