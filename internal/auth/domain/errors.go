package domain

import "errors"

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken 邮箱已注册
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserDisabled 账号已停用
	ErrUserDisabled = errors.New("user account is disabled")
	// ErrSessionNotFound 会话不存在或已过期
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidRole 非法角色
	ErrInvalidRole = errors.New("invalid user role")
	// ErrLastSuperAdmin 不允许降级最后一名超级管理员
	ErrLastSuperAdmin = errors.New("cannot demote the last super admin")
)
