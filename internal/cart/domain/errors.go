package domain

import "errors"

// ErrCartNotFound 购物车不存在
var ErrCartNotFound = errors.New("cart not found")
