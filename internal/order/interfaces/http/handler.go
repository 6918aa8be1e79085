package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	authhttp "github.com/wyfcoding/electronicsstore/internal/auth/interfaces/http"
	cartapp "github.com/wyfcoding/electronicsstore/internal/cart/application"
	carthttp "github.com/wyfcoding/electronicsstore/internal/cart/interfaces/http"
	"github.com/wyfcoding/electronicsstore/internal/order/application"
	"github.com/wyfcoding/electronicsstore/internal/order/domain"
)

// OrderHandler 订单 HTTP 接口
type OrderHandler struct {
	app      *application.OrderApplicationService
	identity *cartapp.CartIdentityService
}

// NewOrderHandler 创建订单处理器实例
func NewOrderHandler(app *application.OrderApplicationService, identity *cartapp.CartIdentityService) *OrderHandler {
	return &OrderHandler{app: app, identity: identity}
}

// RegisterRoutes 注册订单路由
func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup, mw *authhttp.AuthMiddleware) {
	v1 := r.Group("/v1")
	{
		v1.POST("/checkout", h.Checkout)
		v1.GET("/orders", mw.RequireUser(), h.ListMyOrders)
		v1.GET("/orders/:id", h.GetOrder)
	}
}

// resolveIdentity 解析下单身份，与购物车使用同一套标识
func (h *OrderHandler) resolveIdentity(c *gin.Context) string {
	user := authhttp.CurrentUser(c)
	guestToken, _ := c.Cookie(carthttp.GuestCookieName)
	userID, _ := h.identity.Resolve(c.Request.Context(), user, guestToken)
	return userID
}

type checkoutRequest struct {
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerEmail   string `json:"customer_email" binding:"required,email"`
	CustomerPhone   string `json:"customer_phone"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
	PaymentMethod   string `json:"payment_method"`
	Note            string `json:"note"`
}

// Checkout 下单
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := h.resolveIdentity(c)
	result, err := h.app.PlaceOrder(c.Request.Context(), application.CheckoutCommand{
		UserID:          userID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Note:            req.Note,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListMyOrders 当前用户的订单列表
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID := h.resolveIdentity(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	orders, total, err := h.app.ListOrders(c.Request.Context(), domain.OrderFilter{
		UserID: userID,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total, "page": page, "page_size": pageSize})
}

// GetOrder 订单详情，仅本人或管理员可见
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.app.GetOrder(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user := authhttp.CurrentUser(c)
	owner := order.UserID == h.resolveIdentity(c)
	if !owner && (user == nil || !user.CanAccessAdmin()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}
