package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	authhttp "github.com/wyfcoding/electronicsstore/internal/auth/interfaces/http"
	"github.com/wyfcoding/electronicsstore/internal/cart/application"
)

// GuestCookieName 游客购物车令牌 Cookie 名
const GuestCookieName = "cart_session_id"

// guestCookieMaxAge 游客 Cookie 存活时间（秒），实际有效期以 Redis 空闲过期为准
const guestCookieMaxAge = 7 * 24 * 3600

// CartHandler 购物车 HTTP 接口
type CartHandler struct {
	app      *application.CartApplicationService
	identity *application.CartIdentityService
}

// NewCartHandler 创建购物车处理器实例
func NewCartHandler(app *application.CartApplicationService, identity *application.CartIdentityService) *CartHandler {
	return &CartHandler{app: app, identity: identity}
}

// RegisterRoutes 注册购物车路由
func (h *CartHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1/cart")
	{
		v1.GET("", h.GetCart)
		v1.GET("/count", h.GetCartCount)
		v1.POST("/items", h.AddItem)
		v1.PUT("/items/:product_id", h.UpdateQuantity)
		v1.DELETE("/items/:product_id", h.RemoveItem)
	}
}

// resolveIdentity 解析购物车标识并回写游客 Cookie
func (h *CartHandler) resolveIdentity(c *gin.Context) string {
	user := authhttp.CurrentUser(c)
	guestToken, _ := c.Cookie(GuestCookieName)

	userID, newToken := h.identity.Resolve(c.Request.Context(), user, guestToken)
	if newToken != "" && newToken != guestToken {
		c.SetCookie(GuestCookieName, newToken, guestCookieMaxAge, "/", "", false, true)
	}
	return userID
}

// GetCart 购物车内容
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := h.resolveIdentity(c)
	view, err := h.app.GetCart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetCartCount 购物车件数
func (h *CartHandler) GetCartCount(c *gin.Context) {
	userID := h.resolveIdentity(c)
	count := h.app.GetCartCount(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"count": count})
}

type addItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// AddItem 加入购物车
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := h.resolveIdentity(c)
	result, err := h.app.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity 修改条目数量，数量不大于零时移除条目
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := h.resolveIdentity(c)
	result, err := h.app.UpdateQuantity(c.Request.Context(), userID, uint(productID), req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// RemoveItem 移除条目
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	userID := h.resolveIdentity(c)
	result, err := h.app.RemoveItem(c.Request.Context(), userID, uint(productID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
