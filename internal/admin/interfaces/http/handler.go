package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/electronicsstore/internal/admin/application"
	authdomain "github.com/wyfcoding/electronicsstore/internal/auth/domain"
	authhttp "github.com/wyfcoding/electronicsstore/internal/auth/interfaces/http"
	catalogapp "github.com/wyfcoding/electronicsstore/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/electronicsstore/internal/catalog/domain"
	orderdomain "github.com/wyfcoding/electronicsstore/internal/order/domain"
)

// AdminHandler 后台 HTTP 接口
type AdminHandler struct {
	app *application.AdminApplicationService
}

// NewAdminHandler 创建后台处理器实例
func NewAdminHandler(app *application.AdminApplicationService) *AdminHandler {
	return &AdminHandler{app: app}
}

// RegisterRoutes 注册后台路由，整组受管理员门禁保护
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, mw *authhttp.AuthMiddleware) {
	admin := r.Group("/v1/admin", mw.RequireAdmin())
	{
		admin.GET("/dashboard", h.Dashboard)

		admin.POST("/products", h.CreateProduct)
		admin.PUT("/products/:id", h.UpdateProduct)
		admin.DELETE("/products/:id", h.DeleteProduct)
		admin.GET("/products/low-stock", h.LowStockProducts)

		admin.GET("/categories", h.ListCategories)
		admin.POST("/categories", h.SaveCategory)
		admin.PUT("/categories/:id", h.SaveCategory)
		admin.GET("/brands", h.ListBrands)
		admin.POST("/brands", h.SaveBrand)
		admin.PUT("/brands/:id", h.SaveBrand)

		admin.GET("/reviews/pending", h.PendingReviews)
		admin.POST("/reviews/:id/approve", h.ApproveReview)

		admin.GET("/orders", h.ListOrders)
		admin.GET("/orders/:id", h.GetOrder)
		admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
		admin.PUT("/orders/:id/payment", h.MarkOrderPaid)

		admin.GET("/reports/revenue", h.RevenueReport)
		admin.GET("/reports/top-products", h.TopProductsReport)

		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id/status", h.SetUserActive)

		// 角色变更仅限超级管理员
		admin.PUT("/users/:id/role", mw.RequireSuperAdmin(), h.ChangeUserRole)
	}
}

// Dashboard 后台首页统计
func (h *AdminHandler) Dashboard(c *gin.Context) {
	view, err := h.app.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

type productRequest struct {
	Name                string  `json:"name" binding:"required"`
	SKU                 string  `json:"sku"`
	PartNumber          string  `json:"part_number"`
	ShortDescription    string  `json:"short_description"`
	DetailedDescription string  `json:"detailed_description"`
	Price               string  `json:"price" binding:"required"`
	DiscountPrice       *string `json:"discount_price"`
	StockQuantity       int     `json:"stock_quantity"`
	MinStockLevel       int     `json:"min_stock_level"`
	MainImageURL        string  `json:"main_image_url"`
	CategoryID          uint    `json:"category_id" binding:"required"`
	BrandID             uint    `json:"brand_id" binding:"required"`
	IsActive            bool    `json:"is_active"`
	IsFeatured          bool    `json:"is_featured"`
	IsNewProduct        bool    `json:"is_new_product"`
}

func parsePrices(req *productRequest) (decimal.Decimal, *decimal.Decimal, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return decimal.Zero, nil, err
	}
	var discount *decimal.Decimal
	if req.DiscountPrice != nil && *req.DiscountPrice != "" {
		d, err := decimal.NewFromString(*req.DiscountPrice)
		if err != nil {
			return decimal.Zero, nil, err
		}
		discount = &d
	}
	return price, discount, nil
}

// CreateProduct 创建商品
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, discount, err := parsePrices(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}
	if req.SKU == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku is required"})
		return
	}

	product, err := h.app.Catalog().CreateProduct(c.Request.Context(), catalogapp.CreateProductCommand{
		Name:                req.Name,
		SKU:                 req.SKU,
		PartNumber:          req.PartNumber,
		ShortDescription:    req.ShortDescription,
		DetailedDescription: req.DetailedDescription,
		Price:               price,
		DiscountPrice:       discount,
		StockQuantity:       req.StockQuantity,
		MinStockLevel:       req.MinStockLevel,
		MainImageURL:        req.MainImageURL,
		CategoryID:          req.CategoryID,
		BrandID:             req.BrandID,
		IsFeatured:          req.IsFeatured,
		IsNewProduct:        req.IsNewProduct,
	})
	if err != nil {
		if errors.Is(err, catalogdomain.ErrDuplicateSKU) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct 更新商品
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, discount, err := parsePrices(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	product, err := h.app.Catalog().UpdateProduct(c.Request.Context(), catalogapp.UpdateProductCommand{
		ProductID:           uint(id),
		Name:                req.Name,
		ShortDescription:    req.ShortDescription,
		DetailedDescription: req.DetailedDescription,
		Price:               price,
		DiscountPrice:       discount,
		StockQuantity:       req.StockQuantity,
		MinStockLevel:       req.MinStockLevel,
		MainImageURL:        req.MainImageURL,
		CategoryID:          req.CategoryID,
		BrandID:             req.BrandID,
		IsActive:            req.IsActive,
		IsFeatured:          req.IsFeatured,
		IsNewProduct:        req.IsNewProduct,
	})
	if err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct 删除商品
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	if err := h.app.Catalog().DeleteProduct(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// LowStockProducts 低库存预警
func (h *AdminHandler) LowStockProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	products, err := h.app.Catalog().LowStockProducts(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// ListCategories 分类列表
func (h *AdminHandler) ListCategories(c *gin.Context) {
	categories, err := h.app.Catalog().ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListBrands 品牌列表
func (h *AdminHandler) ListBrands(c *gin.Context) {
	brands, err := h.app.Catalog().ListBrands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

type categoryRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	ImageURL         string `json:"image_url"`
	ParentCategoryID *uint  `json:"parent_category_id"`
	IsActive         bool   `json:"is_active"`
	DisplayOrder     int    `json:"display_order"`
}

// SaveCategory 创建或更新分类
func (h *AdminHandler) SaveCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &catalogdomain.Category{
		Name:             req.Name,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		ParentCategoryID: req.ParentCategoryID,
		IsActive:         req.IsActive,
		DisplayOrder:     req.DisplayOrder,
	}
	if idParam := c.Param("id"); idParam != "" {
		id, err := strconv.ParseUint(idParam, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
			return
		}
		category.ID = uint(id)
	}

	if err := h.app.Catalog().SaveCategory(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, category)
}

type brandRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	Website     string `json:"website"`
	IsActive    bool   `json:"is_active"`
}

// SaveBrand 创建或更新品牌
func (h *AdminHandler) SaveBrand(c *gin.Context) {
	var req brandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	brand := &catalogdomain.Brand{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		Website:     req.Website,
		IsActive:    req.IsActive,
	}
	if idParam := c.Param("id"); idParam != "" {
		id, err := strconv.ParseUint(idParam, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid brand id"})
			return
		}
		brand.ID = uint(id)
	}

	if err := h.app.Catalog().SaveBrand(c.Request.Context(), brand); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, brand)
}

// PendingReviews 待审核评价
func (h *AdminHandler) PendingReviews(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	reviews, err := h.app.Catalog().ListPendingReviews(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// ApproveReview 审核通过评价
func (h *AdminHandler) ApproveReview(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}
	if err := h.app.Catalog().ApproveReview(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListOrders 订单列表，支持状态过滤
func (h *AdminHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := orderdomain.OrderFilter{
		Search: c.Query("search"),
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	if v := c.Query("status"); v != "" {
		status := orderdomain.OrderStatus(v)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order status"})
			return
		}
		filter.Status = &status
	}

	orders, total, err := h.app.Orders().ListOrders(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total, "page": page, "page_size": pageSize})
}

// GetOrder 订单详情
func (h *AdminHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	order, err := h.app.Orders().GetOrder(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, orderdomain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 订单状态迁移
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.app.Orders().UpdateStatus(c.Request.Context(), uint(id), orderdomain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, orderdomain.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, orderdomain.ErrInvalidStatus), errors.Is(err, orderdomain.ErrInvalidTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

// MarkOrderPaid 标记订单已支付，货到付款收款后调用
func (h *AdminHandler) MarkOrderPaid(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	order, err := h.app.Orders().MarkPaid(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, orderdomain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// RevenueReport 按天营收报表
func (h *AdminHandler) RevenueReport(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 || days > 365 {
		days = 30
	}
	points, err := h.app.Orders().RevenueByDay(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "revenue": points})
}

// TopProductsReport 销量排行报表
func (h *AdminHandler) TopProductsReport(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	top, err := h.app.Orders().TopProducts(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": top})
}

// ListUsers 用户列表
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := authdomain.UserFilter{
		Search: c.Query("search"),
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	if v := c.Query("role"); v != "" {
		role := authdomain.UserRole(v)
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
		filter.Role = &role
	}

	users, total, err := h.app.Auth().ListUsers(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total, "page": page, "page_size": pageSize})
}

type setUserActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetUserActive 启用或停用用户
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req setUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.app.Auth().SetUserActive(c.Request.Context(), uint(id), *req.Active)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

type changeUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ChangeUserRole 修改用户角色
func (h *AdminHandler) ChangeUserRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req changeUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.app.Auth().ChangeUserRole(c.Request.Context(), uint(id), authdomain.UserRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, authdomain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, authdomain.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, authdomain.ErrLastSuperAdmin):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}
