package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	authdomain "github.com/wyfcoding/electronicsstore/internal/auth/domain"
	catalogdomain "github.com/wyfcoding/electronicsstore/internal/catalog/domain"
	orderapp "github.com/wyfcoding/electronicsstore/internal/order/application"
	orderdomain "github.com/wyfcoding/electronicsstore/internal/order/domain"
	"github.com/wyfcoding/electronicsstore/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder 初始数据填充。注入 *rand.Rand 以便测试时可复现。
type Seeder struct {
	users      authdomain.UserRepository
	products   catalogdomain.ProductRepository
	categories catalogdomain.CategoryRepository
	brands     catalogdomain.BrandRepository
	orders     orderdomain.OrderRepository
	rng        *rand.Rand
}

// New 创建填充器实例
func New(
	users authdomain.UserRepository,
	products catalogdomain.ProductRepository,
	categories catalogdomain.CategoryRepository,
	brands catalogdomain.BrandRepository,
	orders orderdomain.OrderRepository,
	rng *rand.Rand,
) *Seeder {
	return &Seeder{
		users:      users,
		products:   products,
		categories: categories,
		brands:     brands,
		orders:     orders,
		rng:        rng,
	}
}

// EnsureSuperAdmin 保证超级管理员存在，已存在则跳过
func (s *Seeder) EnsureSuperAdmin(ctx context.Context, email, password string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, authdomain.ErrUserNotFound) {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &authdomain.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Store Administrator",
		Role:         authdomain.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := s.users.Save(ctx, admin); err != nil {
		return err
	}
	logger.Info(ctx, "seeded super admin account", "email", email)
	return nil
}

type productSeed struct {
	name       string
	sku        string
	partNumber string
	price      int64
	stock      int
	featured   bool
	isNew      bool
}

// SeedCatalog 填充示例分类、品牌与商品，目录非空则跳过
func (s *Seeder) SeedCatalog(ctx context.Context) error {
	_, total, err := s.products.List(ctx, catalogdomain.ProductFilter{Limit: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	categories := []*catalogdomain.Category{
		{Name: "Microcontrollers", Description: "MCU development boards and chips", IsActive: true, DisplayOrder: 1},
		{Name: "Sensors", Description: "Temperature, motion and environmental sensors", IsActive: true, DisplayOrder: 2},
		{Name: "Passive Components", Description: "Resistors, capacitors and inductors", IsActive: true, DisplayOrder: 3},
		{Name: "Power Supplies", Description: "Regulators, converters and batteries", IsActive: true, DisplayOrder: 4},
	}
	for _, c := range categories {
		if err := s.categories.Save(ctx, c); err != nil {
			return err
		}
	}

	brands := []*catalogdomain.Brand{
		{Name: "Espressif", IsActive: true},
		{Name: "STMicroelectronics", IsActive: true},
		{Name: "Bosch", IsActive: true},
		{Name: "Vishay", IsActive: true},
	}
	for _, b := range brands {
		if err := s.brands.Save(ctx, b); err != nil {
			return err
		}
	}

	seeds := []productSeed{
		{"ESP32-S3 DevKit", "ESP32-S3-DK", "ESP32-S3-DevKitC-1", 320000, 50, true, true},
		{"STM32F4 Discovery Board", "STM32F4-DISC", "STM32F407G-DISC1", 450000, 30, true, false},
		{"BME280 Environmental Sensor", "BME280-MOD", "BME280", 85000, 120, false, true},
		{"DHT22 Temperature Sensor", "DHT22-STD", "AM2302", 65000, 200, false, false},
		{"Metal Film Resistor Kit", "RES-KIT-600", "MFR-600PC", 95000, 80, false, false},
		{"Ceramic Capacitor Kit", "CAP-KIT-300", "CCK-300PC", 78000, 60, false, false},
		{"LM2596 Buck Converter", "LM2596-BUCK", "LM2596S-ADJ", 42000, 150, true, false},
		{"18650 Li-ion Battery Holder", "BAT-18650-H", "BH-18650-2S", 28000, 90, false, false},
	}

	for i, ps := range seeds {
		category := categories[i%len(categories)]
		brand := brands[i%len(brands)]
		product := &catalogdomain.Product{
			Name:             ps.name,
			SKU:              ps.sku,
			PartNumber:       ps.partNumber,
			ShortDescription: fmt.Sprintf("%s by %s", ps.name, brand.Name),
			Price:            decimal.NewFromInt(ps.price),
			StockQuantity:    ps.stock,
			MinStockLevel:    5,
			CategoryID:       category.ID,
			BrandID:          brand.ID,
			IsActive:         true,
			IsFeatured:       ps.featured,
			IsNewProduct:     ps.isNew,
			ViewCount:        s.rng.Intn(500),
		}
		if err := s.products.Save(ctx, product); err != nil {
			return err
		}
	}

	logger.Info(ctx, "seeded sample catalog",
		"categories", len(categories), "brands", len(brands), "products", len(seeds))
	return nil
}

// ensureCustomer 保证演示客户存在，返回已有或新建的用户
func (s *Seeder) ensureCustomer(ctx context.Context, email, fullName string) (*authdomain.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, authdomain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &authdomain.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         authdomain.RoleCustomer,
		IsActive:     true,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SeedDemoOrders 填充演示客户与最近 30 天的历史订单，已有订单则跳过。
// 运费按传入的策略计算，与真实下单保持一致。
func (s *Seeder) SeedDemoOrders(ctx context.Context, shipping orderapp.ShippingPolicy) error {
	existing, _, err := s.orders.Totals(ctx)
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	demoCustomers := []struct{ email, name string }{
		{"alice@example.com", "Alice Tran"},
		{"bob@example.com", "Bob Pham"},
		{"carol@example.com", "Carol Le"},
	}
	customers := make([]*authdomain.User, 0, len(demoCustomers))
	for _, dc := range demoCustomers {
		user, err := s.ensureCustomer(ctx, dc.email, dc.name)
		if err != nil {
			return err
		}
		customers = append(customers, user)
	}

	products, _, err := s.products.List(ctx, catalogdomain.ProductFilter{ActiveOnly: true})
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}

	statuses := []orderdomain.OrderStatus{
		orderdomain.StatusDelivered,
		orderdomain.StatusDelivered,
		orderdomain.StatusDelivered,
		orderdomain.StatusShipped,
		orderdomain.StatusProcessing,
		orderdomain.StatusPending,
	}

	const orderCount = 15
	for i := 0; i < orderCount; i++ {
		customer := customers[s.rng.Intn(len(customers))]
		createdAt := time.Now().AddDate(0, 0, -s.rng.Intn(30)).Add(-time.Duration(s.rng.Intn(12)) * time.Hour)

		itemCount := 1 + s.rng.Intn(3)
		subtotal := decimal.Zero
		items := make([]orderdomain.OrderItem, 0, itemCount)
		for j := 0; j < itemCount; j++ {
			product := products[s.rng.Intn(len(products))]
			quantity := 1 + s.rng.Intn(3)
			unitPrice := product.DisplayPrice()
			subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
			items = append(items, orderdomain.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				ProductSKU:  product.SKU,
				UnitPrice:   unitPrice,
				Quantity:    quantity,
			})
		}

		shippingFee := shipping.Fee(subtotal)
		status := statuses[s.rng.Intn(len(statuses))]

		order := &orderdomain.Order{
			Model:           gorm.Model{CreatedAt: createdAt, UpdatedAt: createdAt},
			OrderNumber:     fmt.Sprintf("ORD%s-%04d", createdAt.Format("20060102150405"), i),
			UserID:          strconv.FormatUint(uint64(customer.ID), 10),
			CustomerName:    customer.FullName,
			CustomerEmail:   customer.Email,
			ShippingAddress: fmt.Sprintf("%d Le Loi Street, District 1, Ho Chi Minh City", 10+i),
			Subtotal:        subtotal,
			ShippingFee:     shippingFee,
			DiscountAmount:  decimal.Zero,
			TotalAmount:     subtotal.Add(shippingFee),
			Status:          status,
			PaymentMethod:   "COD",
			PaymentStatus:   orderdomain.PaymentPending,
			Items:           items,
		}

		switch status {
		case orderdomain.StatusProcessing:
			processed := createdAt.Add(2 * time.Hour)
			order.ProcessedAt = &processed
		case orderdomain.StatusShipped:
			processed := createdAt.Add(2 * time.Hour)
			shipped := createdAt.Add(24 * time.Hour)
			order.ProcessedAt = &processed
			order.ShippedAt = &shipped
		case orderdomain.StatusDelivered:
			processed := createdAt.Add(2 * time.Hour)
			shipped := createdAt.Add(24 * time.Hour)
			delivered := createdAt.Add(72 * time.Hour)
			order.ProcessedAt = &processed
			order.ShippedAt = &shipped
			order.DeliveredAt = &delivered
			order.PaymentStatus = orderdomain.PaymentPaid
		}

		if err := s.orders.Save(ctx, order); err != nil {
			return err
		}
	}

	logger.Info(ctx, "seeded demo orders", "customers", len(customers), "orders", orderCount)
	return nil
}
