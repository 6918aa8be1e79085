package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/wyfcoding/electronicsstore/internal/catalog/application"
	orderdomain "github.com/wyfcoding/electronicsstore/internal/order/domain"
)

// SalesProjectionHandler 消费订单事件，维护商品销量投影
type SalesProjectionHandler struct {
	commands *application.CatalogCommandService
	logger   *slog.Logger
}

// NewSalesProjectionHandler 创建销量投影处理器实例
func NewSalesProjectionHandler(commands *application.CatalogCommandService, logger *slog.Logger) *SalesProjectionHandler {
	return &SalesProjectionHandler{commands: commands, logger: logger}
}

// Handle 处理一条 Kafka 消息
func (h *SalesProjectionHandler) Handle(ctx context.Context, msg kafka.Message) error {
	switch msg.Topic {
	case orderdomain.OrderPlacedEventType:
		var payload orderdomain.OrderPlacedEvent
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			h.logger.ErrorContext(ctx, "failed to unmarshal order placed event", "error", err)
			return err
		}
		for _, item := range payload.Items {
			if err := h.commands.RecordSale(ctx, item.ProductID, item.Quantity); err != nil {
				h.logger.ErrorContext(ctx, "failed to record sale",
					"order_number", payload.OrderNumber,
					"product_id", item.ProductID,
					"error", err)
				return err
			}
		}
		return nil
	default:
		h.logger.WarnContext(ctx, "unknown catalog event topic", "topic", msg.Topic)
		return nil
	}
}
