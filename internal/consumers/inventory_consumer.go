package consumers

import (
	"catalog/domain"
	"catalog/pkg/events"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// InventorySetter is the part of the product service the worker needs.
type InventorySetter interface {
	SetInventory(ctx context.Context, id int64, count int) (domain.Product, error)
}

type InventoryEventHandler struct {
	products InventorySetter
}

func NewInventoryEventHandler(products InventorySetter) *InventoryEventHandler {
	return &InventoryEventHandler{
		products: products,
	}
}

// HandleEvent applies inventory.adjusted events. Any returned error sends the
// message to the dead letter queue.
func (h *InventoryEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	zap.L().Info("Inventory event received",
		zap.String("event", event.Event),
		zap.String("version", event.Version),
		zap.String("traceId", event.TraceID),
	)

	switch event.Event {
	case events.InventoryAdjustedEvent:
		return h.handleInventoryAdjusted(ctx, event)
	default:
		zap.L().Warn("Unknown inventory event type", zap.String("event", event.Event))
		return nil
	}
}

func (h *InventoryEventHandler) handleInventoryAdjusted(ctx context.Context, event *events.Event) error {
	var payload events.InventoryAdjustedPayload
	if err := event.DecodePayload(&payload); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	if payload.ProductID <= 0 {
		return errors.New("malformed payload - productId missing or invalid")
	}
	if payload.InventoryCount == nil {
		return errors.New("malformed payload - inventoryCount missing")
	}

	product, err := h.products.SetInventory(ctx, payload.ProductID, *payload.InventoryCount)
	if err != nil {
		return fmt.Errorf("set inventory for product %d: %w", payload.ProductID, err)
	}

	zap.L().Info("Product inventory updated",
		zap.Int64("productId", product.ID),
		zap.Int("inventoryCount", product.InventoryCount),
		zap.String("traceId", event.TraceID),
	)

	return nil
}
