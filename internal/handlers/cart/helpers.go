package cart

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ozhegovsv/storefront/internal/cart"
	"github.com/ozhegovsv/storefront/internal/logging"
	"github.com/ozhegovsv/storefront/internal/models"
)

// Item is a cart line enriched with its product for display.
type Item struct {
	Product    models.Product `json:"product"`
	Quantity   uint           `json:"quantity"`
	UnitPrice  float64        `json:"unit_price"`
	TotalPrice float64        `json:"total_price"`
}

type Detail struct {
	Items         []Item  `json:"items"`
	ItemCount     int     `json:"item_count"`
	TotalQuantity uint    `json:"total_quantity"`
	TotalCost     float64 `json:"total_cost"`
}

func emptyDetail() Detail {
	return Detail{Items: []Item{}}
}

// buildDetail re-derives the display view from stored state, joining each
// line with its product. Lines whose product has vanished from the
// catalog still render from the captured price.
func (h *CartHandler) buildDetail(crt *cart.Cart) (Detail, error) {
	detail := Detail{
		Items:         make([]Item, 0, crt.Len()),
		ItemCount:     crt.Len(),
		TotalQuantity: crt.TotalQuantity(),
		TotalCost:     crt.TotalCost(),
	}
	if crt.Len() == 0 {
		return detail, nil
	}

	var products []models.Product
	if err := h.DB.Where("id IN ?", crt.ProductIDs()).Find(&products).Error; err != nil {
		return Detail{}, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, line := range crt.Lines() {
		detail.Items = append(detail.Items, Item{
			Product:    byID[line.ProductID],
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.TotalPrice(),
		})
	}
	return detail, nil
}

func (h *CartHandler) publish(c echo.Context, sid string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", sid, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", "cart_events", "error", err)
	}
}
