// Package checkout converts a session cart into a persisted order. The
// order header, the item snapshots and the cart clear are committed in
// one transaction; a failure anywhere rolls everything back.
package checkout

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ozhegovsv/storefront/internal/cart"
	"github.com/ozhegovsv/storefront/internal/logging"
	"github.com/ozhegovsv/storefront/internal/models"
	"github.com/ozhegovsv/storefront/internal/mykafka"
	"github.com/ozhegovsv/storefront/internal/session"
	"github.com/ozhegovsv/storefront/internal/service/token"
)

const catalogPath = "/api/v1/products"

type CheckoutHandler struct {
	DB       *gorm.DB
	Carts    *cart.Store
	Producer *mykafka.Producer

	locks sessionLocks
}

// Show presents the checkout page state: the cart summary awaiting buyer
// input, or a redirect back to the catalog when there is nothing to
// check out.
func (h *CheckoutHandler) Show(c echo.Context) error {
	crt, err := h.Carts.Load(session.ID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if crt.Len() == 0 {
		return c.Redirect(http.StatusSeeOther, catalogPath)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"items":      crt.Lines(),
		"total_cost": crt.TotalCost(),
		"required":   []string{"full_name", "email"},
	})
}

// Submit runs one checkout attempt: empty cart redirects, invalid buyer
// info re-presents the same cart state with field errors and no writes,
// valid input commits the order and clears the cart.
func (h *CheckoutHandler) Submit(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var form Form
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sid := session.ID(c)
	unlock := h.locks.lock(sid)
	defer unlock()

	crt, err := h.Carts.Load(sid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if crt.Len() == 0 {
		return c.Redirect(http.StatusSeeOther, catalogPath)
	}

	res := Validate(form)
	if !res.Valid() {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors":     res.Errors,
			"items":      crt.Lines(),
			"total_cost": crt.TotalCost(),
		})
	}

	var (
		order models.Order
		items []models.OrderItem
	)
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		order = models.Order{
			FullName: res.Form.FullName,
			Email:    res.Form.Email,
			Paid:     false,
			UserID:   userID,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		items = make([]models.OrderItem, 0, crt.Len())
		for _, line := range crt.Lines() {
			// the price is the one captured when the line entered the
			// cart, never re-read from the catalog
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Price:     line.UnitPrice,
				Quantity:  line.Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
			items = append(items, item)
		}

		crt.Clear()
		return h.Carts.SaveTx(tx, sid, crt)
	})
	if txErr != nil {
		logging.FromContext(c.Request().Context()).Error("checkout failed", "session", sid, "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "checkout failed")
	}

	h.publish(c, sid, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
	})

	order.Items = items
	return c.JSON(http.StatusCreated, order)
}

func (h *CheckoutHandler) publish(c echo.Context, sid string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", sid, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", "order_events", "error", err)
	}
}
