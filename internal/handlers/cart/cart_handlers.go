package cart

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ozhegovsv/storefront/internal/cart"
	"github.com/ozhegovsv/storefront/internal/models"
	"github.com/ozhegovsv/storefront/internal/mykafka"
	"github.com/ozhegovsv/storefront/internal/session"
)

type CartHandler struct {
	DB       *gorm.DB
	Carts    *cart.Store
	Producer *mykafka.Producer
}

func (h *CartHandler) GetCart(c echo.Context) error {
	crt, err := h.Carts.Load(session.ID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	detail, err := h.buildDetail(crt)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, detail)
}

// AddItem puts a product into the cart, merging quantities when the line
// already exists. The quantity is sanitized here, not in the cart itself:
// anything below 1 becomes 1.
func (h *CartHandler) AddItem(c echo.Context) error {
	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	product, err := h.availableProduct(req.ProductID)
	if err != nil {
		return err
	}

	sid := session.ID(c)
	crt, err := h.Carts.Load(sid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	crt.Add(product, uint(req.Quantity), false)
	if err := h.Carts.Save(sid, crt); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, sid, map[string]any{
		"type":      "cart_item_added",
		"productID": product.ID,
	})

	detail, err := h.buildDetail(crt)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, detail)
}

// UpdateItem replaces the stored quantity for a product instead of
// merging. The unit price captured when the line was first added is kept.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	product, err := h.availableProduct(uint(productID))
	if err != nil {
		return err
	}

	sid := session.ID(c)
	crt, err := h.Carts.Load(sid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	crt.Add(product, uint(req.Quantity), true)
	if err := h.Carts.Save(sid, crt); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, sid, map[string]any{
		"type":      "cart_item_updated",
		"productID": product.ID,
		"quantity":  req.Quantity,
	})

	detail, err := h.buildDetail(crt)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, detail)
}

// RemoveItem drops a line from the cart. Removing a product that is not
// in the cart succeeds with the unchanged cart.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	sid := session.ID(c)
	crt, err := h.Carts.Load(sid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	crt.Remove(uint(productID))
	if err := h.Carts.Save(sid, crt); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, sid, map[string]any{
		"type":      "cart_item_removed",
		"productID": productID,
	})

	detail, err := h.buildDetail(crt)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	sid := session.ID(c)
	crt, err := h.Carts.Load(sid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	crt.Clear()
	if err := h.Carts.Save(sid, crt); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, sid, map[string]any{"type": "cart_cleared"})

	return c.JSON(http.StatusOK, emptyDetail())
}

func (h *CartHandler) availableProduct(id uint) (models.Product, error) {
	var product models.Product
	err := h.DB.Where("id = ? AND available = ?", id, true).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return models.Product{}, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return product, nil
}
