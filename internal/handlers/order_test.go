package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/ozhegovsv/storefront/internal/models"
)

func seedOrder(t *testing.T, h *OrderHandler, userID uint) models.Order {
	order := models.Order{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		UserID:   userID,
	}
	require.NoError(t, h.DB.Create(&order).Error)
	items := []models.OrderItem{
		{OrderID: order.ID, ProductID: 1, Price: 10.00, Quantity: 2},
		{OrderID: order.ID, ProductID: 2, Price: 5.00, Quantity: 1},
	}
	for i := range items {
		require.NoError(t, h.DB.Create(&items[i]).Error)
	}
	return order
}

func TestGetOrdersForUser(t *testing.T) {
	h := &OrderHandler{DB: initTestDB(t)}
	seedOrder(t, h, 1)
	seedOrder(t, h, 2)

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/orders", nil)
	c.Set("userID", uint(1))
	require.NoError(t, h.GetOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	require.Equal(t, uint(1), orders[0].UserID)
	require.Len(t, orders[0].Items, 2)
}

func TestGetOrderReadBack(t *testing.T) {
	h := &OrderHandler{DB: initTestDB(t)}
	order := seedOrder(t, h, 1)

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/orders/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("userID", uint(1))
	require.NoError(t, h.GetOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, order.ID, resp.ID)
	require.Equal(t, "Jane Doe", resp.FullName)
	require.False(t, resp.Paid)
	require.Len(t, resp.Items, 2)
	require.Equal(t, 10.00, resp.Items[0].Price)
}

func TestGetOrderOwnerOnly(t *testing.T) {
	h := &OrderHandler{DB: initTestDB(t)}
	seedOrder(t, h, 1)

	_, c := doJSONRequest(t, http.MethodGet, "/api/v1/orders/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("userID", uint(2))
	err := h.GetOrder(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)
}
