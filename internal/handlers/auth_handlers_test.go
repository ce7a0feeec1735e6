package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/ozhegovsv/storefront/internal/cart"
	"github.com/ozhegovsv/storefront/internal/hash"
	"github.com/ozhegovsv/storefront/internal/models"
	"github.com/ozhegovsv/storefront/internal/mykafka"
)

var (
	testJWTSecret     = []byte("test-jwt-secret")
	testRefreshSecret = []byte("test-refresh-secret")
)

func newAuthHandler(t *testing.T) *AuthHandler {
	db := initTestDB(t)
	return &AuthHandler{
		DB:            db,
		JWTSecret:     testJWTSecret,
		RefreshSecret: testRefreshSecret,
		Producer:      &mykafka.Producer{},
		Carts:         &cart.Store{DB: db},
	}
}

func doJSONRequest(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	return rec, c
}

func TestRegister(t *testing.T) {
	h := newAuthHandler(t)

	payload := map[string]string{"username": "test_user", "password": "password"}

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/register", payload)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "test_user", user.Username)
	require.Equal(t, "user", user.Role)
	require.NotEmpty(t, user.ID)

	var stored models.User
	require.NoError(t, h.DB.Where("username = ?", "test_user").First(&stored).Error)
	require.NotEqual(t, "password", stored.PasswordHash)

	// duplicate username is rejected
	_, c = doJSONRequest(t, http.MethodPost, "/api/v1/register", payload)
	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusConflict, he.Code)
}

func TestLogin(t *testing.T) {
	h := newAuthHandler(t)

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	require.NoError(t, h.DB.Create(&models.User{
		Username:     "test_user",
		PasswordHash: pwHash,
		Role:         "user",
	}).Error)

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/login", map[string]string{
		"username": "test_user",
		"password": "password",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IsAdmin      bool   `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.False(t, resp.IsAdmin)

	cookies := rec.Result().Cookies()
	names := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		names = append(names, ck.Name)
	}
	require.Contains(t, names, "accessToken")
	require.Contains(t, names, "refreshToken")

	var stored models.RefreshToken
	require.NoError(t, h.DB.Where("token = ?", resp.RefreshToken).First(&stored).Error)
	require.False(t, stored.Revoked)
}

func TestLoginWrongPassword(t *testing.T) {
	h := newAuthHandler(t)

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	require.NoError(t, h.DB.Create(&models.User{
		Username:     "test_user",
		PasswordHash: pwHash,
		Role:         "user",
	}).Error)

	_, c := doJSONRequest(t, http.MethodPost, "/api/v1/login", map[string]string{
		"username": "test_user",
		"password": "wrong",
	})
	loginErr := h.Login(c)
	he, ok := loginErr.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestLogOutRevokesRefreshToken(t *testing.T) {
	h := newAuthHandler(t)

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	require.NoError(t, h.DB.Create(&models.User{
		Username:     "test_user",
		PasswordHash: pwHash,
		Role:         "user",
	}).Error)

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/login", map[string]string{
		"username": "test_user",
		"password": "password",
	})
	require.NoError(t, h.Login(c))

	var resp struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec, c = doJSONRequest(t, http.MethodPost, "/api/v1/logout", nil)
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: resp.RefreshToken})
	require.NoError(t, h.LogOut(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.RefreshToken
	require.NoError(t, h.DB.Where("token = ?", resp.RefreshToken).First(&stored).Error)
	require.True(t, stored.Revoked)
}

func TestAdminProductCRUD(t *testing.T) {
	h := newProductHandler(t)

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/admin/products", map[string]any{
		"category_id": 1,
		"name":        "Widget",
		"slug":        "widget",
		"description": "a widget",
		"price":       9.99,
	})
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.True(t, created.Available)

	rec, c = doJSONRequest(t, http.MethodPatch, "/api/v1/admin/products/1", map[string]any{
		"price":     12.50,
		"available": false,
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.PatchProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var patched models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	require.Equal(t, 12.50, patched.Price)
	require.False(t, patched.Available)
	require.Equal(t, "Widget", patched.Name)

	rec, c = doJSONRequest(t, http.MethodDelete, "/api/v1/admin/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.DeleteProduct(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, h.DB.Model(&models.Product{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}
