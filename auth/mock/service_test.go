package mock

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velovis/velovis/api"
	"github.com/velovis/velovis/auth"
)

func call(t *testing.T, handler http.Handler, method, path, token string, in, out interface{}) int {
	t.Helper()
	var body bytes.Buffer
	if in != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(in))
	}
	req := httptest.NewRequest(method, path, &body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if out != nil && recorder.Code < 300 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), out))
	}
	return recorder.Code
}

func login(t *testing.T, handler http.Handler, username, password string) *auth.Credentials {
	t.Helper()
	credentials := &auth.Credentials{}
	status := call(t, handler, http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": password}, credentials)
	require.Equal(t, http.StatusCreated, status)
	require.True(t, credentials.Valid())
	return credentials
}

func TestService_Login(t *testing.T) {
	service, err := NewService()
	require.NoError(t, err)
	handler := service.Handler()

	var testCases = []struct {
		description string
		username    string
		password    string
		expect      int
	}{
		{description: "valid customer", username: CustomerUsername, password: CustomerPassword, expect: http.StatusCreated},
		{description: "wrong password", username: CustomerUsername, password: "nope", expect: http.StatusUnauthorized},
		{description: "unknown user", username: "ghost", password: "nope", expect: http.StatusUnauthorized},
	}
	for _, testCase := range testCases {
		status := call(t, handler, http.MethodPost, "/auth/login", "", map[string]string{"username": testCase.username, "password": testCase.password}, nil)
		assert.Equal(t, testCase.expect, status, testCase.description)
	}
	assert.Equal(t, 3, service.LoginCalls())
}

func TestService_RefreshIsSingleUse(t *testing.T) {
	service, err := NewService()
	require.NoError(t, err)
	handler := service.Handler()
	credentials := login(t, handler, CustomerUsername, CustomerPassword)

	renewed := &auth.Credentials{}
	status := call(t, handler, http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": credentials.RefreshToken}, renewed)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, renewed.Valid())
	assert.NotEqual(t, credentials.RefreshToken, renewed.RefreshToken)

	status = call(t, handler, http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": credentials.RefreshToken}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	service.RejectRefresh(true)
	status = call(t, handler, http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": renewed.RefreshToken}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, 3, service.RefreshCalls())
}

func TestService_ExpireAccessTokens(t *testing.T) {
	service, err := NewService()
	require.NoError(t, err)
	handler := service.Handler()
	credentials := login(t, handler, CustomerUsername, CustomerPassword)

	profile := &auth.Profile{}
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/auth/me", credentials.AccessToken, nil, profile))
	assert.Equal(t, CustomerUsername, profile.Username)

	service.ExpireAccessTokens()
	assert.Equal(t, http.StatusUnauthorized, call(t, handler, http.MethodGet, "/auth/me", credentials.AccessToken, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, handler, http.MethodGet, "/auth/me", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, handler, http.MethodGet, "/auth/me", credentials.RefreshToken, nil, nil))
}

func TestService_Permissions(t *testing.T) {
	service, err := NewService()
	require.NoError(t, err)
	handler := service.Handler()
	customer := login(t, handler, CustomerUsername, CustomerPassword)
	admin := login(t, handler, AdminUsername, AdminPassword)

	assert.Equal(t, http.StatusForbidden, call(t, handler, http.MethodGet, "/roles", customer.AccessToken, nil, nil))
	var roles []*api.Role
	assert.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/roles", admin.AccessToken, nil, &roles))
	assert.Len(t, roles, 2)

	assert.Equal(t, http.StatusConflict, call(t, handler, http.MethodPost, "/roles", admin.AccessToken, map[string]string{"name": "ADMIN"}, nil))
	role := &api.Role{}
	assert.Equal(t, http.StatusCreated, call(t, handler, http.MethodPost, "/roles", admin.AccessToken, map[string]string{"name": "EDITOR"}, role))
	assert.Equal(t, http.StatusNoContent, call(t, handler, http.MethodDelete, "/roles/"+role.ID, admin.AccessToken, nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, handler, http.MethodDelete, "/roles/"+role.ID, admin.AccessToken, nil, nil))
}

func TestService_CartAndOrders(t *testing.T) {
	service, err := NewService()
	require.NoError(t, err)
	handler := service.Handler()
	customer := login(t, handler, CustomerUsername, CustomerPassword)

	var products []*api.Product
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/products", "", nil, &products))
	require.Len(t, products, 2)
	lock := products[1]

	assert.Equal(t, http.StatusBadRequest, call(t, handler, http.MethodPost, "/orders", customer.AccessToken, nil, nil))

	item := &api.CartItem{}
	require.Equal(t, http.StatusCreated, call(t, handler, http.MethodPost, "/cart-items", customer.AccessToken, map[string]interface{}{"productId": lock.ID, "quantity": 2}, item))
	merged := &api.CartItem{}
	require.Equal(t, http.StatusCreated, call(t, handler, http.MethodPost, "/cart-items", customer.AccessToken, map[string]interface{}{"productId": lock.ID, "quantity": 1}, merged))
	assert.Equal(t, item.ID, merged.ID)
	assert.Equal(t, 3, merged.Quantity)
	assert.Equal(t, http.StatusBadRequest, call(t, handler, http.MethodPost, "/cart-items", customer.AccessToken, map[string]interface{}{"productId": lock.ID, "quantity": 1}, nil))

	order := &api.Order{}
	require.Equal(t, http.StatusCreated, call(t, handler, http.MethodPost, "/orders", customer.AccessToken, nil, order))
	assert.Equal(t, api.OrderPending, order.Status)
	assert.InDelta(t, 135.0, order.TotalPrice, 0.001)

	var items []*api.CartItem
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/cart-items", customer.AccessToken, nil, &items))
	assert.Empty(t, items)
	var orders []*api.Order
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/orders", customer.AccessToken, nil, &orders))
	assert.Len(t, orders, 1)
}

func TestService_RegisterAndActivate(t *testing.T) {
	service, err := NewService(WithoutSeed())
	require.NoError(t, err)
	handler := service.Handler()

	registration := &api.Registration{FirstName: "Ann", LastName: "Lee", Username: "ann", Email: "ann@velovis.test", Password: "password1"}
	require.Equal(t, http.StatusCreated, call(t, handler, http.MethodPost, "/auth/register", "", registration, nil))
	assert.Equal(t, http.StatusConflict, call(t, handler, http.MethodPost, "/auth/register", "", registration, nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, handler, http.MethodPost, "/auth/login", "", map[string]string{"username": "ann", "password": "password1"}, nil))

	token := service.ActivationToken("ann")
	require.NotEmpty(t, token)
	assert.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/auth/activate?token="+token, "", nil, nil))
	login(t, handler, "ann", "password1")

	require.Equal(t, http.StatusOK, call(t, handler, http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": "ann@velovis.test"}, nil))
	reset := service.ResetToken("ann")
	require.NotEmpty(t, reset)
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodPost, "/auth/reset-password", "", map[string]string{"token": reset, "newPassword": "password2"}, nil))
	login(t, handler, "ann", "password2")
}
