package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"openpayflow/internal/domain/entities"
	"openpayflow/internal/infrastructure/cache"
	"openpayflow/internal/infrastructure/gateway"
	"openpayflow/internal/interfaces/http/handlers"
	"openpayflow/internal/interfaces/http/middleware"
	"openpayflow/internal/usecases"
)

type webhookEndpointTestHarness struct {
	router     *gin.Engine
	merchant   *entities.Merchant
	apiKey     string
	endpoints  *fakeWebhookEndpointRepository
}

func newWebhookEndpointTestHarness(t *testing.T) *webhookEndpointTestHarness {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable: %v", err)
	}
	t.Cleanup(srv.Close)
	rdb := redisv9.NewClient(&redisv9.Options{Addr: srv.Addr()})

	merchants := newFakeMerchantRepository()
	endpoints := newFakeWebhookEndpointRepository()
	registry := gateway.NewRegistry()

	paymentSvc := usecases.NewPaymentService(fakeUnitOfWork{}, merchants, nil, nil, registry, cache.NewMerchantCache(rdb), cache.NewIdempotencyCache(rdb))
	endpointSvc := usecases.NewWebhookEndpointService(endpoints)

	apiKey := "sk_test_webhook_harness"
	merchant := &entities.Merchant{ID: uuid.New(), Name: "harness", IsActive: true}
	merchant.APIKeyHash = usecases.HashAPIKey(apiKey)
	require.NoError(t, merchants.Create(context.Background(), merchant))

	handler := handlers.NewWebhookEndpointHandler(endpointSvc)

	r := gin.New()
	group := r.Group("/v1")
	group.Use(middleware.MerchantAuth(paymentSvc))
	group.POST("/webhook-endpoints", handler.Create)
	group.GET("/webhook-endpoints", handler.List)
	group.GET("/webhook-endpoints/:id", handler.Get)
	group.PATCH("/webhook-endpoints/:id", handler.Update)
	group.DELETE("/webhook-endpoints/:id", handler.Delete)

	return &webhookEndpointTestHarness{router: r, merchant: merchant, apiKey: apiKey, endpoints: endpoints}
}

func (h *webhookEndpointTestHarness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	sep := "?"
	if bytes.Contains([]byte(path), []byte("?")) {
		sep = "&"
	}
	req := httptest.NewRequest(method, path+sep+"merchantApiKey="+h.apiKey, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestWebhookEndpointHandler_Create_ReturnsCreated(t *testing.T) {
	h := newWebhookEndpointTestHarness(t)

	w := h.do(t, http.MethodPost, "/v1/webhook-endpoints", map[string]any{
		"url":    "https://example.com/hooks",
		"secret": "supersecret1",
		"events": []string{"payment.created"},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	require.True(t, parsed["success"].(bool))
}

func TestWebhookEndpointHandler_List_ReturnsCreatedEndpoint(t *testing.T) {
	h := newWebhookEndpointTestHarness(t)
	h.do(t, http.MethodPost, "/v1/webhook-endpoints", map[string]any{
		"url":    "https://example.com/hooks",
		"secret": "supersecret1",
		"events": []string{"payment.created"},
	})

	w := h.do(t, http.MethodGet, "/v1/webhook-endpoints", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	data := parsed["data"].([]any)
	require.Len(t, data, 1)
}

func TestWebhookEndpointHandler_Get_RejectsInvalidUUID(t *testing.T) {
	h := newWebhookEndpointTestHarness(t)

	w := h.do(t, http.MethodGet, "/v1/webhook-endpoints/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookEndpointHandler_Get_RejectsCrossMerchantAccess(t *testing.T) {
	h := newWebhookEndpointTestHarness(t)

	other := &entities.WebhookEndpoint{
		ID:         uuid.New(),
		MerchantID: uuid.New(),
		URL:        "https://other.example.com/hooks",
		Secret:     "othersecret1",
		Events:     []entities.EventType{entities.EventTypePaymentCreated},
		IsActive:   true,
	}
	require.NoError(t, h.endpoints.Create(context.Background(), other))

	w := h.do(t, http.MethodGet, "/v1/webhook-endpoints/"+other.ID.String(), nil)
	require.NotEqual(t, http.StatusOK, w.Code)
}

func TestWebhookEndpointHandler_Update_PatchesOnlySpecifiedField(t *testing.T) {
	h := newWebhookEndpointTestHarness(t)
	createW := h.do(t, http.MethodPost, "/v1/webhook-endpoints", map[string]any{
		"url":    "https://example.com/hooks",
		"secret": "supersecret1",
		"events": []string{"payment.created"},
	})
	var created map[string]any
	require.NoError(t, json.Unmarshal(createW.Body.Bytes(), &created))
	data := created["data"].(map[string]any)
	id := data["id"].(string)

	isActive := false
	w := h.do(t, http.MethodPatch, "/v1/webhook-endpoints/"+id, map[string]any{
		"isActive": &isActive,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	updatedData := updated["data"].(map[string]any)
	require.Equal(t, false, updatedData["isActive"])
	require.Equal(t, "https://example.com/hooks", updatedData["url"])
}

func TestWebhookEndpointHandler_Delete_ThenGetReturnsNotFound(t *testing.T) {
	h := newWebhookEndpointTestHarness(t)
	createW := h.do(t, http.MethodPost, "/v1/webhook-endpoints", map[string]any{
		"url":    "https://example.com/hooks",
		"secret": "supersecret1",
		"events": []string{"payment.created"},
	})
	var created map[string]any
	require.NoError(t, json.Unmarshal(createW.Body.Bytes(), &created))
	data := created["data"].(map[string]any)
	id := data["id"].(string)

	delW := h.do(t, http.MethodDelete, "/v1/webhook-endpoints/"+id, nil)
	require.Equal(t, http.StatusNoContent, delW.Code)

	getW := h.do(t, http.MethodGet, "/v1/webhook-endpoints/"+id, nil)
	require.NotEqual(t, http.StatusOK, getW.Code)
}
