package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/api/http/handlers"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/auth"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/domain"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/events"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/observability"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/service"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/storage"
)

type apiFixture struct {
	app    *fiber.App
	tokens *auth.TokenManager
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	store := storage.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		SLAWindows: map[domain.TicketPriority]time.Duration{
			domain.TicketPriorityUrgent: 24 * time.Hour,
			domain.TicketPriorityHigh:   72 * time.Hour,
			domain.TicketPriorityMedium: 120 * time.Hour,
			domain.TicketPriorityLow:    240 * time.Hour,
		},
	})
	warrantyService := service.NewWarrantyService(service.WarrantyDependencies{Store: store, Dispatcher: dispatcher})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{Store: store, Dispatcher: dispatcher})
	reviewService := service.NewReviewService(service.ReviewDependencies{Store: store})

	tokens := auth.NewTokenManager("test-secret")

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", nil, nil),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Warranties:     handlers.NewWarrantiesHandler(warrantyService),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Reviews:        handlers.NewReviewsHandler(reviewService),
		AuthMiddleware: auth.NewMiddleware(tokens),
	})

	return &apiFixture{app: app, tokens: tokens}
}

func (f *apiFixture) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestRoutesRequireAuthentication(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.request(t, http.MethodGet, "/api/v1/tickets", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTicketLifecycleOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	token, err := f.tokens.Sign("owner-1", auth.RoleOwner, "store-1", time.Hour)
	require.NoError(t, err)

	resp := f.request(t, http.MethodPost, "/api/v1/tickets", token, fiber.Map{
		"customer_name": "Siti",
		"device_model":  "Galaxy S21",
		"priority":      "URGENT",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		SLABreached bool   `json:"sla_breached"`
	}
	decodeData(t, resp, &created)
	require.Equal(t, "OPEN", created.Status)
	require.False(t, created.SLABreached)

	resp = f.request(t, http.MethodPatch, "/api/v1/tickets/"+created.ID, token, fiber.Map{
		"status": "CLOSED",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var failure struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&failure))
	require.Equal(t, "INVALID_TRANSITION", failure.Error.Code)

	resp = f.request(t, http.MethodPost, "/api/v1/tickets/"+created.ID+"/escalate", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var escalated struct {
		Status   string `json:"status"`
		Priority string `json:"priority"`
	}
	decodeData(t, resp, &escalated)
	require.Equal(t, "ESCALATED", escalated.Status)
	require.Equal(t, "URGENT", escalated.Priority)
}

func TestStoreIsolationOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	ownerA, err := f.tokens.Sign("owner-a", auth.RoleOwner, "store-a", time.Hour)
	require.NoError(t, err)
	ownerB, err := f.tokens.Sign("owner-b", auth.RoleOwner, "store-b", time.Hour)
	require.NoError(t, err)

	resp := f.request(t, http.MethodPost, "/api/v1/tickets", ownerA, fiber.Map{
		"customer_name": "Siti",
		"device_model":  "Galaxy S21",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &created)

	resp = f.request(t, http.MethodGet, "/api/v1/tickets/"+created.ID, ownerB, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCustomerRoleCannotManageTickets(t *testing.T) {
	f := newAPIFixture(t)
	customer, err := f.tokens.Sign("cust-1", auth.RoleCustomer, "store-1", time.Hour)
	require.NoError(t, err)

	resp := f.request(t, http.MethodGet, "/api/v1/tickets", customer, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The same token may leave a review.
	resp = f.request(t, http.MethodPost, "/api/v1/reviews", customer, fiber.Map{
		"customer_name": "Ani",
		"rating":        7,
		"comment":       "great service",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var review struct {
		Rating int `json:"rating"`
	}
	decodeData(t, resp, &review)
	require.Equal(t, 5, review.Rating)
}

func TestAdminAddressesStoreByQuery(t *testing.T) {
	f := newAPIFixture(t)
	owner, err := f.tokens.Sign("owner-1", auth.RoleOwner, "store-1", time.Hour)
	require.NoError(t, err)
	admin, err := f.tokens.Sign("admin-1", auth.RoleAdmin, "", time.Hour)
	require.NoError(t, err)

	resp := f.request(t, http.MethodPost, "/api/v1/complaints", owner, fiber.Map{
		"subject": "Late repair",
		"message": "Two weeks and counting",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.request(t, http.MethodGet, "/api/v1/complaints?store_id=store-1", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var complaints []json.RawMessage
	decodeData(t, resp, &complaints)
	require.Len(t, complaints, 1)

	// Without a store_id the admin request has no scope.
	resp = f.request(t, http.MethodGet, "/api/v1/complaints", admin, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
