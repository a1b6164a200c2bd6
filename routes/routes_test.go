package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/Dosada05/camma-system/feed"
	"github.com/Dosada05/camma-system/handlers"
	"github.com/Dosada05/camma-system/models"
	"github.com/Dosada05/camma-system/services"
)

type stubAuthService struct{}

func (stubAuthService) RequestOTP(ctx context.Context, phone string) (*services.OTPResponse, error) {
	return &services.OTPResponse{Message: "OTP sent successfully", ExpiresIn: 300}, nil
}

func (stubAuthService) Login(ctx context.Context, input services.LoginInput) (*models.Token, error) {
	return nil, services.ErrInvalidOTP
}

func newTestRouter(t *testing.T, debug bool) (http.Handler, *prometheus.Registry) {
	t.Helper()
	return newTestRouterWith(t, func(o *Options) { o.Debug = debug })
}

func newTestRouterWith(t *testing.T, configure func(*Options)) (http.Handler, *prometheus.Registry) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()

	opts := Options{
		JWTSecret:    "test-secret",
		JWTAlgorithm: "HS256",
		CORSOrigins:  []string{"*"},
		OTPRateLimit: rate.Limit(0.001),
		OTPBurst:     1,
		Gatherer:     registry,
		Registerer:   registry,
		Logger:       logger,
	}
	configure(&opts)

	// сервисы без репозиториев: тесты не доходят до их вызова
	eventService := services.NewEventService(services.EventServiceDeps{Logger: logger})
	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		System:       handlers.NewSystemHandler("CAMMA API", "1.0.0"),
		Auth:         handlers.NewAuthHandler(stubAuthService{}),
		User:         handlers.NewUserHandler(services.NewUserService(nil)),
		Fighter:      handlers.NewFighterHandler(services.NewFighterService(services.FighterServiceDeps{}), 1<<20),
		Organization: handlers.NewOrganizationHandler(services.NewOrganizationService(nil, nil, nil, nil, nil)),
		Contract:     handlers.NewContractHandler(services.NewContractService(nil, nil)),
		Event:        handlers.NewEventHandler(eventService, 1<<20),
		Task:         handlers.NewTaskHandler(services.NewTaskService(nil, nil)),
		Dashboard:    handlers.NewDashboardHandler(services.NewDashboardService(nil, nil, nil, nil, nil)),
		WebSocket:    handlers.NewWebSocketHandler(feed.NewHub(logger), eventService, nil, logger),
	}, opts)
	return router, registry
}

func TestSetupRoutes_PublicAndProtected(t *testing.T) {
	router, _ := newTestRouter(t, false)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"root", http.MethodGet, "/", http.StatusOK},
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"unknown path", http.MethodGet, "/api/v1/nope", http.StatusNotFound},
		{"me without token", http.MethodGet, "/api/v1/users/me", http.StatusUnauthorized},
		{"fights without token", http.MethodPost, "/api/v1/events/1/fights", http.StatusUnauthorized},
		{"dashboard without token", http.MethodGet, "/api/v1/dashboard/stats", http.StatusUnauthorized},
		{"docs disabled", http.MethodGet, "/docs/doc.json", http.StatusNotFound},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestSetupRoutes_OTPRateLimit(t *testing.T) {
	router, _ := newTestRouter(t, false)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/request-otp", strings.NewReader(`{"phone_number":"+77011234567"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestSetupRoutes_OTPRateLimitForwardedFor(t *testing.T) {
	send := func(router http.Handler, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/request-otp", strings.NewReader(`{"phone_number":"+77011234567"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	t.Run("untrusted header is ignored", func(t *testing.T) {
		router, _ := newTestRouter(t, false)

		assert.Equal(t, http.StatusOK, send(router, "203.0.113.1"))
		assert.Equal(t, http.StatusTooManyRequests, send(router, "203.0.113.2"))
		assert.Equal(t, http.StatusTooManyRequests, send(router, "203.0.113.3"))
	})

	t.Run("trusted proxy keys by forwarded address", func(t *testing.T) {
		router, _ := newTestRouterWith(t, func(o *Options) { o.TrustProxy = true })

		assert.Equal(t, http.StatusOK, send(router, "203.0.113.1"))
		assert.Equal(t, http.StatusOK, send(router, "203.0.113.2"))
		assert.Equal(t, http.StatusTooManyRequests, send(router, "203.0.113.1"))
	})
}

func TestSetupRoutes_LoginNotRateLimited(t *testing.T) {
	router, _ := newTestRouter(t, false)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"phone_number":"+77011234567","otp_code":"000000"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	}
}

func TestSetupRoutes_DocsInDebug(t *testing.T) {
	router, _ := newTestRouter(t, true)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"openapi"`)
	assert.Contains(t, rr.Body.String(), "/api/v1/events/{eventID}/create-pair")
}

func TestSetupRoutes_RecordsMetricsByPattern(t *testing.T) {
	router, registry := newTestRouter(t, false)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/events/17", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	families, err := registry.Gather()
	require.NoError(t, err)

	var routesSeen []string
	for _, mf := range families {
		if mf.GetName() != "camma_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "route" {
					routesSeen = append(routesSeen, l.GetValue())
				}
			}
		}
	}
	require.NotEmpty(t, routesSeen)
	assert.NotContains(t, routesSeen, "/api/v1/events/17")
}
