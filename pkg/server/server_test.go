package server

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bezhai/inner-bot-server-sub000/pkg/config"
	handlers "github.com/bezhai/inner-bot-server-sub000/pkg/handlers/http"
	"github.com/bezhai/inner-bot-server-sub000/pkg/server/middleware"
	"github.com/bezhai/inner-bot-server-sub000/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticHandler struct{ status int }

func (h staticHandler) Handle(c *fiber.Ctx) error {
	return c.SendStatus(h.status)
}

type denyAll struct{}

func (denyAll) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
}

func TestAPIServer_Routes(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{}

	transport := handlers.HandlerTransport{
		PreCheckHandler:    staticHandler{fiber.StatusOK},
		PostCheckHandler:   staticHandler{fiber.StatusAccepted},
		GetResponseHandler: staticHandler{fiber.StatusOK},
		DLQStatsHandler:    staticHandler{fiber.StatusOK},
		DLQReplayHandler:   staticHandler{fiber.StatusOK},
		GetVersionHandler:  handlers.NewGetVersionHandler(),
	}
	s, err := NewAPIServer(APIServerDI{
		Config: cfg,
		Logger: logger,
		Routers: []router.ServerRouter{
			router.NewSafetyRouter(middleware.NewTransport(middleware.NewCorrelationMiddleware()), transport),
			router.NewAdminRouter(middleware.NewTransport(denyAll{}), transport),
		},
	})
	require.NoError(t, err)

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", fiber.StatusOK},
		{http.MethodGet, "/api/v1/version", fiber.StatusOK},
		{http.MethodPost, "/api/v1/safety/pre-check", fiber.StatusOK},
		{http.MethodPost, "/api/v1/safety/post-check", fiber.StatusAccepted},
		{http.MethodGet, "/api/v1/safety/responses/s-1", fiber.StatusOK},
		{http.MethodGet, "/api/v1/admin/dlq", fiber.StatusUnauthorized},
		{http.MethodPost, "/api/v1/admin/dlq/replay", fiber.StatusUnauthorized},
		{http.MethodGet, "/api/v1/unknown", fiber.StatusNotFound},
	}
	for _, tc := range cases {
		resp, err := s.Router.Test(httptest.NewRequest(tc.method, tc.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.path)
	}
}

func TestRouters_RejectIncompleteTransport(t *testing.T) {
	app := fiber.New()
	err := router.NewSafetyRouter(middleware.NewTransport(), handlers.HandlerTransport{}).BuildRoutes(app)
	assert.ErrorIs(t, err, router.ErrInvalidHandlerTransport)
	err = router.NewAdminRouter(middleware.NewTransport(), handlers.HandlerTransport{}).BuildRoutes(app)
	assert.ErrorIs(t, err, router.ErrInvalidHandlerTransport)
}

func TestAdminRouter_RequiresMiddleware(t *testing.T) {
	transport := handlers.HandlerTransport{
		DLQStatsHandler:  staticHandler{fiber.StatusOK},
		DLQReplayHandler: staticHandler{fiber.StatusOK},
	}
	err := router.NewAdminRouter(middleware.NewTransport(), transport).BuildRoutes(fiber.New())
	assert.ErrorIs(t, err, router.ErrUnprotectedAdminRoutes)
	err = router.NewAdminRouter(nil, transport).BuildRoutes(fiber.New())
	assert.ErrorIs(t, err, router.ErrUnprotectedAdminRoutes)
}

func TestNewAPIServer_RouteError(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	_, err := NewAPIServer(APIServerDI{
		Config:  &config.Config{},
		Logger:  logger,
		Routers: []router.ServerRouter{router.NewSafetyRouter(nil, handlers.HandlerTransport{})},
	})
	assert.ErrorIs(t, err, router.ErrInvalidHandlerTransport)
}

func TestJSONErrorHandler(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := NewBaseServer(&config.Config{}, logger)
	s.Router.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	resp, err := s.Router.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"boom"}`, string(body))
}

func TestMetricsApp(t *testing.T) {
	app := newMetricsApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMetricsServer_DisabledIsNoop(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := NewMetricsServer(&config.Config{}, logger)
	require.NoError(t, s.Run())
	assert.Nil(t, s.metricsApp)
	require.NoError(t, s.Shutdown())
}
