package server

import (
	"fmt"

	"github.com/bezhai/inner-bot-server-sub000/pkg/config"
	"github.com/bezhai/inner-bot-server-sub000/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	APIServerDI struct {
		Config  *config.Config
		Logger  *logrus.Logger
		Routers []router.ServerRouter
	}
	APIServer struct {
		*BaseServer
	}
)

func NewAPIServer(di APIServerDI) (*APIServer, error) {
	s := &APIServer{BaseServer: NewBaseServer(di.Config, di.Logger)}
	if err := s.buildRoutes(di.Routers...); err != nil {
		return nil, err
	}
	return s, nil
}

// Run starts the metrics listener and blocks serving the safety API.
func (s *APIServer) Run() error {
	s.startMetrics()
	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting safety API server")
	return s.Router.Listen(addr)
}

func (s *APIServer) Shutdown() error {
	s.stopMetrics()
	return s.Router.Shutdown()
}

// MetricsServer exposes only the metrics listener; the consumer process runs it.
type MetricsServer struct {
	*BaseServer
}

func NewMetricsServer(cfg *config.Config, logger *logrus.Logger) *MetricsServer {
	return &MetricsServer{BaseServer: NewBaseServer(cfg, logger)}
}

func (s *MetricsServer) Run() error {
	s.startMetrics()
	return nil
}

func (s *MetricsServer) Shutdown() error {
	s.stopMetrics()
	return nil
}
