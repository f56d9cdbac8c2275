package dependency_container

import (
	"context"
	"fmt"

	"github.com/bezhai/inner-bot-server-sub000/pkg/app/detector"
	"github.com/bezhai/inner-bot-server-sub000/pkg/app/postsafety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/app/presafety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/app/recall"
	"github.com/bezhai/inner-bot-server-sub000/pkg/config"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/response"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/telemetry"
	handlers "github.com/bezhai/inner-bot-server-sub000/pkg/handlers/http"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/auth/jwt"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/bannedword"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/broker"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/cache"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/database"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/httpx"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/metrics"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/prometheus"
	providersFactory "github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers/factory"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/repository"
	infraTelemetry "github.com/bezhai/inner-bot-server-sub000/pkg/infra/telemetry"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/telemetry/kafka"
	"github.com/bezhai/inner-bot-server-sub000/pkg/server/middleware"
	"github.com/bezhai/inner-bot-server-sub000/pkg/version"
	"github.com/sirupsen/logrus"
)

const metricsWorkers = 4

type Container struct {
	Cache              cache.Client
	RedisListener      cache.EventListener
	BannedWords        *bannedword.Store
	BannedWordLoader   *bannedword.FileLoader
	ResponseRepository response.Repository
	PreSafetyGraph     *presafety.Graph
	Scheduler          *postsafety.Scheduler
	Broker             *broker.Connection
	Topology           broker.Topology
	Publisher          broker.Publisher
	PostSafetyConsumer *broker.Consumer
	RecallConsumer     *broker.Consumer
	Inspector          *broker.Inspector
	Replayer           *broker.Replayer
	Observer           *prometheus.Observer
	MetricsWorker      metrics.Worker
	JWTManager         jwt.Manager
	HandlerTransport   handlers.HandlerTransport
	PublicMiddlewares  *middleware.Transport
	AdminMiddlewares   *middleware.Transport
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	DB     *database.DB
}

func NewContainer(di ContainerDI) (*Container, error) {
	cfg := di.Cfg
	logger := di.Logger

	prometheus.Initialize(prometheus.DefaultMetricsConfig())
	observer := prometheus.NewObserver()

	// cache
	cacheInstance, err := cache.NewClient(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	redisPublisher := cache.NewRedisEventPublisher(cacheInstance, cache.InvalidationChannel)
	redisListener := cache.NewRedisEventListener(logger, cacheInstance)

	bannedWords := bannedword.NewStore(logger, cacheInstance, redisPublisher, cfg.BannedWords.CacheTTL)
	cache.RegisterEventSubscriber[cache.BannedWordsUpdatedEvent](redisListener, bannedWords)
	var loader *bannedword.FileLoader
	if cfg.BannedWords.File != "" {
		loader = bannedword.NewFileLoader(logger, cfg.BannedWords.File, bannedWords)
	}

	// telemetry
	exporterLocator := infraTelemetry.NewExporterLocator(
		infraTelemetry.WithExporter(kafka.ExporterName, kafka.NewKafkaExporter()),
		infraTelemetry.WithExporter(infraTelemetry.NopExporterName, infraTelemetry.NewNopExporter()),
	)
	exporters, err := buildExporters(cfg, exporterLocator)
	if err != nil {
		return nil, err
	}
	metricsWorker := metrics.NewWorker(logger, exporters)
	metricsWorker.StartWorkers(metricsWorkers)

	// llm
	llmClient, err := providersFactory.NewProviderLocator(cfg.LLM).Get(context.Background(), cfg.LLM.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm provider %q: %w", cfg.LLM.Provider, err)
	}

	// pre-safety
	preDetectors := []detector.Detector{
		detector.Instrument(detector.NewBannedWordDetector(logger, bannedWords), observer),
		detector.Instrument(detector.NewPromptInjectionJudge(logger, llmClient, judgeConfig(cfg, cfg.Safety.Models.PromptInjection)), observer),
		detector.Instrument(detector.NewSensitiveTopicJudge(logger, llmClient, judgeConfig(cfg, cfg.Safety.Models.SensitiveTopic)), observer),
	}
	classifier := detector.NewComplexityClassifier(logger, llmClient, judgeConfig(cfg, cfg.Safety.Models.Complexity))
	graph := presafety.NewGraph(logger, preDetectors, classifier, presafety.WithRecorder(metricsWorker))
	if err := graph.Build(); err != nil {
		return nil, fmt.Errorf("failed to build pre-safety graph: %w", err)
	}

	// persistence
	responseRepository := repository.NewAgentResponseRepository(di.DB.DB)

	// broker
	conn := broker.NewConnection(logger, cfg.RabbitMQ.URL, cfg.RabbitMQ.ReconnectDelay)
	topology := broker.NewTopology(cfg.RabbitMQ)
	publisher := broker.NewPublisher(conn, topology.Exchange)
	retry := broker.RetryPolicy{
		MaxRetries: cfg.Consumer.MaxRetries,
		BaseDelay:  cfg.Consumer.RetryBaseDelay,
		MaxDelay:   cfg.Consumer.RetryMaxDelay,
	}
	recallPublisher := recall.NewCommandPublisher(publisher)
	scheduler := postsafety.NewScheduler(logger, responseRepository, publisher, cfg.Safety.PostCheckDelay)

	// post-safety
	postConsumer := postsafety.NewConsumer(
		logger,
		detector.Instrument(detector.NewOutputBannedWordDetector(logger, bannedWords), observer),
		detector.Instrument(detector.NewOutputSafetyJudge(logger, llmClient, judgeConfig(cfg, cfg.Safety.Models.OutputSafety)), observer),
		responseRepository,
		recallPublisher,
		metricsWorker,
	)
	postSafetyConsumer := broker.NewConsumer(logger, conn, publisher, broker.ConsumerConfig{
		Queue:          broker.QueueSafetyCheck,
		Prefetch:       cfg.Consumer.Prefetch,
		Workers:        cfg.Consumer.Workers,
		Retry:          retry,
		ReconnectDelay: cfg.RabbitMQ.ReconnectDelay,
	}, postConsumer.Handle, observer)

	// recall
	recallHandler := recall.NewHandler(logger, buildRecallSink(cfg, logger), responseRepository, metricsWorker)
	recallConsumer := broker.NewConsumer(logger, conn, publisher, broker.ConsumerConfig{
		Queue:          broker.QueueRecall,
		Prefetch:       cfg.Consumer.Prefetch,
		Workers:        cfg.Consumer.Workers,
		Retry:          retry,
		ReconnectDelay: cfg.RabbitMQ.ReconnectDelay,
	}, recallHandler.Handle, observer)

	inspector := broker.NewInspector(logger, conn, topology)
	replayer := broker.NewReplayer(logger, conn, publisher, topology)

	jwtManager := jwt.NewJwtManager(&cfg.Auth)

	handlerTransport := handlers.HandlerTransport{
		PreCheckHandler:    handlers.NewPreCheckHandler(logger, graph, ""),
		PostCheckHandler:   handlers.NewPostCheckHandler(logger, scheduler),
		GetResponseHandler: handlers.NewGetResponseHandler(logger, responseRepository),
		DLQStatsHandler:    handlers.NewDLQStatsHandler(logger, inspector),
		DLQReplayHandler:   handlers.NewDLQReplayHandler(logger, replayer),
		GetVersionHandler:  handlers.NewGetVersionHandler(),
	}

	logger.WithFields(logrus.Fields{
		"version":  version.Version,
		"provider": cfg.LLM.Provider,
		"model":    cfg.LLM.Model,
	}).Info("dependency container ready")

	return &Container{
		Cache:              cacheInstance,
		RedisListener:      redisListener,
		BannedWords:        bannedWords,
		BannedWordLoader:   loader,
		ResponseRepository: responseRepository,
		PreSafetyGraph:     graph,
		Scheduler:          scheduler,
		Broker:             conn,
		Topology:           topology,
		Publisher:          publisher,
		PostSafetyConsumer: postSafetyConsumer,
		RecallConsumer:     recallConsumer,
		Inspector:          inspector,
		Replayer:           replayer,
		Observer:           observer,
		MetricsWorker:      metricsWorker,
		JWTManager:         jwtManager,
		HandlerTransport:   handlerTransport,
		PublicMiddlewares: middleware.NewTransport(
			middleware.NewPanicRecoverMiddleware(logger),
			middleware.NewCorrelationMiddleware(),
		),
		AdminMiddlewares: middleware.NewTransport(
			middleware.NewAdminAuthMiddleware(logger, jwtManager),
		),
	}, nil
}

// Close releases everything NewContainer opened, in reverse order.
func (c *Container) Close(logger *logrus.Logger) {
	c.PreSafetyGraph.Shutdown()
	c.MetricsWorker.Shutdown()
	if err := c.Broker.Close(); err != nil {
		logger.WithError(err).Warn("failed to close broker connection")
	}
	if err := c.Cache.Close(); err != nil {
		logger.WithError(err).Warn("failed to close redis client")
	}
}

func judgeConfig(cfg *config.Config, model string) detector.JudgeConfig {
	if model == "" {
		model = cfg.LLM.Model
	}
	return detector.JudgeConfig{
		Model:       model,
		Threshold:   cfg.Safety.BlockThreshold,
		Timeout:     cfg.Safety.DetectorTimeout,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}
}

func buildExporters(cfg *config.Config, locator *infraTelemetry.ExporterLocator) ([]telemetry.Exporter, error) {
	if !cfg.Kafka.Enabled {
		nop, err := locator.GetExporter(infraTelemetry.NopExporterName, nil)
		if err != nil {
			return nil, err
		}
		return []telemetry.Exporter{nop}, nil
	}
	settings := map[string]interface{}{
		"brokers": cfg.Kafka.Brokers,
		"topic":   cfg.Kafka.Topic,
	}
	exporter, err := locator.GetExporter(kafka.ExporterName, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize kafka exporter: %w", err)
	}
	return []telemetry.Exporter{exporter}, nil
}

func buildRecallSink(cfg *config.Config, logger *logrus.Logger) recall.Sink {
	if cfg.Recall.WebhookURL == "" {
		logger.Warn("recall.webhook_url is not set, recalls will dead-letter until it is")
		return recall.UnconfiguredSink{}
	}
	client := httpx.NewFastHTTPClient("safetyd/"+version.Version, httpx.WithTimeout(cfg.Recall.Timeout))
	breaker := httpx.NewCircuitBreaker("recall-webhook", cfg.Recall.Breaker.OpenTimeout, cfg.Recall.Breaker.MaxFailures)
	return recall.NewWebhookSink(cfg.Recall.WebhookURL, cfg.Recall.AuthToken, client, breaker)
}
