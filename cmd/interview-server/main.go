// Command interview-server runs the HR interview HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hr-interviewer/internal/api"
	"hr-interviewer/internal/common/auth"
	awsclients "hr-interviewer/internal/common/aws"
	"hr-interviewer/internal/common/config"
	"hr-interviewer/internal/common/database"
	"hr-interviewer/internal/common/llm"
	"hr-interviewer/internal/common/logger"
	"hr-interviewer/internal/common/observability"
	"hr-interviewer/internal/interview/assistant"
	"hr-interviewer/internal/interview/stages"
	"hr-interviewer/internal/interview/tools"
	"hr-interviewer/internal/notify"
	"hr-interviewer/internal/store/employees"
	"hr-interviewer/internal/store/interviews"
	"hr-interviewer/internal/store/reports"
	"hr-interviewer/internal/store/sessions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := logger.NewZapAdapter(zapLogger)

	log.Info("Starting interview server", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Infrastructure clients, each with startup retries.
	var pg *database.PostgresClient
	if err := connectWithRetry(ctx, log, "postgres", func() error {
		var err error
		if pg, err = database.NewPostgres(cfg.Database.Postgres); err != nil {
			return err
		}
		return pg.Ping(ctx)
	}); err != nil {
		log.WithError(err).Error("Failed to connect to PostgreSQL", nil)
		os.Exit(1)
	}
	defer pg.Close()

	var redisClient *database.RedisClient
	if err := connectWithRetry(ctx, log, "redis", func() error {
		var err error
		if redisClient, err = database.NewRedis(cfg.Database.Redis); err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}); err != nil {
		log.WithError(err).Error("Failed to connect to Redis", nil)
		os.Exit(1)
	}
	defer redisClient.Close()

	var esClient *database.ElasticsearchClient
	if err := connectWithRetry(ctx, log, "elasticsearch", func() error {
		var err error
		if esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch); err != nil {
			return err
		}
		return esClient.Ping()
	}); err != nil {
		log.WithError(err).Error("Failed to connect to Elasticsearch", nil)
		os.Exit(1)
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// Stores and the interview engine.
	stageCfg := stages.DefaultConfig()
	employeeStore := employees.NewStore(pg.DB, log)
	interviewStore := interviews.NewStore(pg.DB, log)
	sessionStore := sessions.NewStore(redisClient.Client, time.Duration(cfg.Sessions.TTLHours)*time.Hour, stageCfg, log)
	reportStore := reports.NewStore(esClient.Client, cfg.Database.Elasticsearch.ReportIndex, log)

	model, err := llm.NewClient(ctx, cfg.GenAI, log)
	if err != nil {
		log.WithError(err).Error("Failed to create model client", nil)
		os.Exit(1)
	}

	notifier := buildNotifier(ctx, cfg, log)

	engine := assistant.NewEngine(
		stageCfg,
		model,
		tools.NewRegistry(interviewStore, log),
		sessionStore,
		interviewStore,
		reportStore,
		notifier,
		cfg.Interview.StrategyContext,
		log,
	)

	processor := &instrumentedProcessor{
		engine:  engine,
		obs:     obs,
		timeout: time.Duration(cfg.Interview.MessageTimeout) * time.Millisecond,
	}

	var validator api.TokenValidator
	if cfg.Auth.Enabled {
		validator = auth.NewKeycloakClient(
			cfg.Auth.Keycloak.URL,
			cfg.Auth.Keycloak.Realm,
			cfg.Auth.Keycloak.ClientID,
			cfg.Auth.Keycloak.ClientSecret,
		)
	}

	server := api.NewServer(employeeStore, interviewStore, sessionStore, reportStore, processor, validator, stageCfg, log)

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Millisecond,
	}

	metricsServer := &http.Server{
		Addr:    cfg.HTTP.MetricsAddress,
		Handler: promhttp.Handler(),
	}

	go func() {
		log.Info("Metrics listener started", map[string]interface{}{"address": cfg.HTTP.MetricsAddress})
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics listener failed", nil)
		}
	}()

	go runSessionSweeper(ctx, sessionStore, cfg.Sessions, log)

	go func() {
		log.Info("HTTP listener started", map[string]interface{}{"address": cfg.HTTP.Address})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP listener failed", nil)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP shutdown failed", nil)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Metrics shutdown failed", nil)
	}

	log.Info("Server stopped", nil)
}

// connectWithRetry attempts a connection with linear backoff.
func connectWithRetry(ctx context.Context, log logger.Logger, name string, connect func() error) error {
	const maxAttempts = 5

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if lastErr = connect(); lastErr == nil {
			log.Info("Connected", map[string]interface{}{"service": name, "attempt": attempt})
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		wait := time.Duration(attempt) * 2 * time.Second
		log.WithError(lastErr).Warn("Connection failed, retrying", map[string]interface{}{
			"service": name,
			"attempt": attempt,
			"backoff": wait.String(),
		})

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}

// buildNotifier assembles the notification channels that are enabled.
func buildNotifier(ctx context.Context, cfg *config.Config, log logger.Logger) *notify.Notifier {
	var email notify.EmailSender
	var sms notify.SMSPublisher

	if cfg.Notifications.Email.Enabled {
		client, err := awsclients.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			log.WithError(err).Warn("SES unavailable, email notifications disabled", nil)
		} else {
			email = client
		}
	}

	if cfg.Notifications.SMS.Enabled {
		client, err := awsclients.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			log.WithError(err).Warn("SNS unavailable, SMS notifications disabled", nil)
		} else {
			sms = client
		}
	}

	return notify.New(email, sms, cfg.Notifications, log)
}

// runSessionSweeper periodically removes idle sessions.
func runSessionSweeper(ctx context.Context, store *sessions.Store, cfg config.SessionsConfig, log logger.Logger) {
	interval := time.Duration(cfg.SweepInterval) * time.Minute
	maxAge := time.Duration(cfg.TTLHours) * time.Hour

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := store.CleanupExpired(ctx, maxAge); err != nil {
				log.WithError(err).Warn("Session sweep failed", nil)
			}
		}
	}
}

// instrumentedProcessor wraps the engine with the per-message timeout
// and OpenTelemetry counters.
type instrumentedProcessor struct {
	engine  *assistant.Engine
	obs     *observability.Observability
	timeout time.Duration
}

func (p *instrumentedProcessor) ProcessMessage(ctx context.Context, sessionID, message string) (*assistant.Result, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := p.engine.ProcessMessage(ctx, sessionID, message)

	status := "success"
	if err != nil {
		status = "error"
	}
	p.obs.RecordMessageProcessed(ctx, status)
	p.obs.RecordMessageDuration(ctx, time.Since(start), status)

	return result, err
}
