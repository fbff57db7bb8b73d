// Package service управляет жизненным циклом HTTP-сервера сервиса элементов:
// сборкой зависимостей, фоновым снятием показателей хоста и корректным
// завершением работы при получении системных сигналов.
package service

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/levinOo/go-items-service/internal/audit"
	"github.com/levinOo/go-items-service/internal/config"
	"github.com/levinOo/go-items-service/internal/handler"
	"github.com/levinOo/go-items-service/internal/logger"
	"github.com/levinOo/go-items-service/internal/metrics"
	"github.com/levinOo/go-items-service/internal/repository"
	"github.com/levinOo/go-items-service/internal/sampler"
)

// ServerComponents содержит все компоненты, необходимые для работы сервиса.
type ServerComponents struct {
	server  *http.Server
	store   repository.Storage
	metrics *metrics.Metrics
	sampler *sampler.Sampler
	logger  *zap.SugaredLogger
}

// PeriodicSampler периодически снимает показатели хоста в фоне, чтобы
// gauge-метрики оставались свежими между запросами /metrics.
// Снятие в момент самого запроса /metrics выполняется независимо.
type PeriodicSampler struct {
	smplr    *sampler.Sampler
	metrics  *metrics.Metrics
	interval time.Duration
	logger   *zap.SugaredLogger
	stopCh   chan struct{}
	done     chan struct{}
}

func NewPeriodicSampler(smplr *sampler.Sampler, m *metrics.Metrics, interval time.Duration, sugar *zap.SugaredLogger) *PeriodicSampler {
	return &PeriodicSampler{
		smplr:    smplr,
		metrics:  m,
		interval: interval,
		logger:   sugar,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (ps *PeriodicSampler) Start() {
	go func() {
		defer close(ps.done)
		ticker := time.NewTicker(ps.interval)
		defer ticker.Stop()

		ps.logger.Infow("Starting periodic host sampling", "interval", ps.interval)

		for {
			select {
			case <-ticker.C:
				ps.smplr.Sample(ps.metrics)
			case <-ps.stopCh:
				ps.logger.Debugw("Stopping periodic host sampling")
				return
			}
		}
	}()
}

func (ps *PeriodicSampler) Stop() {
	if ps.stopCh != nil {
		close(ps.stopCh)
		<-ps.done
	}
}

// Serve инициализирует и запускает сервис с указанной конфигурацией.
// Обрабатывает корректное завершение работы по SIGINT/SIGTERM.
//
// Возвращает ошибку, если запуск или завершение сервера завершились неудачей.
func Serve(cfg config.Config) error {
	sugar := logger.NewLogger()
	components := setupServer(cfg, sugar)
	ps := setupPeriodicSampler(cfg, components, sugar)

	return runServerWithGracefulShutdown(components, ps, cfg)
}

func setupServer(cfg config.Config, sugar *zap.SugaredLogger) *ServerComponents {
	sugar.Infow("Starting server with config",
		"address", cfg.Addr,
		"sampleInterval", cfg.SampleInterval,
		"auditFile", cfg.AuditFile,
		"auditURL", cfg.AuditURL,
	)

	storage := repository.NewMemStorage()
	m := metrics.New()
	smplr := sampler.New(sugar)
	auditer := audit.New(cfg.AuditFile, cfg.AuditURL)

	router := handler.NewRouter(storage, m, smplr, auditer, sugar)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	return &ServerComponents{
		server:  srv,
		store:   storage,
		metrics: m,
		sampler: smplr,
		logger:  sugar,
	}
}

func setupPeriodicSampler(cfg config.Config, components *ServerComponents, sugar *zap.SugaredLogger) *PeriodicSampler {
	if cfg.SampleInterval <= 0 {
		sugar.Infow("Periodic host sampling disabled", "sampleInterval", cfg.SampleInterval)
		return nil
	}

	ps := NewPeriodicSampler(components.sampler, components.metrics, time.Duration(cfg.SampleInterval)*time.Second, sugar)
	ps.Start()

	return ps
}

func runServerWithGracefulShutdown(components *ServerComponents, ps *PeriodicSampler, cfg config.Config) error {
	server := components.server
	sugar := components.logger

	serverErr := make(chan error, 1)

	go func() {
		sugar.Infow("HTTP server started", "address", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			sugar.Errorw("Server error", "error", err)
			if ps != nil {
				ps.Stop()
			}
			return fmt.Errorf("server error: %w", err)
		}
	case <-quit:
		sugar.Infoln("Shutting down server...")
	}

	return gracefulShutdown(sugar, server, ps)
}

func gracefulShutdown(sugar *zap.SugaredLogger, srv *http.Server, ps *PeriodicSampler) error {
	if ps != nil {
		ps.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Errorw("Server shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	sugar.Infoln("Server stopped gracefully")
	return nil
}
