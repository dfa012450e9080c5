package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"todoTracker/internal/config"
	"todoTracker/internal/handlers"
	"todoTracker/internal/logger"
	"todoTracker/internal/migrations"
	"todoTracker/internal/repository/todo/inmemory"
	"todoTracker/internal/repository/todo/postgres"
	"todoTracker/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config         *config.Config
	server         *http.Server
	router         *chi.Mux
	repository     service.TodoRepository
	service        handlers.Service
	tracerProvider trace.TracerProvider
	shutdowns      []func() error // вызываются в обратном порядке при остановке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func() error, 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() error {
		logger.Info("App: Завершение работы логгирования...")
		logger.Sync()
		return nil
	})

	if err := a.initTracing(); err != nil {
		return nil, err
	}

	repoType, err := a.initRepository(ctx)
	if err != nil {
		return nil, err
	}

	todoService := service.NewTodoService(a.repository, repoType)
	a.service = &todoService

	todoHandler := handlers.NewTodoHandler(a.service)
	a.router = newRouter(&todoHandler, a.config)

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      instrument(a.router, a.tracerProvider),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	logger.Info("App: Приложение инициализировано",
		zap.String("repository", string(repoType)),
		zap.String("addr", a.server.Addr))

	return a, nil
}

func (a *App) initTracing() error {
	tp, shutdown, err := newTracerProvider(a.config.Tracing, os.Stdout)
	if err != nil {
		return fmt.Errorf("инициализация трассировки: %w", err)
	}

	a.tracerProvider = tp
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	a.shutdowns = append(a.shutdowns, func() error {
		logger.Info("App: Остановка трассировки...")
		ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
		defer cancel()
		return shutdown(ctx)
	})
	return nil
}

func (a *App) shutdownTimeout() time.Duration {
	if a.config.Server.ShutdownTimeout > 0 {
		return a.config.Server.ShutdownTimeout
	}
	return 10 * time.Second
}

func (a *App) initRepository(ctx context.Context) (service.RepoType, error) {
	switch service.RepoType(a.config.Repository.Type) {
	case service.DBType:
		dbCfg := a.config.Database

		if err := migrations.Up(dbCfg.URL); err != nil {
			return "", fmt.Errorf("применение миграций: %w", err)
		}

		storage, err := postgres.New(ctx, dbCfg.URL, postgres.PoolConfig{
			MaxConns:        dbCfg.MaxConnections,
			MinConns:        dbCfg.MinConnections,
			MaxConnIdleTime: dbCfg.IdleTimeout,
		})
		if err != nil {
			return "", fmt.Errorf("подключение к базе: %w", err)
		}

		a.repository = storage
		a.shutdowns = append(a.shutdowns, func() error {
			logger.Info("App: Закрытие пула соединений...")
			storage.Close()
			return nil
		})
		return service.DBType, nil

	case service.InMemoryType:
		a.repository = inmemory.NewTodoStorage()
		return service.InMemoryType, nil

	default:
		return "", fmt.Errorf("неизвестный тип репозитория %q", a.config.Repository.Type)
	}
}

// Handler возвращает обработчик без запуска сервера
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run обслуживает запросы до отмены ctx или сигнала SIGINT/SIGTERM
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("работа сервера: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("App: Получен сигнал остановки")
		return a.Shutdown()
	})

	return g.Wait()
}

// Shutdown останавливает сервер и освобождает ресурсы
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()

	var errs error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("остановка сервера: %w", err))
		}
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, a.shutdowns[i]())
	}
	a.shutdowns = nil

	return errs
}
