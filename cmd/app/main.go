package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	httpin "github.com/suchimauz/carwash-schedule-board/internal/adapters/in/http"
	"github.com/suchimauz/carwash-schedule-board/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/carwash-schedule-board/internal/adapters/out/cache"
	"github.com/suchimauz/carwash-schedule-board/internal/adapters/out/carwash"
	"github.com/suchimauz/carwash-schedule-board/internal/adapters/out/logger"
	"github.com/suchimauz/carwash-schedule-board/internal/adapters/out/session"
	"github.com/suchimauz/carwash-schedule-board/internal/config"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/out"
	"github.com/suchimauz/carwash-schedule-board/internal/core/services/schedule_board_service"
)

func main() {
	// Локальный .env, в бою переменные приходят из окружения
	_ = godotenv.Load()

	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := mainLogger.WithModule("Main")

	logger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMq.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров
	sessionAdapter := session.NewSessionAdapter(cfg)
	carwashAdapter := carwash.NewCarwashAdapter(cfg, sessionAdapter, mainLogger.WithModule("CarwashAdapter"))

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		cacheLru, err := cache.NewCacheAdapter(cfg, mainLogger.WithModule("CacheAdapter"))
		if err != nil {
			logger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = cacheLru
	}

	// Инициализация сервиса доски
	boardService := schedule_board_service.NewScheduleBoardService(
		carwashAdapter,
		cacheAdapter,
		mainLogger.WithModule("ScheduleBoardService"),
		cfg,
	)

	// Первичная загрузка расписания, без нее доска пустая но живая
	if _, err := boardService.LoadBoard(context.Background()); err != nil {
		logger.Warn("app.board.initial_load_failed", out.LogFields{
			"error": err.Error(),
		})
	}

	// Настройка HTTP сервера
	router := gin.Default()
	controller := httpin.NewScheduleBoardController(
		boardService,
		sessionAdapter,
		cfg,
		mainLogger.WithModule("HttpController"),
	)
	controller.RegisterRoutes(router)

	// Настройка RabbitMQ слушателя только если он включен
	if cfg.RabbitMq.Enabled {
		listener, err := rabbitmq.NewScheduleEventsListener(
			boardService,
			cfg,
			mainLogger.WithModule("RabbitMQListener"),
		)
		if err != nil {
			logger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := listener.Start(ctx); err != nil {
			logger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		// Добавляем остановку RabbitMQ в defer
		defer func() {
			if err := listener.Stop(); err != nil {
				logger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			logger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})

	// Дополнительное логирование для разработки
	if cfg.IsLocal() {
		logger.Debug("app.config.debug", out.LogFields{
			"config": map[string]interface{}{
				"http": map[string]string{
					"host": cfg.HTTP.Host,
					"port": cfg.HTTP.Port,
				},
				"backend": map[string]string{
					"url":      cfg.Backend.URL,
					"username": cfg.Backend.Username,
				},
				"rabbitmq": map[string]interface{}{
					"enabled": cfg.RabbitMq.Enabled,
				},
				"cache": map[string]interface{}{
					"enabled":        cfg.Cache.Enabled,
					"customers_size": cfg.Cache.CustomersSize,
					"history_size":   cfg.Cache.HistorySize,
				},
			},
		})
	}
}
