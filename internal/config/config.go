package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

// TimeZone - таймзона приложения, выставляется в NewConfig
// Используется для парсинга дат без таймзоны
var TimeZone *time.Location = time.FixedZone("UTC+4", 4*60*60)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Asia/Dubai"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Backend struct {
		URL      string `env:"BACKEND_URL"`
		Username string `env:"BACKEND_USERNAME"`
		Password string `env:"BACKEND_PASSWORD"`

		RequestTimeout time.Duration `env:"BACKEND_REQUEST_TIMEOUT" envDefault:"30s"`
		DeleteTimeout  time.Duration `env:"BACKEND_DELETE_TIMEOUT" envDefault:"60s"`
	}

	Session struct {
		UserID   string `env:"SESSION_USER_ID"`
		UserName string `env:"SESSION_USER_NAME"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"schedule_board:schedule_board"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMq struct {
		Enabled bool   `env:"RABBITMQ_ENABLED"`
		AmqpUri string `env:"RABBITMQ_URL"`

		QueueConfig struct {
			AssignmentQueueName     string `env:"RABBITMQ_ASSIGNMENT_QUEUE" envDefault:"carwash.schedule-board.assignment"`
			AssignmentQueueBind     string `env:"RABBITMQ_ASSIGNMENT_QUEUE_BIND" envDefault:"carwash.schedule-board.assignment.*"`
			AssignmentQueueExchange string `env:"RABBITMQ_ASSIGNMENT_QUEUE_EXCHANGE" envDefault:"carwash"`

			CustomerQueueName     string `env:"RABBITMQ_CUSTOMER_QUEUE" envDefault:"carwash.schedule-board.customer"`
			CustomerQueueBind     string `env:"RABBITMQ_CUSTOMER_QUEUE_BIND" envDefault:"carwash.schedule-board.customer.*"`
			CustomerQueueExchange string `env:"RABBITMQ_CUSTOMER_QUEUE_EXCHANGE" envDefault:"carwash"`
		}
	}

	Cache struct {
		Enabled       bool `env:"CACHE_ENABLED"`
		CustomersSize int  `env:"CACHE_CUSTOMERS_SIZE" envDefault:"500"`
		HistorySize   int  `env:"CACHE_HISTORY_SIZE" envDefault:"1000"`
	}

	Board struct {
		// Сколько держится визуальная отметка "saved" после успешного сохранения
		SavedFlashTTL time.Duration `env:"BOARD_SAVED_FLASH_TTL" envDefault:"2s"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	// Таймзона приложения, если не нашли - остается дефолтная UTC+4
	if loc, err := time.LoadLocation(cfg.App.Timezone); err == nil {
		TimeZone = loc
	}

	// Разделение basic-клиентов нашего HTTP API
	if cfg.Auth.BasicClients == nil {
		cfg.Auth.BasicClients = []ConfigBasicClient{}
	}
	clientPairs := strings.Split(cfg.Auth.BasicClientsString, ",")
	for _, pair := range clientPairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
