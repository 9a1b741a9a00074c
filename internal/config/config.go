// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек движка генерации
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"POSTGRES_URL"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"migrations"`
	Notion                  `yaml:"notion"`
	OpenAI                  `yaml:"openai"`
	Intake                  `yaml:"intake"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	HTTPServer              `yaml:"http_server"`
	Scheduler               `yaml:"scheduler"`
	Runner                  `yaml:"runner"`
}

// Notion настройки доступа к конфигурационной базе и странице промпта
type Notion struct {
	Token            string `yaml:"token" env:"NOTION_TOKEN"`
	ConfigDatabaseID string `yaml:"config_database_id" env:"NOTION_CONFIG_DATABASE_ID"`
	PromptPageID     string `yaml:"prompt_page_id" env:"NOTION_PROMPT_PAGE_ID"`
}

// OpenAI настройки генерации комментариев. Пустой ключ отключает комментарии.
type OpenAI struct {
	APIKey string `yaml:"api_key" env:"OPENAI_API_KEY"`
}

// Intake адрес публичной формы, в которую пишет длительный процесс
type Intake struct {
	IntakeURL string `yaml:"intake_url" env:"INTAKE_URL"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	RateLimit   float64       `yaml:"rate_limit" env-default:"1"`
	RateBurst   int           `yaml:"rate_burst" env-default:"3"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес означает работу без кэша.
type RedisConnection struct {
	Addr        string        `yaml:"addr" env:"REDIS_ADDR"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
}

// RabbitMQ настройки публикации событий циклов.
// Пустой URL означает работу без брокера.
type RabbitMQ struct {
	RabbitURL  string `yaml:"url" env:"RABBITMQ_URL"`
	EventQueue string `yaml:"event_queue" env-default:"generation.events"`
}

// Scheduler параметры вероятностного расписания
type Scheduler struct {
	BaseProbability float64 `yaml:"base_probability"`
	PeakMultiplier  float64 `yaml:"peak_multiplier"`
	PeakHours       []int   `yaml:"peak_hours"`
}

// Runner параметры длительного процесса
type Runner struct {
	TickInterval   time.Duration `yaml:"tick_interval" env-default:"1m"`
	MetricsAddress string        `yaml:"metrics_address" env-default:":9090"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

// MissingSettings возвращает список настроек, без которых движок
// не может генерировать: подключение к базе и доступ к Notion.
// Redis, RabbitMQ и ключ OpenAI необязательны.
func (c *Config) MissingSettings() []string {
	var missing []string
	if c.StorageConnectionString == "" {
		missing = append(missing, "storage_connection_string")
	}
	if c.Notion.Token == "" {
		missing = append(missing, "notion.token")
	}
	if c.Notion.ConfigDatabaseID == "" {
		missing = append(missing, "notion.config_database_id")
	}
	if c.Notion.PromptPageID == "" {
		missing = append(missing, "notion.prompt_page_id")
	}
	return missing
}

// MissingRunnerSettings возвращает список настроек, без которых не может
// работать длительный процесс: доступ к Notion и адрес публичной формы.
func (c *Config) MissingRunnerSettings() []string {
	var missing []string
	if c.Notion.Token == "" {
		missing = append(missing, "notion.token")
	}
	if c.Notion.ConfigDatabaseID == "" {
		missing = append(missing, "notion.config_database_id")
	}
	if c.Notion.PromptPageID == "" {
		missing = append(missing, "notion.prompt_page_id")
	}
	if c.IntakeURL == "" {
		missing = append(missing, "intake.intake_url")
	}
	return missing
}

// String печатает конфиг без секретов: токены, ключи и строки
// подключения с паролями (Postgres, RabbitMQ) не выводятся.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"Notion:\n"+
			"  ConfigDatabaseID: %s\n"+
			"  PromptPageID: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"RabbitMQ:\n"+
			"  EventQueue: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Runner:\n"+
			"  TickInterval: %s\n",
		c.Env,
		c.MigrationsPath,
		c.Notion.ConfigDatabaseID,
		c.Notion.PromptPageID,
		c.Addr,
		c.DB,
		c.MaxRetries,
		c.DialTimeout,
		c.Timeout,
		c.EventQueue,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TickInterval,
	)
}
