// Package config предоставляет структуры и функции для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек сервиса.
type Config struct {
	Env                     string `yaml:"env" env:"APP_ENV" env-default:"development"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Stripe                  `yaml:"stripe"`
	Geo                     `yaml:"geo"`
	AMQP                    `yaml:"amqp"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Stripe содержит настройки платёжного провайдера. Секретный ключ и
// идентификатор цены обязательны для операций оплаты: при их отсутствии
// вызов функции завершается ошибкой, без подстановки значений по умолчанию.
type Stripe struct {
	SecretKey      string `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	PriceID        string `yaml:"price_id" env:"STRIPE_PRICE_ID"`
	PublicBaseURL  string `yaml:"public_base_url" env:"PUBLIC_BASE_URL"`
	WebhookSecret  string `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	// CheckoutOrigin резолвится в MustLoad с фиксированным приоритетом
	// источников, поэтому здесь нет env-тега и значения по умолчанию.
	CheckoutOrigin string `yaml:"checkout_origin"`
}

// Geo содержит настройки провайдера геокодирования.
type Geo struct {
	GeoAPIKey  string `yaml:"api_key" env:"GEO_API_KEY"`
	GeoBaseURL string `yaml:"base_url" env:"GEO_BASE_URL"`
}

// DefaultCheckoutOrigin — origin платёжного виджета по умолчанию.
const DefaultCheckoutOrigin = "https://js.stripe.com"

// DefaultGeoBaseURL — базовый URL картографического провайдера по умолчанию.
const DefaultGeoBaseURL = "https://maps.googleapis.com/maps/api"

// AMQP содержит настройки подключения к брокеру событий.
type AMQP struct {
	AMQPURI string `yaml:"amqp_uri" env:"AMQP_URI"`
}

// MustLoad загружает конфиг из файла, указанного в CONFIG_PATH,
// с наложением переменных окружения поверх значений файла.
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

	// Поля с историческими альтернативными именами env-переменных
	// резолвятся явно: значение из файла, затем каноническое имя,
	// затем устаревшие имена, затем значение по умолчанию.
	cfg.Stripe.CheckoutOrigin = Resolve(cfg.Stripe.CheckoutOrigin, os.LookupEnv,
		"STRIPE_CHECKOUT_ORIGIN", []string{"CHECKOUT_ORIGIN"}, DefaultCheckoutOrigin)
	cfg.Geo.GeoAPIKey = Resolve(cfg.Geo.GeoAPIKey, os.LookupEnv,
		"GEO_API_KEY", []string{"LEGACY_GEO_API_KEY"}, "")
	cfg.Geo.GeoBaseURL = Resolve(cfg.Geo.GeoBaseURL, os.LookupEnv,
		"GEO_BASE_URL", nil, DefaultGeoBaseURL)

	return &cfg
}

// IsDevelopment сообщает, работает ли сервис в окружении разработки.
// В остальных окружениях логи проходят через маскирование чувствительных полей.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}
