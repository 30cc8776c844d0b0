package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	Auth    Auth    `envPrefix:"AUTH_"`
	Gateway Gateway `envPrefix:"GATEWAY_"`
	Webhook Webhook `envPrefix:"WEBHOOK_"`
	Payment Payment `envPrefix:"PAYMENT_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Gateway struct {
	Name            string        `env:"NAME" envDefault:"sslcommerz"`
	BaseApiURL      string        `env:"BASE_API_URL"`
	StoreID         string        `env:"STORE_ID"`
	StorePassword   string        `env:"STORE_PASSWORD"`
	ValidateTimeout time.Duration `env:"VALIDATE_TIMEOUT" envDefault:"15s"`
}

type Webhook struct {
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Payment holds the browser destinations after a gateway callback resolves.
type Payment struct {
	SuccessRedirect string `env:"SUCCESS_REDIRECT" envDefault:"/payment/success"`
	FailRedirect    string `env:"FAIL_REDIRECT" envDefault:"/payment/failed"`
	CancelRedirect  string `env:"CANCEL_REDIRECT" envDefault:"/payment/cancelled"`
}
