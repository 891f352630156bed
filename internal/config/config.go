package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	GalleryAPI GalleryAPI `envPrefix:"GALLERY_API_"`
	Mpesa      Mpesa      `envPrefix:"MPESA_"`
	Checkout   Checkout   `envPrefix:"CHECKOUT_"`
	Store      Store      `envPrefix:"STORE_"`
	WhatsApp   WhatsApp   `envPrefix:"WHATSAPP_"`
	Chat       Chat       `envPrefix:"CHAT_"`
}

// GalleryAPI points at the gallery backend the storefront fronts.
type GalleryAPI struct {
	BaseURL     string        `env:"BASE_URL" envDefault:"http://localhost:8000"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"15s"`
	AuthTimeout time.Duration `env:"AUTH_TIMEOUT" envDefault:"10s"`
}

type Mpesa struct {
	CallbackURL     string        `env:"CALLBACK_URL" envDefault:"https://example.com/callback"`
	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`
	MaxPollAttempts int           `env:"MAX_POLL_ATTEMPTS" envDefault:"10"`
	FinalizeTimeout time.Duration `env:"FINALIZE_TIMEOUT" envDefault:"30s"`
	// Retention is how long a finished workflow is kept for its client to
	// read. Zero keeps it until cancel or logout.
	Retention time.Duration `env:"WORKFLOW_RETENTION" envDefault:"15m"`
}

type Checkout struct {
	DeliveryFee int64 `env:"DELIVERY_FEE" envDefault:"1000"`
}

// Store configures the storefront's own database (sqlite or mysql) and where
// client-local keys live: that database, or redis when KVBackend is "redis".
// Payment attempts are always kept in the database.
type Store struct {
	Driver    string `env:"DRIVER" envDefault:"sqlite"`
	DSN       string `env:"DSN" envDefault:"gallery.db"`
	KVBackend string `env:"KV_BACKEND" envDefault:"db"`
	RedisURL  string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
}

type WhatsApp struct {
	RelayURL    string `env:"RELAY_URL"`
	Token       string `env:"TOKEN"`
	AdminNumber string `env:"ADMIN_NUMBER" envDefault:"+254741080177"`
}

type Chat struct {
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"2"`
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
