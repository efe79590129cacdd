package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

type Backend struct {
	BaseURL    string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8080/api"`
	Timeout    time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"10s"`
	DemoUserID int64         `yaml:"demo_user_id" env:"API_DEMO_USER_ID" env-default:"1"`
}

// Shipping duplicates the backend's shipping rule client-side, since there
// is no quote endpoint. Amounts are whole pesos.
type Shipping struct {
	FreeThreshold int64 `yaml:"free_threshold" env:"SHIPPING_FREE_THRESHOLD" env-default:"50000"`
	FlatFee       int64 `yaml:"flat_fee" env:"SHIPPING_FLAT_FEE" env-default:"2999"`
}

func (s Shipping) FreeThresholdAmount() decimal.Decimal {
	return decimal.NewFromInt(s.FreeThreshold)
}

func (s Shipping) FlatFeeAmount() decimal.Decimal {
	return decimal.NewFromInt(s.FlatFee)
}

type PaymentSim struct {
	SuccessRate     float64       `yaml:"success_rate" env:"PAYMENT_SUCCESS_RATE" env-default:"0.95"`
	ProcessingDelay time.Duration `yaml:"processing_delay" env:"PAYMENT_PROCESSING_DELAY" env-default:"3s"`
	ApprovalDelay   time.Duration `yaml:"approval_delay" env:"PAYMENT_APPROVAL_DELAY" env-default:"2s"`
	WalletBalance   int64         `yaml:"wallet_balance" env:"PAYMENT_WALLET_BALANCE" env-default:"150000"`
}

func (p PaymentSim) WalletBalanceAmount() decimal.Decimal {
	return decimal.NewFromInt(p.WalletBalance)
}

type RedisConnect struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:""`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Enabled reports whether a Redis-backed store should be used instead of the
// in-memory fallback.
func (r RedisConnect) Enabled() bool {
	return r.Addr != ""
}

type Stripe struct {
	APIKey   string `yaml:"api_key" env:"STRIPE_API_KEY" env-default:""`
	Currency string `yaml:"currency" env:"STRIPE_CURRENCY" env-default:"ars"`
}

type SendGrid struct {
	APIKey    string `yaml:"api_key" env:"SENDGRID_API_KEY" env-default:""`
	FromEmail string `yaml:"from_email" env:"SENDGRID_FROM_EMAIL" env-default:""`
	FromName  string `yaml:"from_name" env:"SENDGRID_FROM_NAME" env-default:"DemoEcommers"`
}

type Ops struct {
	Addr string `yaml:"addr" env:"OPS_ADDR" env-default:":9090"`
}

type Tracing struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:""`
}

type Config struct {
	Env        string       `yaml:"env" env:"ENV" env-default:"local"`
	Backend    Backend      `yaml:"backend"`
	Shipping   Shipping     `yaml:"shipping"`
	PaymentSim PaymentSim   `yaml:"payment_sim"`
	Redis      RedisConnect `yaml:"redis"`
	Stripe     Stripe       `yaml:"stripe"`
	SendGrid   SendGrid     `yaml:"sendgrid"`
	Ops        Ops          `yaml:"ops"`
	Tracing    Tracing      `yaml:"tracing"`
}

// Load reads the YAML file at path, then applies environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv builds a config from environment variables and defaults only,
// for deployments without a config file.
func LoadFromEnv() (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags
	}

	if configPath == "" {
		cfg, err := LoadFromEnv()
		if err != nil {
			log.Fatalf("can not read config from environment: %s", err.Error())
		}

		return cfg
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return cfg
}
