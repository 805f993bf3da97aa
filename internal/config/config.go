package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env        string         `yaml:"env"`
	HTTP       HTTPConfig     `yaml:"http"`
	Log        LogConfig      `yaml:"log"`
	Stripe     StripeConfig   `yaml:"stripe"`
	Checkout   CheckoutConfig `yaml:"checkout"`
	SalesLog   SalesLogConfig `yaml:"sales_log"`
	SMTP       SMTPConfig     `yaml:"smtp"`
	Receipt    ReceiptConfig  `yaml:"receipt"`
	Redis      RedisConfig    `yaml:"redis"`
	AdminToken string         `yaml:"admin_token"`
}

type HTTPConfig struct {
	Port           string        `yaml:"port"`
	BaseURL        string        `yaml:"base_url"`
	StaticDir      string        `yaml:"static_dir"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps"`
	RateLimitBurst int           `yaml:"rate_limit_burst"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	DashboardMode string `yaml:"dashboard_mode"` // test|live
	AccountID     string `yaml:"account_id"`
}

type CheckoutConfig struct {
	Currency           string   `yaml:"currency"`
	Locale             string   `yaml:"locale"`
	PaymentMethods     []string `yaml:"payment_methods"`
	FrontendSuccessURL string   `yaml:"frontend_success_url"`
	DefaultCountryCode string   `yaml:"default_country_code"`
}

type SalesLogConfig struct {
	Path string `yaml:"path"`
}

type SMTPConfig struct {
	Host          string `yaml:"host"`
	Port          string `yaml:"port"`
	User          string `yaml:"user"`
	Pass          string `yaml:"pass"`
	TLSMode       string `yaml:"tls_mode"` // none|starttls|tls
	SkipVerifyTLS bool   `yaml:"skip_verify_tls"`
	From          string `yaml:"from"`
	FromName      string `yaml:"from_name"`
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type ReceiptConfig struct {
	Brand       string        `yaml:"brand"`
	SellerEmail string        `yaml:"seller_email"`
	DedupeTTL   time.Duration `yaml:"dedupe_ttl"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

func Default() Config {
	return Config{
		Env: "development",
		HTTP: HTTPConfig{
			Port:           "3000",
			StaticDir:      "public",
			RateLimitRPS:   5,
			RateLimitBurst: 20,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Stripe: StripeConfig{
			DashboardMode: "test",
		},
		Checkout: CheckoutConfig{
			Currency:           "eur",
			Locale:             "it",
			PaymentMethods:     []string{"klarna", "card"},
			DefaultCountryCode: "39",
		},
		SalesLog: SalesLogConfig{Path: "vendite.csv"},
		SMTP: SMTPConfig{
			Port:    "587",
			TLSMode: "starttls",
		},
		Receipt: ReceiptConfig{
			Brand:     "Ricevuta di pagamento",
			DedupeTTL: 72 * time.Hour,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.HTTP.BaseURL == "" {
		cfg.HTTP.BaseURL = "http://localhost:" + cfg.HTTP.Port
	}
	cfg.HTTP.BaseURL = strings.TrimRight(cfg.HTTP.BaseURL, "/")

	if cfg.Stripe.DashboardMode != "live" {
		cfg.Stripe.DashboardMode = "test"
	}

	return cfg, nil
}

func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config yaml: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	overrideString("APP_ENV", &cfg.Env)
	overrideString("LOG_LEVEL", &cfg.Log.Level)

	overrideString("PORT", &cfg.HTTP.Port)
	overrideString("BASE_URL", &cfg.HTTP.BaseURL)
	overrideString("STATIC_DIR", &cfg.HTTP.StaticDir)
	overrideList("CORS_ALLOWED_ORIGINS", &cfg.HTTP.AllowedOrigins)
	if err := overrideFloat("RATE_LIMIT_RPS", &cfg.HTTP.RateLimitRPS); err != nil {
		return err
	}
	if err := overrideInt("RATE_LIMIT_BURST", &cfg.HTTP.RateLimitBurst); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout); err != nil {
		return err
	}

	overrideString("STRIPE_SECRET_KEY", &cfg.Stripe.SecretKey)
	overrideString("STRIPE_WEBHOOK_SECRET", &cfg.Stripe.WebhookSecret)
	overrideString("STRIPE_DASHBOARD_MODE", &cfg.Stripe.DashboardMode)
	overrideString("STRIPE_ACCOUNT_ID", &cfg.Stripe.AccountID)

	overrideString("CHECKOUT_CURRENCY", &cfg.Checkout.Currency)
	overrideString("CHECKOUT_LOCALE", &cfg.Checkout.Locale)
	overrideList("CHECKOUT_PAYMENT_METHODS", &cfg.Checkout.PaymentMethods)
	overrideString("FRONTEND_SUCCESS_URL", &cfg.Checkout.FrontendSuccessURL)
	overrideString("DEFAULT_COUNTRY_CODE", &cfg.Checkout.DefaultCountryCode)

	overrideString("SALES_LOG_PATH", &cfg.SalesLog.Path)
	overrideString("ADMIN_TOKEN", &cfg.AdminToken)

	overrideString("SMTP_HOST", &cfg.SMTP.Host)
	overrideString("SMTP_PORT", &cfg.SMTP.Port)
	overrideString("SMTP_USER", &cfg.SMTP.User)
	overrideString("SMTP_PASS", &cfg.SMTP.Pass)
	overrideString("SMTP_TLS_MODE", &cfg.SMTP.TLSMode)
	if err := overrideBool("SMTP_SKIP_VERIFY_TLS", &cfg.SMTP.SkipVerifyTLS); err != nil {
		return err
	}
	overrideString("MAIL_FROM", &cfg.SMTP.From)
	overrideString("MAIL_FROM_NAME", &cfg.SMTP.FromName)

	overrideString("RECEIPT_BRAND", &cfg.Receipt.Brand)
	overrideString("SELLER_EMAIL", &cfg.Receipt.SellerEmail)
	if err := overrideDuration("RECEIPT_DEDUPE_TTL", &cfg.Receipt.DedupeTTL); err != nil {
		return err
	}

	overrideString("REDIS_URL", &cfg.Redis.URL)

	return nil
}

func overrideString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func overrideList(key string, target *[]string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*target = out
}

func overrideDuration(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s duration: %w", key, err)
	}
	*target = d
	return nil
}

func overrideInt(key string, target *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s int: %w", key, err)
	}
	*target = n
	return nil
}

func overrideFloat(key string, target *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("parse %s float: %w", key, err)
	}
	*target = f
	return nil
}

func overrideBool(key string, target *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("parse %s bool: %w", key, err)
	}
	*target = b
	return nil
}
