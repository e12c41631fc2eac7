package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/steadystreamtv/storefront/internal/pkg/env"
)

// Config carries every secret and endpoint the storefront needs. It is
// assembled once at process start and handed to the components that use it;
// nothing outside this package reads provider credentials from the
// environment directly.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Stripe   StripeConfig
	NOW      NOWPaymentsConfig
	MegaOTT  MegaOTTConfig
	Notify   NotifyConfig
}

type AppConfig struct {
	Env       string
	Host      string
	Port      string
	PublicURL string `validate:"required,url"`
}

type DatabaseConfig struct {
	User     string `validate:"required"`
	Password string `validate:"required"`
	Host     string `validate:"required"`
	Port     string `validate:"required"`
	Name     string `validate:"required"`
}

type CacheConfig struct {
	Host string
	Port string
}

type StripeConfig struct {
	SecretKey     string `validate:"required"`
	WebhookSecret string `validate:"required"`
}

// NOWPaymentsConfig holds the IPN shared secret for the crypto checkout.
type NOWPaymentsConfig struct {
	IPNSecret string `validate:"required"`
}

type MegaOTTConfig struct {
	BaseURL  string `validate:"required,url"`
	APIToken string `validate:"required"`
}

// NotifyConfig gates the notification channels. Each channel is attempted
// only when its credentials are present; an empty block is a silent no-op.
type NotifyConfig struct {
	ResendAPIKey  string
	EmailFrom     string
	BusinessEmail string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	BusinessPhone    string
}

const defaultMegaOTTBaseURL = "https://megaott.net/api/v1"

// FromEnv assembles the configuration from the loaded .env map plus process
// environment. env.SetupEnvFile must have run first.
func FromEnv() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:       env.GetEnv("APP_ENV", "prod"),
			Host:      env.GetEnv("APP_HOST", "localhost"),
			Port:      env.GetEnv("APP_PORT", "4000"),
			PublicURL: env.GetEnv("PUBLIC_URL", "http://localhost:4000"),
		},
		Database: DatabaseConfig{
			User:     env.GetEnv("DB_USER", ""),
			Password: env.GetEnv("DB_PASSWORD", ""),
			Host:     env.GetEnv("DB_HOST", "127.0.0.1"),
			Port:     env.GetEnv("DB_PORT", "3306"),
			Name:     env.GetEnv("DB_NAME", ""),
		},
		Cache: CacheConfig{
			Host: env.GetEnv("CACHE_HOST", "localhost"),
			Port: env.GetEnv("CACHE_PORT", "6379"),
		},
		Stripe: StripeConfig{
			SecretKey:     env.GetEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: env.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		NOW: NOWPaymentsConfig{
			IPNSecret: env.GetEnv("NOWPAYMENTS_IPN_SECRET", ""),
		},
		MegaOTT: MegaOTTConfig{
			BaseURL:  env.GetEnv("MEGAOTT_API_BASE_URL", defaultMegaOTTBaseURL),
			APIToken: env.GetEnv("MEGAOTT_API_TOKEN", ""),
		},
		Notify: NotifyConfig{
			ResendAPIKey:  env.GetEnv("RESEND_API_KEY", ""),
			EmailFrom:     env.GetEnv("EMAIL_FROM", "SteadyStream TV <onboarding@resend.dev>"),
			BusinessEmail: env.GetEnv("BUSINESS_ALERT_EMAIL", ""),

			SMTPHost:     env.GetEnv("SMTP_HOST", ""),
			SMTPPort:     env.GetEnv("SMTP_PORT", "587"),
			SMTPUsername: env.GetEnv("SMTP_USERNAME", ""),
			SMTPPassword: env.GetEnv("SMTP_PASSWORD", ""),

			TwilioAccountSID: env.GetEnv("TWILIO_ACCOUNT_SID", ""),
			TwilioAuthToken:  env.GetEnv("TWILIO_AUTH_TOKEN", ""),
			TwilioFrom:       env.GetEnv("TWILIO_FROM_NUMBER", ""),
			BusinessPhone:    env.GetEnv("BUSINESS_ALERT_PHONE", ""),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Redacted returns a loggable summary that never exposes more than a short
// prefix of any secret.
func (c *Config) Redacted() string {
	return fmt.Sprintf(
		"app=%s db=%s@%s:%s/%s stripe_key=%s stripe_whsec=%s now_ipn=%s megaott=%s resend=%s twilio=%s",
		c.App.Env,
		c.Database.User, c.Database.Host, c.Database.Port, c.Database.Name,
		redact(c.Stripe.SecretKey),
		redact(c.Stripe.WebhookSecret),
		redact(c.NOW.IPNSecret),
		redact(c.MegaOTT.APIToken),
		redact(c.Notify.ResendAPIKey),
		redact(c.Notify.TwilioAuthToken),
	)
}

func redact(secret string) string {
	if secret == "" {
		return "unset"
	}
	if len(secret) <= 6 {
		return "***"
	}
	return secret[:6] + "..."
}
