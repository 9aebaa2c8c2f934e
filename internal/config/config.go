package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	LogLevel            string
	DatabaseURL         string
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string

	// Payment intent provider: "finternet" (default) or "stripe".
	PaymentProvider       string
	PaymentIntentURL      string
	PaymentAPIKey         string
	PaymentCurrency       string
	SettlementMethod      string
	SettlementDestination string
	StripeSecretKey       string
	StripeSuccessURL      string
	StripeCancelURL       string

	VerifierURL            string
	VerifierFallback       string // "approve" or "reject"
	VerifierFallbackAmount float64
	VerifierFallbackVendor string
	ReimburseFallback      float64
	VerdictTTL             time.Duration

	AnalyticsURL    string
	ExternalTimeout time.Duration

	StorageURL       string
	StorageSecretKey string
	EvidenceBucket   string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("PAYMENT_PROVIDER", "finternet")
	viper.SetDefault("PAYMENT_INTENT_URL", "https://api.fmm.finternetlab.io/api/v1/payment-intents")
	viper.SetDefault("PAYMENT_CURRENCY", "USD")
	viper.SetDefault("SETTLEMENT_METHOD", "OFF_RAMP_TO_RTP")
	viper.SetDefault("VERIFIER_FALLBACK", "approve")
	viper.SetDefault("VERIFIER_FALLBACK_AMOUNT", 50)
	viper.SetDefault("VERIFIER_FALLBACK_VENDOR", "Unknown Vendor")
	viper.SetDefault("REIMBURSE_FALLBACK_AMOUNT", 50)
	viper.SetDefault("VERDICT_TTL_MINUTES", 30)
	viper.SetDefault("EXTERNAL_TIMEOUT_SECONDS", 20)
	viper.SetDefault("EVIDENCE_BUCKET", "milestone-evidence")

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	return &Config{
		Env:                 env,
		Port:                viper.GetString("PORT"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),

		PaymentProvider:       strings.ToLower(viper.GetString("PAYMENT_PROVIDER")),
		PaymentIntentURL:      viper.GetString("PAYMENT_INTENT_URL"),
		PaymentAPIKey:         viper.GetString("PAYMENT_API_KEY"),
		PaymentCurrency:       strings.ToUpper(viper.GetString("PAYMENT_CURRENCY")),
		SettlementMethod:      viper.GetString("SETTLEMENT_METHOD"),
		SettlementDestination: viper.GetString("SETTLEMENT_DESTINATION"),
		StripeSecretKey:       viper.GetString("STRIPE_SECRET_KEY"),
		StripeSuccessURL:      viper.GetString("STRIPE_SUCCESS_URL"),
		StripeCancelURL:       viper.GetString("STRIPE_CANCEL_URL"),

		VerifierURL:            viper.GetString("VERIFIER_URL"),
		VerifierFallback:       strings.ToLower(viper.GetString("VERIFIER_FALLBACK")),
		VerifierFallbackAmount: viper.GetFloat64("VERIFIER_FALLBACK_AMOUNT"),
		VerifierFallbackVendor: viper.GetString("VERIFIER_FALLBACK_VENDOR"),
		ReimburseFallback:      viper.GetFloat64("REIMBURSE_FALLBACK_AMOUNT"),
		VerdictTTL:             time.Duration(viper.GetInt("VERDICT_TTL_MINUTES")) * time.Minute,

		AnalyticsURL:    viper.GetString("ANALYTICS_URL"),
		ExternalTimeout: time.Duration(viper.GetInt("EXTERNAL_TIMEOUT_SECONDS")) * time.Second,

		StorageURL:       viper.GetString("STORAGE_URL"),
		StorageSecretKey: viper.GetString("STORAGE_SECRET_KEY"),
		EvidenceBucket:   viper.GetString("EVIDENCE_BUCKET"),
	}, nil
}
