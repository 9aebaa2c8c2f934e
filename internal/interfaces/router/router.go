package router

import (
	"errors"

	"creativeminds-backend/internal/application/analytics"
	distsvc "creativeminds-backend/internal/application/distributions"
	donsvc "creativeminds-backend/internal/application/donations"
	healthsvc "creativeminds-backend/internal/application/health"
	mssvc "creativeminds-backend/internal/application/milestones"
	"creativeminds-backend/internal/application/payments"
	poolsvc "creativeminds-backend/internal/application/pool"
	projsvc "creativeminds-backend/internal/application/projects"
	"creativeminds-backend/internal/application/reimbursements"
	txsvc "creativeminds-backend/internal/application/transactions"
	uploadsvc "creativeminds-backend/internal/application/uploads"
	"creativeminds-backend/internal/application/verification"
	"creativeminds-backend/internal/config"
	"creativeminds-backend/internal/infrastructure/cache"
	"creativeminds-backend/internal/infrastructure/database"
	disthandler "creativeminds-backend/internal/interfaces/handlers/distributions"
	donhandler "creativeminds-backend/internal/interfaces/handlers/donations"
	healthhandler "creativeminds-backend/internal/interfaces/handlers/health"
	mshandler "creativeminds-backend/internal/interfaces/handlers/milestones"
	poolhandler "creativeminds-backend/internal/interfaces/handlers/pool"
	projhandler "creativeminds-backend/internal/interfaces/handlers/projects"
	txhandler "creativeminds-backend/internal/interfaces/handlers/transactions"
	uploadhandler "creativeminds-backend/internal/interfaces/handlers/uploads"
	"creativeminds-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp opens the database and Redis from cfg, migrates the schema and
// returns the wired app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, errors.New("database URL is not set")
	}
	if cfg.RedisURL == "" {
		return nil, nil, nil, errors.New("REDIS_URL is not set")
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}
	if err := database.EnsurePool(db); err != nil {
		return nil, nil, nil, err
	}
	rdb, err := cache.Open(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	return Build(cfg, db, rdb), db, rdb, nil
}

// Build wires services and routes over an already opened DB and Redis client.
func Build(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Collector: &healthsvc.Collector{
			Rdb: rdb,
			DB:  &gormDBPinger{db: db},
			Probes: []healthsvc.Probe{
				{Name: "payments", URL: cfg.PaymentIntentURL},
				{Name: "verifier", URL: cfg.VerifierURL},
				{Name: "analytics", URL: cfg.AnalyticsURL},
			},
		},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	ps := &poolsvc.Service{DB: db}
	var stats analytics.Source
	if cfg.AnalyticsURL != "" {
		stats = &analytics.HTTPClient{BaseURL: cfg.AnalyticsURL, Timeout: cfg.ExternalTimeout}
	}

	vs := &verification.Service{
		Verifier: &verification.HTTPClient{URL: cfg.VerifierURL, Timeout: cfg.ExternalTimeout},
		Fallback: verification.FallbackPolicy{
			Mode:   cfg.VerifierFallback,
			Amount: cfg.VerifierFallbackAmount,
			Vendor: cfg.VerifierFallbackVendor,
		},
	}
	ms := &mssvc.Service{
		DB:             db,
		Verification:   vs,
		Verdicts:       &mssvc.RedisVerdictStore{Rdb: rdb, TTL: cfg.VerdictTTL},
		Reimbursements: &reimbursements.Service{DB: db, Pool: ps},
		FallbackAmount: cfg.ReimburseFallback,
	}

	api := app.Group("/api/v1")

	// Projects
	prh := &projhandler.Handlers{Service: &projsvc.Service{DB: db}, Milestones: ms, Analytics: stats}
	txh := &txhandler.Handlers{Service: &txsvc.Service{DB: db}}
	pg := api.Group("/projects")
	pg.Post("/create-project", prh.CreateProject)
	pg.Get("/ongoing", prh.ListOngoing)
	pg.Get("/:id", prh.GetProject)
	pg.Get("/:id/milestones", prh.GetMilestones)
	pg.Get("/:id/analytics", prh.GetAnalytics)
	pg.Get("/:id/transactions", txh.GetProjectTransactions)

	// Milestones
	upsvc := &uploadsvc.Service{
		Signer:     &uploadsvc.HTTPClient{BaseURL: cfg.StorageURL, SecretKey: cfg.StorageSecretKey},
		StorageURL: cfg.StorageURL,
		Bucket:     cfg.EvidenceBucket,
	}
	uph := &uploadhandler.Handlers{Service: upsvc}
	msh := &mshandler.Handlers{Service: ms}
	pg.Post("/:id/milestones/:index/upload-url", uph.EvidenceUploadURL)
	pg.Post("/:id/milestones/:index/evidence", msh.AttachEvidence)
	pg.Post("/:id/milestones/:index/reimburse", msh.Reimburse)

	// Distribution
	dh := &disthandler.Handlers{Service: &distsvc.Service{DB: db, Analytics: stats}}
	pg.Post("/:id/distribute", dh.Distribute)

	// Donations
	donh := &donhandler.Handlers{Service: &donsvc.Service{
		DB:              db,
		Pool:            ps,
		Payments:        PaymentProvider(cfg),
		DefaultCurrency: cfg.PaymentCurrency,
	}}
	api.Post("/donations/initiate", donh.Initiate)

	api.Get("/transactions/intent/:intentId", txh.GetInvestment)

	poh := &poolhandler.Handlers{Service: ps}
	api.Get("/pool", poh.GetPool)

	return app
}

// PaymentProvider selects the payment-intent backend named by PAYMENT_PROVIDER.
func PaymentProvider(cfg *config.Config) payments.IntentCreator {
	switch cfg.PaymentProvider {
	case "stripe":
		return &payments.StripeCheckoutCreator{
			SecretKey:  cfg.StripeSecretKey,
			SuccessURL: cfg.StripeSuccessURL,
			CancelURL:  cfg.StripeCancelURL,
			Timeout:    cfg.ExternalTimeout,
		}
	case "", "finternet":
		return &payments.FinternetClient{
			URL:                   cfg.PaymentIntentURL,
			APIKey:                cfg.PaymentAPIKey,
			SettlementMethod:      cfg.SettlementMethod,
			SettlementDestination: cfg.SettlementDestination,
			Timeout:               cfg.ExternalTimeout,
		}
	}
	log.Warn().Str("provider", cfg.PaymentProvider).Msg("unknown payment provider, donations disabled")
	return nil
}
