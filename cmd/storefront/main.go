package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MaximoGamba/DemoEcommers/internal/api"
	"github.com/MaximoGamba/DemoEcommers/internal/cart"
	"github.com/MaximoGamba/DemoEcommers/internal/checkout"
	"github.com/MaximoGamba/DemoEcommers/internal/config"
	"github.com/MaximoGamba/DemoEcommers/internal/coupon"
	"github.com/MaximoGamba/DemoEcommers/internal/kv"
	"github.com/MaximoGamba/DemoEcommers/internal/metrics"
	"github.com/MaximoGamba/DemoEcommers/internal/models"
	"github.com/MaximoGamba/DemoEcommers/internal/payment"
	"github.com/MaximoGamba/DemoEcommers/internal/session"
	sendgridNotifier "github.com/MaximoGamba/DemoEcommers/pkg/sendgrid"
	stripeProvider "github.com/MaximoGamba/DemoEcommers/pkg/stripe"
	health "github.com/hellofresh/health-go/v5"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing setup
	if cfg.Tracing.OTLPEndpoint != "" {
		shutdown, err := initTracing(ctx, cfg.Tracing.OTLPEndpoint)
		if err != nil {
			slog.Error("❌ Failed to initialize tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}

		defer shutdown()
	}

	// Store setup: Redis when configured, in-memory otherwise
	var store kv.Store

	var redisClient *redis.Client

	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Error("❌ Error accessing the redis instance", "error", err.Error())
			os.Exit(1)
		}

		store = kv.NewRedisStore(redisClient)
	} else {
		store = kv.NewMemoryStore()
	}

	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("⚠️ Error closing the store", slog.String("error", err.Error()))
		}
	}()

	// Session and client-side stores
	sessions, err := session.NewManager(ctx, store, cfg.Backend.DemoUserID, logger)
	if err != nil {
		slog.Error("❌ Error initializing the session", "error", err.Error())
		os.Exit(1)
	}

	favorites, err := session.NewFavorites(ctx, store)
	if err != nil {
		slog.Error("❌ Error loading favorites", "error", err.Error())
		os.Exit(1)
	}

	viewed, err := session.NewViewed(ctx, store)
	if err != nil {
		slog.Error("❌ Error loading viewed products", "error", err.Error())
		os.Exit(1)
	}

	// Backend client and domain services
	client := api.NewClient(&cfg.Backend, sessions, logger)
	holder := cart.NewHolder(client, logger)
	coupons := coupon.NewValidator(client, logger)

	var provider payment.Provider
	if cfg.Stripe.APIKey != "" {
		provider = stripeProvider.NewProvider(&cfg.Stripe, cfg.PaymentSim.WalletBalanceAmount(), logger)
	} else {
		provider = payment.NewSimulator(&cfg.PaymentSim, logger)
	}

	orchestrator := checkout.NewOrchestrator(holder, coupons, client, provider, cfg.Shipping, logger)

	if cfg.SendGrid.APIKey != "" {
		orchestrator.WithNotifier(sendgridNotifier.NewNotifier(&cfg.SendGrid, sessions, logger))
	}

	slog.Info("storefront initialized",
		slog.String("env", cfg.Env),
		slog.String("backend", cfg.Backend.BaseURL),
		slog.String("session", sessions.SessionID()),
	)

	// Ops endpoints: metrics and health
	opsMux := http.NewServeMux()
	opsMux.Handle("GET /metrics", metrics.Handler())
	opsMux.Handle("GET /health", healthHandler(cfg, redisClient))

	opsServer := http.Server{
		Addr:    cfg.Ops.Addr,
		Handler: opsMux,
	}

	slog.Info("🚀 Ops server is starting...", slog.String("address", cfg.Ops.Addr))

	go func() {
		if err := opsServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start ops server", slog.Any("error", err.Error()))
		}
	}()

	go runDemoFlow(ctx, holder, orchestrator, client, favorites, viewed)

	<-ctx.Done()

	slog.Warn("🛑 Shutdown signal received. Preparing to stop...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Ops server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Shut down gracefully. All connections closed.")
	}
}

func initTracing(ctx context.Context, endpoint string) (func(), error) {
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(sdkresource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("storefront"),
		)),
	)

	otel.SetTracerProvider(provider)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
		}
	}, nil
}

func healthHandler(cfg *config.Config, redisClient *redis.Client) http.Handler {
	checks := []health.Config{
		{
			Name:    "backend",
			Timeout: cfg.Backend.Timeout,
			Check: func(ctx context.Context) error {
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.Backend.BaseURL+"/productos/destacados", nil)
				if err != nil {
					return err
				}

				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					return err
				}

				return resp.Body.Close()
			},
		},
	}

	if redisClient != nil {
		checks = append(checks, health.Config{
			Name:    "redis",
			Timeout: 2 * time.Second,
			Check: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{Name: "storefront", Version: "1.0.0"}),
		health.WithChecks(checks...),
	)
	if err != nil {
		slog.Error("⚠️ Failed to build health checker", slog.String("error", err.Error()))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}

	return h.Handler()
}

// runDemoFlow walks one full purchase against the backend: load the cart, add
// the first product in the catalog, check out with cash on delivery. Meant
// for demos and smoke checks; failures are logged, never fatal.
func runDemoFlow(
	ctx context.Context,
	holder *cart.Holder,
	orchestrator *checkout.Orchestrator,
	client *api.Client,
	favorites *session.Favorites,
	viewed *session.Viewed,
) {
	if os.Getenv("DEMO_FLOW") != "1" {
		return
	}

	if err := holder.Refresh(ctx); err != nil {
		slog.Error("demo: could not load the cart", slog.String("error", err.Error()))

		return
	}

	if holder.IsEmpty() {
		page, err := client.ListProducts(ctx, api.ListProductsParams{Page: 0, Size: 1})
		if err != nil || len(page.Content) == 0 {
			slog.Error("demo: no products available")

			return
		}

		product := page.Content[0]

		if err := viewed.Add(ctx, product); err != nil {
			slog.Warn("demo: could not record viewed product", slog.String("error", err.Error()))
		}

		if _, err := favorites.Toggle(ctx, product); err != nil {
			slog.Warn("demo: could not toggle favorite", slog.String("error", err.Error()))
		}

		variants, err := client.ProductVariants(ctx, product.ID)
		if err != nil || len(variants) == 0 {
			slog.Error("demo: no variants available")

			return
		}

		result, err := holder.AddItem(ctx, variants[0].ID, 1)
		if err != nil || !result.Success {
			slog.Error("demo: could not add the item", slog.String("message", result.Message))

			return
		}
	}

	if err := orchestrator.SetShippingInfo(checkout.ShippingInfo{
		Address: "Av. Corrientes 1234",
		City:    "Buenos Aires",
		ZipCode: "1043",
		Phone:   "1155667788",
	}); err != nil {
		slog.Error("demo: shipping form rejected", slog.String("error", err.Error()))

		return
	}

	if err := orchestrator.SelectPaymentMethod(models.PaymentCashOnDelivery); err != nil {
		slog.Error("demo: method rejected", slog.String("error", err.Error()))

		return
	}

	_, result, err := orchestrator.Confirm(ctx)
	if err != nil {
		slog.Error("demo: checkout failed", slog.String("error", err.Error()))

		return
	}

	if !result.Success {
		slog.Warn("demo: checkout refused", slog.String("message", result.Message))

		return
	}

	slog.Info("demo: order placed",
		slog.String("order_number", result.Order.OrderNumber),
		slog.String("total", result.Order.Total.String()),
	)
}
