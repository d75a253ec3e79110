package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/morvic-api/internal/application/analytics"
	"github.com/jhoicas/morvic-api/internal/application/auth"
	"github.com/jhoicas/morvic-api/internal/application/billing"
	"github.com/jhoicas/morvic-api/internal/application/inventory"
	"github.com/jhoicas/morvic-api/internal/application/order"
	"github.com/jhoicas/morvic-api/internal/application/ports"
	"github.com/jhoicas/morvic-api/internal/application/usecase"
	"github.com/jhoicas/morvic-api/internal/infrastructure/mail"
	"github.com/jhoicas/morvic-api/internal/infrastructure/migration"
	infrapdf "github.com/jhoicas/morvic-api/internal/infrastructure/pdf"
	"github.com/jhoicas/morvic-api/internal/infrastructure/postgres"
	"github.com/jhoicas/morvic-api/internal/infrastructure/storage"
	"github.com/jhoicas/morvic-api/internal/infrastructure/worker"
	httpRouter "github.com/jhoicas/morvic-api/internal/interfaces/http"
	"github.com/jhoicas/morvic-api/pkg/config"
	"github.com/jhoicas/morvic-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DB.AutoMigrate {
		m, err := migration.New(cfg.DB.ConnectionString(), cfg.DB.MigrationsPath, log.Component("migration"))
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar migraciones")
		}
		if err := m.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	reads := postgres.NewRepos(pool)

	// Correo de confirmación: cola Redis si responde, envío directo si no.
	mailer := mail.NewSMTPMailer(cfg.Mail)
	emailWorker := worker.NewEmailWorker(mailer, reads.Users, cfg.Store.Name, log.Component("email"))
	direct := worker.NewDirectNotifier(emailWorker, log.Component("email"))
	var (
		notifier ports.OrderNotifier = direct
		jobPool  *worker.Pool
	)
	if !cfg.Mail.Enabled() {
		log.Warn().Msg("MAIL_USERNAME/MAIL_PASSWORD vacíos: las confirmaciones fallarán al enviarse")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	pingCtx, cancelPing := context.WithTimeout(ctx, 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, se envía sin cola")
	} else {
		notifier = worker.NewRedisDispatcher(rdb)
		jobPool = worker.NewPool(rdb, emailWorker, log.Component("worker"))
		jobPool.Start(ctx, cfg.Worker.Count)
	}
	cancelPing()

	generator := billing.NewSaleGenerator()
	orderUC := order.NewUseCase(txRunner, reads, generator, notifier, log.Component("order"))
	saleUC := billing.NewSaleUseCase(txRunner, reads, generator, infrapdf.NewMarotoPDFGenerator(), cfg.Store.Name, log.Component("sale"))
	kardexUC := inventory.NewKardexUseCase(reads.Kardex)
	reportUC := analytics.NewReportUseCase(postgres.NewReportRepository(pool), reads.Sales)
	authUC := auth.NewAuthUseCase(reads.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Imágenes de producto: solo si hay bucket configurado.
	var productUC *usecase.ProductUseCase
	if cfg.S3.Bucket != "" {
		s3, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar S3")
		}
		productUC = usecase.NewProductUseCase(reads.Products, s3)
	} else {
		log.Warn().Msg("S3_BUCKET_NAME vacío: subida de imágenes deshabilitada")
	}

	httpLog := log.Component("http")
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    usecase.MaxImageSize + 1<<20,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(httpLog))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Morvic API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		OrderUC:        orderUC,
		SaleUC:         saleUC,
		KardexUC:       kardexUC,
		ReportUC:       reportUC,
		ProductUC:      productUC,
		AuthUC:         authUC,
		DB:             pool,
		JWTSecret:      cfg.JWT.Secret,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Log:            httpLog,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := direct.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("correos pendientes sin enviar")
	}
	if jobPool != nil {
		jobPool.Wait()
	}

	log.Info().Msg("aplicación detenida")
}
