package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Insumos-api/internal/application/auth"
	"github.com/jhoicas/Insumos-api/internal/application/catalog"
	"github.com/jhoicas/Insumos-api/internal/application/dto"
	"github.com/jhoicas/Insumos-api/internal/application/importing"
	"github.com/jhoicas/Insumos-api/internal/application/usecase"
	domcatalog "github.com/jhoicas/Insumos-api/internal/domain/catalog"
	"github.com/jhoicas/Insumos-api/internal/infrastructure/nfepdf"
	"github.com/jhoicas/Insumos-api/internal/infrastructure/nfexml"
	infrapdf "github.com/jhoicas/Insumos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Insumos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Insumos-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Insumos-api/internal/interfaces/http"
	"github.com/jhoicas/Insumos-api/pkg/config"
	"github.com/jhoicas/Insumos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewCatalogItemRepository(pool)
	invoiceRepo := postgres.NewInvoiceRecordRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Extractores de notas fiscales: comparten el generador de códigos
	codes := domcatalog.NewCodeGenerator()
	xmlExtractor := nfexml.NewExtractor(codes)
	pdfExtractor := nfepdf.NewExtractor(codes, log.Component("nfepdf"))

	// Archivo de originales en MinIO; sin MINIO_ENDPOINT queda deshabilitado
	var archive importing.DocumentArchive
	if cfg.Storage.Enabled() {
		minioArchive, err := storage.NewMinioArchive(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a MinIO")
		}
		archive = minioArchive
		log.Info().Str("bucket", cfg.Storage.Bucket).Msg("archivo de documentos habilitado")
	} else {
		log.Warn().Msg("MINIO_ENDPOINT vacío: los documentos originales no se archivan")
	}

	importUC := importing.NewImportUseCase(itemRepo, invoiceRepo, xmlExtractor, pdfExtractor, archive, log.Component("importacion"))
	catalogUC := catalog.NewCatalogUseCase(itemRepo, txRunner, cfg.Catalog.SearchWindow)
	productUC := usecase.NewProductUseCase(productRepo, infrapdf.NewCostSheetGenerator())
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.Upload.MaxBytes,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code == fiber.StatusRequestEntityTooLarge {
				return c.Status(code).JSON(dto.ErrorResponse{Code: "PAYLOAD_TOO_LARGE", Message: "archivo demasiado grande"})
			}
			return c.Status(code).JSON(dto.ErrorResponse{Code: "UNEXPECTED", Message: err.Error()})
		},
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Insumos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		UserUC:    userUC,
		ImportUC:  importUC,
		CatalogUC: catalogUC,
		ProductUC: productUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
