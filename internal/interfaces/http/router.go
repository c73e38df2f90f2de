package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Insumos-api/internal/application/auth"
	"github.com/jhoicas/Insumos-api/internal/application/catalog"
	"github.com/jhoicas/Insumos-api/internal/application/importing"
	"github.com/jhoicas/Insumos-api/internal/application/usecase"
	"github.com/jhoicas/Insumos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	UserUC    *usecase.UserUseCase
	ImportUC  *importing.ImportUseCase
	CatalogUC *catalog.CatalogUseCase
	ProductUC *usecase.ProductUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)

	// Auth (público salvo /me)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Importación de notas fiscales (protegido)
	nfe := api.Group("/nfe", requireAuth)
	importHandler := NewImportHandler(deps.ImportUC)
	nfe.Post("/xml", importHandler.ImportXML)
	nfe.Post("/pdf", importHandler.ImportPDF)

	// Catálogo de insumos (protegido; borrar solo admin)
	itens := api.Group("/itens", requireAuth)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	itens.Get("/", catalogHandler.List)
	itens.Post("/", catalogHandler.Create)
	itens.Patch("/:id", catalogHandler.Patch)
	itens.Delete("/:id", RequireRole(entity.RoleAdmin), catalogHandler.Delete)

	// Fichas técnicas (protegido)
	produtos := api.Group("/produtos", requireAuth)
	productHandler := NewProductHandler(deps.ProductUC)
	produtos.Post("/", productHandler.Create)
	produtos.Get("/", productHandler.List)
	produtos.Get("/:id/ficha.pdf", productHandler.CostSheet)
}
