package router

import (
	"time"

	_ "motofix/docs" // swagger spec served at /swagger/doc.json
	"motofix/internal/config"
	"motofix/internal/handler"
	"motofix/internal/metrics"
	"motofix/internal/middleware"
	"motofix/internal/policy"
	"motofix/internal/repository"
	"motofix/internal/service"
	"motofix/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// dispatcher may be nil, in which case no receipt jobs are queued.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(metrics.Middleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	mechanicRepo := repository.NewMechanicRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, categoryRepo, rdb)
	categorySvc := service.NewCategoryService(categoryRepo)
	workshopSvc := service.NewWorkshopService(serviceRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	mechanicSvc := service.NewMechanicService(mechanicRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, serviceRepo, dispatcher, rdb, service.SaleOptions{
		Invoices:           service.NewInvoiceGenerator(cfg.InvoiceStrategy),
		AllowNegativeStock: cfg.AllowNegativeStock,
	})
	receiptSvc := service.NewReceiptService(saleRepo, productRepo, serviceRepo, cfg.ShopName, cfg.ReceiptStoragePath)
	expenseSvc := service.NewExpenseService(expenseRepo)
	reportSvc := service.NewReportService(reportRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	workshopH := handler.NewWorkshopHandler(workshopSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	mechanicsH := handler.NewMechanicsHandler(mechanicSvc)
	salesH := handler.NewSalesHandler(saleSvc, receiptSvc)
	expensesH := handler.NewExpensesHandler(expenseSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", metrics.Handler())

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes; each declares the capability it needs.
	can := middleware.RequireCapability
	api := r.Group("/api", middleware.JWTAuth(cfg.JWTSecret))
	{
		api.GET("/auth/me", authH.Me)

		api.POST("/transactions", can(policy.RecordSale), salesH.Record)
		api.GET("/transactions", can(policy.ViewTransactions), salesH.List)
		api.GET("/transactions/:id", can(policy.ViewTransactions), salesH.Get)
		// Receipts print prices, so they follow the money capability.
		api.GET("/transactions/:id/receipt", can(policy.ViewFinance), salesH.Receipt)

		api.GET("/products", can(policy.ViewCatalog), productsH.List)
		api.GET("/products/code/:code", can(policy.ViewCatalog), productsH.Lookup)
		api.GET("/products/:id", can(policy.ViewCatalog), productsH.Get)
		api.GET("/products/:id/movements", can(policy.ManageInventory), productsH.Movements)
		api.POST("/products", can(policy.ManageInventory), productsH.Create)
		api.PUT("/products/:id", can(policy.ManageInventory), productsH.Update)
		api.DELETE("/products/:id", can(policy.ManageInventory), productsH.Delete)

		api.GET("/categories", can(policy.ViewCatalog), categoriesH.List)
		api.POST("/categories", can(policy.ManageInventory), categoriesH.Create)

		api.GET("/services", can(policy.ViewCatalog), workshopH.List)
		api.POST("/services", can(policy.ManageInventory), workshopH.Create)
		api.PUT("/services/:id", can(policy.ManageInventory), workshopH.Update)
		api.DELETE("/services/:id", can(policy.ManageInventory), workshopH.Delete)

		api.GET("/customers", can(policy.ViewCustomers), customersH.List)
		api.GET("/customers/:id", can(policy.ViewCustomers), customersH.Get)
		api.POST("/customers", can(policy.ManageCustomers), customersH.Create)
		api.PUT("/customers/:id", can(policy.ManageCustomers), customersH.Update)
		api.DELETE("/customers/:id", can(policy.ManageCustomers), customersH.Delete)

		api.GET("/mechanics", can(policy.ViewMechanics), mechanicsH.List)
		api.GET("/mechanics/:id", can(policy.ViewMechanics), mechanicsH.Get)
		api.POST("/mechanics", can(policy.ManageMechanics), mechanicsH.Create)
		api.PUT("/mechanics/:id", can(policy.ManageMechanics), mechanicsH.Update)
		api.DELETE("/mechanics/:id", can(policy.ManageMechanics), mechanicsH.Delete)

		api.GET("/expenses", can(policy.ManageExpenses), expensesH.List)
		api.POST("/expenses", can(policy.ManageExpenses), expensesH.Create)
		api.DELETE("/expenses/:id", can(policy.ManageExpenses), expensesH.Delete)

		// Dashboard counts are visible to everyone; money is masked per role.
		api.GET("/dashboard/stats", can(policy.ViewTransactions), reportsH.Stats)
		api.GET("/dashboard/charts", can(policy.ViewFinance), reportsH.Charts)
		api.GET("/reports/profit-loss", can(policy.ViewFinance), reportsH.ProfitLoss)

		users := api.Group("/users", can(policy.ManageUsers))
		{
			users.GET("", usersH.List)
			users.POST("", usersH.Create)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI, outside production only. Regenerate docs/ with
	// swag init -g cmd/server/main.go after changing handler annotations.
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
