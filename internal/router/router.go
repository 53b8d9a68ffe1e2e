package router

import (
	"time"

	"github.com/JorgeKerilima19/app-management-sub000/internal/config"
	"github.com/JorgeKerilima19/app-management-sub000/internal/handler"
	"github.com/JorgeKerilima19/app-management-sub000/internal/infra"
	"github.com/JorgeKerilima19/app-management-sub000/internal/middleware"
	"github.com/JorgeKerilima19/app-management-sub000/internal/model"
	"github.com/JorgeKerilima19/app-management-sub000/internal/repository"
	"github.com/JorgeKerilima19/app-management-sub000/internal/service"
	"github.com/JorgeKerilima19/app-management-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	mailer *infra.Mailer,
	dispatcher *worker.Dispatcher,
	shifts *worker.ShiftSummaryWorker,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	staffRepo := repository.NewStaffRepository(db)
	tableRepo := repository.NewTableRepository(db)
	checkRepo := repository.NewCheckRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	voidRepo := repository.NewVoidRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	epsilon, err := decimal.NewFromString(cfg.PaymentEpsilon)
	if err != nil {
		epsilon = decimal.NewFromFloat(0.01)
	}

	authSvc := service.NewAuthService(staffRepo, cfg)
	ledger := service.NewCheckLedger(checkRepo)
	registry := service.NewTableRegistry(tableRepo, checkRepo, orderRepo, ledger)
	inventorySvc := service.NewInventoryLedger(inventoryRepo, menuRepo, dispatcher)
	pipeline := service.NewOrderPipeline(tableRepo, checkRepo, orderRepo, menuRepo, ledger, inventorySvc)
	reconciler := service.NewPaymentReconciler(checkRepo, paymentRepo, tableRepo, ledger, dispatcher, epsilon)
	voidSvc := service.NewVoidService(orderRepo, checkRepo, tableRepo, voidRepo, ledger)
	menuSvc := service.NewMenuService(menuRepo, rdb, time.Duration(cfg.MenuCacheTTLSec)*time.Second)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	tablesH := handler.NewTablesHandler(registry, ledger)
	ordersH := handler.NewOrdersHandler(pipeline)
	stationsH := handler.NewStationsHandler(pipeline)
	paymentsH := handler.NewPaymentsHandler(reconciler)
	voidsH := handler.NewVoidsHandler(voidSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	menuH := handler.NewMenuHandler(menuSvc)
	reportsH := handler.NewReportsHandler(shifts)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailer))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Role shorthands for the route table below.
	managers := []string{model.RoleAdmin, model.RoleOwner}
	floor := []string{model.RoleAdmin, model.RoleOwner, model.RoleCajero, model.RoleMozo}
	cashiers := []string{model.RoleAdmin, model.RoleOwner, model.RoleCajero}
	stations := []string{model.RoleAdmin, model.RoleOwner, model.RoleCocinero, model.RoleBartender}
	everyone := []string{model.RoleAdmin, model.RoleOwner, model.RoleCajero, model.RoleMozo, model.RoleCocinero, model.RoleBartender}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Floor map and table lifecycle
		v1.GET("/tables", middleware.RequireRole(everyone...), tablesH.ListTables)
		v1.POST("/tables", middleware.RequireRole(managers...), tablesH.CreateTable)
		v1.POST("/tables/:id/open", middleware.RequireRole(floor...), tablesH.OpenTable)
		v1.POST("/tables/merge", middleware.RequireRole(cashiers...), tablesH.MergeTables)

		// Checks
		v1.GET("/checks/:id", middleware.RequireRole(everyone...), tablesH.GetCheck)
		v1.GET("/checks/:id/can-pay", middleware.RequireRole(cashiers...), paymentsH.CanPay)
		v1.GET("/checks/:id/payments", middleware.RequireRole(cashiers...), paymentsH.ListPayments)

		// Pending order edits and the send
		orders := v1.Group("/orders", middleware.RequireRole(floor...))
		{
			orders.POST("/items", ordersH.AddItem)
			orders.DELETE("/items", ordersH.RemoveItem)
			orders.PUT("/items/notes", ordersH.UpdateNotes)
			orders.POST("/send", ordersH.SendToStations)
		}

		// Kitchen/bar boards
		st := v1.Group("/stations", middleware.RequireRole(stations...))
		{
			st.GET("/:station/board", stationsH.Board)
			st.POST("/items/:id/preparing", stationsH.MarkPreparing)
			st.POST("/items/:id/ready", stationsH.MarkReady)
		}

		// Settlement
		v1.POST("/payments", middleware.RequireRole(cashiers...), paymentsH.CloseCheck)

		// Voids: every void needs at least a cashier, the audit trail a manager
		v1.POST("/voids/items", middleware.RequireRole(cashiers...), voidsH.VoidItem)
		v1.POST("/voids/orders", middleware.RequireRole(cashiers...), voidsH.VoidOrder)
		v1.POST("/voids/checks", middleware.RequireRole(cashiers...), voidsH.VoidCheck)
		v1.GET("/voids/:target/:id", middleware.RequireRole(managers...), voidsH.ListVoids)

		// Menu (read-only surface; items are managed via seeding)
		v1.GET("/menu", middleware.RequireRole(everyone...), menuH.ListMenu)
		v1.GET("/menu/categories", middleware.RequireRole(everyone...), menuH.ListCategories)
		v1.GET("/menu/:id", middleware.RequireRole(everyone...), menuH.GetItem)
		v1.GET("/menu/:id/recipe", middleware.RequireRole(stations...), menuH.GetRecipe)

		// Inventory
		v1.GET("/inventory", middleware.RequireRole(model.RoleAdmin, model.RoleOwner, model.RoleCocinero, model.RoleBartender), inventoryH.ListItems)
		inv := v1.Group("/inventory", middleware.RequireRole(managers...))
		{
			inv.POST("", inventoryH.CreateItem)
			inv.POST("/adjust", inventoryH.AdjustStock)
			inv.POST("/restock", inventoryH.Restock)
			inv.GET("/transactions", inventoryH.ListTransactions)
		}

		// Staff management
		staff := v1.Group("/staff", middleware.RequireRole(managers...))
		{
			staff.POST("", authH.CreateStaff)
			staff.GET("", authH.ListStaff)
			staff.PUT("/:id", authH.UpdateStaff)
			staff.DELETE("/:id", authH.DeactivateStaff)
			staff.POST("/:id/reactivate", authH.ReactivateStaff)
		}

		// Reports
		v1.GET("/reports/shift", middleware.RequireRole(managers...), reportsH.ShiftSummary)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
