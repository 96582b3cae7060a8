package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-sealindo/internal/handler"
	"go-sealindo/internal/middleware"
	"go-sealindo/internal/model"
	"go-sealindo/internal/repository"
	"go-sealindo/internal/service"
	"go-sealindo/internal/ws"
	"go-sealindo/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	db.AutoMigrate(
		&model.Place{},
		&model.Customer{},
		&model.Distributor{},
		&model.Employee{},
		&model.ProductKind{},
		&model.ProductType{},
		&model.Material{},
		&model.Product{},
		&model.HargaProduct{},
		&model.Inventory{},
		&model.StockMovement{},
		&model.StatusTransaksi{},
		&model.Transaksi{},
		&model.TransaksiDetail{},
		&model.Pembayaran{},
		&model.Production{},
		&model.StokOpname{},
		&model.StokOpnameDetail{},
		&model.User{},
	)

	// 3. Seed lookup tables and default admin user
	seedDefaults(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	hargaRepo := repository.NewHargaRepo(db)
	stockRepo := repository.NewStockRepo(db)
	transaksiRepo := repository.NewTransaksiRepo(db)
	productionRepo := repository.NewProductionRepo(db)
	opnameRepo := repository.NewOpnameRepo(db)
	lookupRepo := repository.NewLookupRepo(db)
	userRepo := repository.NewUserRepo(db)

	stockService := service.NewStockService(stockRepo, lookupRepo, db, wsHub)
	orderService := service.NewOrderService(productRepo, hargaRepo, transaksiRepo, lookupRepo, stockService, db, wsHub)
	paymentService := service.NewPaymentService(transaksiRepo, db)
	productionService := service.NewProductionService(productionRepo, lookupRepo, stockService, db, wsHub)
	opnameService := service.NewOpnameService(opnameRepo, stockRepo, db, wsHub)
	authService := service.NewAuthService(userRepo)

	stockHandler := handler.NewStockHandler(stockService)
	orderHandler := handler.NewOrderHandler(orderService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	productionHandler := handler.NewProductionHandler(productionService)
	opnameHandler := handler.NewOpnameHandler(opnameService)
	authHandler := handler.NewAuthHandler(authService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Sealindo Core v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Transaksi Routes
	protected.Get("/transaksi", orderHandler.GetAll)
	protected.Get("/transaksi/:id", orderHandler.GetByID)
	protected.Post("/transaksi", orderHandler.Create)
	protected.Get("/transaksi-detail/:id", orderHandler.GetDetailByID)

	// Pembayaran Routes
	protected.Post("/pembayaran", paymentHandler.Create)
	protected.Get("/transaksi-detail/:id/pembayaran", paymentHandler.Summary)

	// Production Routes
	protected.Get("/production", productionHandler.GetAll)
	protected.Get("/production/:id", productionHandler.GetByID)
	protected.Post("/production", productionHandler.Create)
	protected.Put("/production/:id/status", productionHandler.UpdateStatus)
	protected.Delete("/production/:id", productionHandler.Delete)

	// Stok Routes
	protected.Get("/stok", stockHandler.GetByPlace)
	protected.Get("/stok/movements", stockHandler.GetMovements)
	protected.Post("/stok/transfer", stockHandler.Transfer)

	// Stok Opname Routes
	protected.Get("/stok-opname", opnameHandler.GetAll)
	protected.Get("/stok-opname/:id", opnameHandler.GetByID)
	protected.Post("/stok-opname", opnameHandler.Start)
	protected.Put("/stok-opname/detail/:id", opnameHandler.RecordCount)
	protected.Put("/stok-opname/:id/finalize", opnameHandler.Finalize)
	protected.Put("/stok-opname/:id/cancel", opnameHandler.Cancel)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedDefaults creates the fixed lookup rows (places, status labels) and a
// default admin user when the database is empty.
func seedDefaults(db *gorm.DB) {
	lookupRepo := repository.NewLookupRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := lookupRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed lookup tables: %v", err)
	}

	_, err := userRepo.FindByEmail("admin@example.com")
	if err != nil {
		admin := &model.User{
			Email:    "admin@example.com",
			FullName: "Administrator",
			IsActive: true,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}
		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("✅ Admin user created: admin@example.com / admin123")
		}
	}
}
