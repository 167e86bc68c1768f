package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dollmart/internal/config"
	"dollmart/internal/handlers"
	"dollmart/internal/middleware"
	"dollmart/internal/models"
	"dollmart/internal/repositories"
	"dollmart/internal/services"
	"dollmart/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Database ---
	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	store := repositories.NewGORMStore(db)
	if err := store.AutoMigrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	seed(store)

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQEnable {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	}

	// --- Services ---
	couponService := services.NewCouponService(store)
	authService := services.NewAuthService(store, couponService, cfg)
	productService := services.NewProductService(store.Products())
	cartService := services.NewCartService(store.Products())
	orderService := services.NewOrderService(store, couponService, cfg, publisher)
	customerService := services.NewCustomerService(store)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, authService, cartService)
	couponHandler := handlers.NewCouponHandler(couponService)
	customerHandler := handlers.NewCustomerHandler(customerService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)

	authed := apiV1.Group("", middleware.AuthRequired(authService))
	cartHandler.RegisterRoutes(authed)
	orderHandler.RegisterRoutes(authed)
	couponHandler.RegisterRoutes(authed)

	admin := authed.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	productHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	couponHandler.RegisterAdminRoutes(admin)
	customerHandler.RegisterAdminRoutes(admin)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			handler := func(msg amqp.Delivery) error {
				log.Printf("Received order event %s (Tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(handler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.DatabaseDriver == "postgres" {
		return gorm.Open(postgres.Open(cfg.DatabaseDSN), gormCfg)
	}
	return gorm.Open(sqlite.Open(cfg.DatabaseDSN), gormCfg)
}

// seed creates the default admin account and the sample catalog on an
// empty store.
func seed(store repositories.Store) {
	if _, err := store.Users().GetByUsername("admin"); err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Error hashing admin password: %v", err)
			return
		}
		admin := &models.User{
			Username:         "admin",
			PasswordHash:     string(hash),
			Role:             models.RoleAdmin,
			RegistrationDate: time.Now(),
		}
		if err := store.Users().Create(admin); err != nil {
			log.Printf("Error seeding admin user: %v", err)
		} else {
			log.Println("Seeded admin user")
		}
	}

	existing, err := store.Products().GetAll()
	if err != nil || len(existing) > 0 {
		return
	}

	products := []models.Product{
		{Name: "Rice", Category: "Groceries", Price: 2.99, Stock: 100, BulkDiscount: 0.10},
		{Name: "Milk", Category: "Groceries", Price: 1.99, Stock: 50, BulkDiscount: 0.10},
		{Name: "Bread", Category: "Groceries", Price: 1.49, Stock: 30, BulkDiscount: 0.10},
		{Name: "Smartphone", Category: "Electronics", Price: 499.99, Stock: 10, BulkDiscount: 0.05},
		{Name: "Laptop", Category: "Electronics", Price: 899.99, Stock: 5, BulkDiscount: 0.05},
		{Name: "Shampoo", Category: "Personal Care", Price: 4.99, Stock: 40, BulkDiscount: 0.15},
		{Name: "Toothpaste", Category: "Personal Care", Price: 2.49, Stock: 60, BulkDiscount: 0.15},
	}
	for i := range products {
		if err := store.Products().Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
		}
	}
}
