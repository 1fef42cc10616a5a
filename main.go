package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"permata/internal/config"
	"permata/internal/handlers"
	"permata/internal/middleware"
	"permata/internal/models"
	"permata/internal/repositories"
	"permata/internal/services"
	"permata/pkg/chatai"
	"permata/pkg/geocode"
	"permata/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Initialize Database (GORM) ---
	db, err := openDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Product{},
		&models.Category{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
		&models.Address{},
		&models.WishlistEntry{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Initialize Redis (guest wishlists) ---
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// --- Initialize RabbitMQ Client ---
	// The app degrades without a broker: order events are simply skipped and
	// notification fan-out falls back to the direct writes done at checkout.
	var mqClient *rabbitmq.Client
	mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, continuing without events: %v", err)
		mqClient = nil
	} else {
		defer mqClient.Close()
	}

	// --- Initialize Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	notificationRepo := repositories.NewGORMNotificationRepository(db)
	addressRepo := repositories.NewGORMAddressRepository(db)
	guestWishlist := repositories.NewRedisWishlistStore(rdb)
	userWishlist := repositories.NewGORMWishlistStore(db)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.AdminEmails)
	productService := services.NewProductService(productRepo, categoryRepo)
	cartService := services.NewCartService()
	wishlistService := services.NewWishlistService(guestWishlist, userWishlist)
	notificationService := services.NewNotificationService(notificationRepo)
	checkoutService := services.NewCheckoutService(cartService, orderRepo, notificationRepo, mqClient, cfg.ShippingFee)
	orderService := services.NewOrderService(orderRepo, mqClient)
	addressService := services.NewAddressService(addressRepo, geocode.NewClient(cfg.GeocodeEndpoints))

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService, wishlistService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService, productService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService, productService)
	orderHandler := handlers.NewOrderHandler(checkoutService, orderService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	addressHandler := handlers.NewAddressHandler(addressService)
	chatHandler := handlers.NewChatHandler(chatai.NewClient(cfg.ChatAPIKey, cfg.ChatAPIURL, cfg.ChatModel))

	// --- Initialize Fiber App ---
	app := fiber.New()
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)

	// Wishlist serves guests (X-Device-ID header) and authenticated users
	wishlistRoutes := apiV1.Group("", middleware.OptionalAuth(authService))
	wishlistHandler.RegisterRoutes(wishlistRoutes)
	chatHandler.RegisterRoutes(wishlistRoutes)

	// Protected routes (require JWT authentication)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protectedRoutes)
	cartHandler.RegisterRoutes(protectedRoutes)
	orderHandler.RegisterRoutes(protectedRoutes)
	notificationHandler.RegisterRoutes(protectedRoutes)
	addressHandler.RegisterRoutes(protectedRoutes)

	// Admin routes
	adminRoutes := apiV1.Group("/admin", middleware.AuthRequired(authService), middleware.AdminRequired())
	productHandler.RegisterAdminRoutes(adminRoutes)
	orderHandler.RegisterAdminRoutes(adminRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	// Status-change events become user notifications.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			if consumerErr := mqClient.ConsumeOrderEvents(notificationService.HandleOrderEvent); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
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
	if err := rdb.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// openDatabase picks the GORM driver from the DSN: postgres DSNs use the
// postgres driver, anything else (including the empty default) is treated as
// a sqlite path.
func openDatabase(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "permata.db"
	}
	if strings.HasPrefix(dsn, "host=") || strings.HasPrefix(dsn, "postgres://") {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}
