package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/sampoornam/internal/config"
	"github.com/example/sampoornam/internal/handlers"
	"github.com/example/sampoornam/internal/locks"
	"github.com/example/sampoornam/internal/middleware"
	"github.com/example/sampoornam/internal/services"
	"github.com/example/sampoornam/internal/storage"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	mailService := services.NewMailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	store := storage.NewStore(db)
	mutationLocks := locks.NewKeyed()

	var notifier services.OrderNotifier
	if rabbit, err := services.NewRabbitNotifier(cfg.RabbitURL); err != nil {
		log.Printf("order notifier disabled: %v", err)
	} else if rabbit != nil {
		notifier = rabbit
	}

	authHandler := handlers.NewAuthHandler(db, cfg, mailService)
	productHandler := handlers.NewProductHandler(db, store)
	cartHandler := handlers.NewCartHandler(db, mutationLocks)
	addressHandler := handlers.NewAddressHandler(db, mutationLocks)
	orderHandler := handlers.NewOrderHandler(db, cfg, mutationLocks, notifier)

	api := app.Group("/api")
	authRequired := middleware.AuthMiddleware(db, cfg)
	verified := middleware.RequireVerified()
	admin := middleware.RequireAdmin()

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/resend-otp", authHandler.ResendOTP)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Get("/me", authRequired, authHandler.Me)
	auth.Get("/validate-token", authRequired, authHandler.ValidateToken)
	auth.Post("/logout", authRequired, authHandler.Logout)

	// Product catalog: public reads, admin writes
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/image/:id", productHandler.GetProductImage)
	products.Get("/:id", productHandler.GetProduct)
	products.Post("/", authRequired, admin, productHandler.CreateProduct)
	products.Put("/:id", authRequired, admin, productHandler.UpdateProduct)
	products.Delete("/:id", authRequired, admin, productHandler.DeleteProduct)

	// Cart requires a verified account
	cart := api.Group("/cart", authRequired, verified)
	cart.Get("/", cartHandler.GetCart)
	cart.Post("/", cartHandler.AddItem)
	cart.Put("/", cartHandler.UpdateItem)
	cart.Delete("/", cartHandler.Clear)
	cart.Put("/:itemId/save-for-later", cartHandler.SaveForLater)
	cart.Put("/:itemId/move-to-cart", cartHandler.MoveToCart)
	cart.Delete("/:itemId", cartHandler.RemoveItem)

	// Address book does not require verification
	address := api.Group("/address", authRequired)
	address.Get("/", addressHandler.ListAddresses)
	address.Post("/", addressHandler.AddAddress)
	address.Put("/default/:index", addressHandler.SetDefaultAddress)
	address.Put("/:index", addressHandler.UpdateAddress)
	address.Delete("/:index", addressHandler.DeleteAddress)

	// Order history; placement needs a verified account
	history := api.Group("/history", authRequired)
	history.Post("/place-order", verified, orderHandler.PlaceOrder)
	history.Get("/", orderHandler.ListOrders)
	history.Put("/:id/cancel", orderHandler.CancelOrder)
	history.Get("/:id", orderHandler.GetOrder)

	// Admin order operations
	adminGroup := api.Group("/admin", authRequired, admin)
	adminGroup.Get("/orders", orderHandler.ListAllOrders)
	adminGroup.Get("/orders/:id", orderHandler.GetOrderByAdmin)
	adminGroup.Put("/:id/cancel", orderHandler.CancelOrderByAdmin)
	adminGroup.Put("/:id/delivery", orderHandler.MarkDelivered)
}
