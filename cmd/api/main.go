package main

import (
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/Oussama-souissi024/formation-ecommerce/internal/cache"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/cart"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/category"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/config"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/coupon"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/order"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/payment"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/product"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/user"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to reach database: %v", err)
	}
	if err := ensureSchema(db); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	var gateway payment.Gateway
	if cfg.StripeSecretKey != "" {
		gateway = payment.NewStripeGateway(cfg.StripeSecretKey, cfg.Currency)
	} else {
		log.Println("STRIPE_SECRET_KEY not set, using in-process fake payment gateway")
		gateway = payment.NewFakeGateway()
	}

	var productCache cache.Cache
	if cfg.RedisAddr != "" {
		productCache = cache.NewRedisCache(cfg.RedisAddr, "product")
	}

	userService := user.NewService(user.NewPostgresRepository(db))
	productService := product.NewService(product.NewPostgresRepository(db), productCache)
	categoryService := category.NewService(category.NewPostgresRepository(db))
	couponService := coupon.NewService(coupon.NewPostgresRepository(db), gateway)
	orderService := order.NewService(order.NewPostgresRepository(db), gateway)
	cartService := cart.NewService(cart.NewPostgresRepository(db), couponService, productService)

	userHandler := user.NewHandler(userService)
	productHandler := product.NewHandler(productService)
	categoryHandler := category.NewHandler(categoryService)
	couponHandler := coupon.NewHandler(couponService)
	orderHandler := order.NewHandler(orderService)
	cartHandler := cart.NewHandler(cartService, orderService, userService)

	app := fiber.New()
	app.Use(cors.New())

	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	couponHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)

	log.Fatal(app.Listen(cfg.Addr))
}

func ensureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            "userId" UUID PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            password TEXT NOT NULL,
            name TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            "isAdmin" BOOLEAN NOT NULL DEFAULT FALSE,
            "createdAt" TEXT NOT NULL DEFAULT '',
            "updatedAt" TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS categories (
            "categoryId" UUID PRIMARY KEY,
            "categoryName" TEXT NOT NULL,
            "categoryImg" TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            "productId" UUID PRIMARY KEY,
            "productName" TEXT NOT NULL,
            "productDesc" TEXT NOT NULL DEFAULT '',
            "productPrice" NUMERIC(10,2) NOT NULL DEFAULT 0,
            "categoryName" TEXT NOT NULL DEFAULT '',
            "imageUrl" TEXT NOT NULL DEFAULT '',
            "createdAt" TEXT NOT NULL DEFAULT '',
            "updatedAt" TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS coupons (
            "couponId" UUID PRIMARY KEY,
            "couponCode" TEXT UNIQUE NOT NULL,
            "discountAmount" NUMERIC(10,2) NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS cart_headers (
            "cartHeaderId" UUID PRIMARY KEY,
            "userId" UUID NOT NULL,
            "couponCode" TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS cart_details (
            "cartDetailsId" UUID PRIMARY KEY,
            "cartHeaderId" UUID NOT NULL REFERENCES cart_headers("cartHeaderId") ON DELETE CASCADE,
            "productId" UUID NOT NULL,
            count INT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS order_headers (
            "orderHeaderId" UUID PRIMARY KEY,
            "userId" UUID NOT NULL,
            "couponCode" TEXT NOT NULL DEFAULT '',
            discount NUMERIC(10,2) NOT NULL DEFAULT 0,
            "orderTotal" NUMERIC(10,2) NOT NULL DEFAULT 0,
            name TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            "orderTime" TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'Pending',
            "paymentIntentId" TEXT NOT NULL DEFAULT '',
            "sessionId" TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS order_details (
            "orderDetailsId" UUID PRIMARY KEY,
            "orderHeaderId" UUID NOT NULL REFERENCES order_headers("orderHeaderId") ON DELETE CASCADE,
            "productId" UUID NOT NULL,
            price NUMERIC(10,2) NOT NULL DEFAULT 0,
            count INT NOT NULL DEFAULT 0
        )`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
