package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/forgebyte/storefront/internal/config"
	"github.com/forgebyte/storefront/internal/handlers"
	"github.com/forgebyte/storefront/internal/httpserver"
	"github.com/forgebyte/storefront/internal/logging"
	loggingmw "github.com/forgebyte/storefront/internal/middleware/logging"
	"github.com/forgebyte/storefront/internal/mykafka"
	"github.com/forgebyte/storefront/internal/payment"
	"github.com/forgebyte/storefront/internal/service"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer(strings.Split(configuration.KAFKA_ADDRESS, ","))
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	gateway := payment.NewClient(configuration.PAYMENT_API_URL, configuration.PAYMENT_SECRET_KEY)
	validate := validator.New()

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:        db,
		JWTSecret: jwtSecret,
		UserHandler: &handlers.UserHandler{
			DB:        db,
			JWTSecret: jwtSecret,
			Producer:  producer,
		},
		OrderHandler: &handlers.OrderHandler{
			Svc:      &service.OrderService{DB: db},
			Producer: producer,
			Validate: validate,
		},
		PaymentHandler: &handlers.PaymentHandler{
			Gateway:  gateway,
			Currency: "usd",
			Validate: validate,
		},
		ProductHandler: &handlers.ProductHandler{DB: db, Producer: producer},
		ReviewHandler:  &handlers.ReviewHandler{DB: db},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDRESS,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
