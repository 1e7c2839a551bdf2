package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/forgebyte/storefront/internal/models"
)

type Config struct {
	DB_HOST            string
	DB_PORT            string
	DB_USER            string
	DB_PASSWORD        string
	DB_NAME            string
	HTTP_ADDRESS       string
	LOG_LEVEL          string
	JWT_SECRET         string
	KAFKA_ADDRESS      string
	PAYMENT_API_URL    string
	PAYMENT_SECRET_KEY string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:            os.Getenv("DB_HOST"),
		DB_PORT:            os.Getenv("DB_PORT"),
		DB_USER:            os.Getenv("DB_USER"),
		DB_PASSWORD:        os.Getenv("DB_PASSWORD"),
		DB_NAME:            os.Getenv("DB_NAME"),
		HTTP_ADDRESS:       os.Getenv("HTTP_ADDRESS"),
		LOG_LEVEL:          os.Getenv("LOG_LEVEL"),
		JWT_SECRET:         os.Getenv("JWT_SECRET"),
		KAFKA_ADDRESS:      os.Getenv("KAFKA_ADDRESS"),
		PAYMENT_API_URL:    os.Getenv("PAYMENT_API_URL"),
		PAYMENT_SECRET_KEY: os.Getenv("PAYMENT_SECRET_KEY"),
	}

	if config.HTTP_ADDRESS == "" {
		config.HTTP_ADDRESS = ":8080"
	}
	if config.JWT_SECRET == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return config, nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to db: %w", err)
	}
	if err := db.AutoMigrate(
		&models.Account{},
		&models.Product{},
		&models.Review{},
		&models.Order{},
		&models.Payment{},
	); err != nil {
		return nil, fmt.Errorf("cannot run migrations: %w", err)
	}
	return db, nil
}
