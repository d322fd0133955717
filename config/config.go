package config

import (
	"log"
	"os"

	"cafe-pos-api/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "cafe_pos_super_secret_2024"))

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadEnv reads an optional .env file before anything else consults the
// environment. Missing file is fine.
func LoadEnv() {
	if err := godotenv.Load(); err == nil {
		JWTSecret = []byte(getEnv("JWT_SECRET", "cafe_pos_super_secret_2024"))
	}
}

func InitDB() {
	InitDBAt(getEnv("DB_PATH", "cafe_pos.db"))
}

// InitDBAt opens and migrates the database at the given sqlite path.
// Tests pass a throwaway file under t.TempDir().
func InitDBAt(path string) {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate all models
	err = DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderStatusHistory{},
		&models.Counter{},
		&models.Table{},
		&models.StockItem{},
		&models.Supplier{},
		&models.PurchaseOrder{},
		&models.Shift{},
		&models.TaxDeduction{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	seedCounters()

	log.Println("Database connected and migrated successfully")
}

// seedCounters creates the order-number counter so the first allocation
// hands out models.FirstOrderNo.
func seedCounters() {
	var counter models.Counter
	if err := DB.First(&counter, "name = ?", "order_no").Error; err != nil {
		DB.Create(&models.Counter{Name: "order_no", Value: models.FirstOrderNo - 1})
	}
}

// RabbitMQURL returns the event broker address, empty when events are off
func RabbitMQURL() string {
	return os.Getenv("RABBITMQ_URL")
}
