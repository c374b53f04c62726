package main

import (
	"log"
	"os"

	"fundflow/internal/config"
	"fundflow/internal/models"
	"fundflow/internal/repositories"
	"fundflow/internal/services/transfer"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the admin user and the commission collector wallet. The collector
// wallet must exist before the first transfer crosses the commission
// threshold, so run this once after migrations.
func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("Failed to get SQL DB instance: %v", err)
			} else if err := sqlDB.Close(); err != nil {
				log.Printf("Failed to close PostgreSQL connection: %v", err)
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	var existingAdmin models.User
	if err := repositories.DB.Where("email = ?", adminEmail).First(&existingAdmin).Error; err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	adminUser := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Name:     "Administrator",
		Role:     "admin",
	}
	if err := repositories.DB.Create(&adminUser).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	collectorID := uint(config.GetIntEnv("COLLECTOR_WALLET_ID", int(transfer.DefaultCollectorWalletID)))
	collector := models.Wallet{
		ID:      collectorID,
		UserID:  adminUser.ID,
		Balance: decimal.Zero,
		Status:  models.WalletStatusActive,
	}
	if err := repositories.DB.Create(&collector).Error; err != nil {
		log.Fatal("Failed to create collector wallet:", err)
	}
	if err := repositories.DB.Model(&adminUser).Update("wallet_id", collector.ID).Error; err != nil {
		log.Fatal("Failed to link collector wallet:", err)
	}

	log.Printf("Admin account created with collector wallet %d", collector.ID)
}
