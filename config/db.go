package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hotel-reservation/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

const defaultAdminUsername = "admin@hotel.local"

// SeedDatabase fills an empty database with a hotel, a few rooms, the extras
// catalogue and a default admin. Tables that already have rows are skipped.
func SeedDatabase(db *gorm.DB) error {
	// ---------------- Admins ----------------
	var adminCount int64
	db.Model(&models.Admin{}).Count(&adminCount)
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.Admin{
				FullName: "Admin User",
				Username: defaultAdminUsername,
				Password: string(hash),
			}
			if err := db.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	// ---------------- Hotel ----------------
	var hotel models.Hotel
	var hotelCount int64
	db.Model(&models.Hotel{}).Count(&hotelCount)
	if hotelCount == 0 {
		hotel = models.Hotel{
			Name:            "Grand Hotel",
			Address:         "1 Harbour Street",
			Email:           "frontdesk@hotel.local",
			LateCheckoutFee: decimal.NewFromInt(20),
		}
		if err := db.Create(&hotel).Error; err != nil {
			return fmt.Errorf("seed hotel: %w", err)
		}
		log.Println("Hotel seeded")
	} else if err := db.First(&hotel).Error; err != nil {
		return fmt.Errorf("load hotel: %w", err)
	}

	// ---------------- Rooms ----------------
	var roomCount int64
	db.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		rooms := []models.Room{
			{RoomNumber: "101", RoomType: models.RoomTypeSingle, Beds: 1, CostPerNight: decimal.NewFromInt(80), Floor: "1"},
			{RoomNumber: "102", RoomType: models.RoomTypeDouble, Beds: 2, CostPerNight: decimal.NewFromInt(120), Floor: "1"},
			{RoomNumber: "103", RoomType: models.RoomTypeTwin, Beds: 2, CostPerNight: decimal.NewFromInt(110), Floor: "1"},
			{RoomNumber: "201", RoomType: models.RoomTypeBusiness, Beds: 2, CostPerNight: decimal.NewFromInt(200), Floor: "2"},
			{RoomNumber: "301", RoomType: models.RoomTypeLuxury, Beds: 4, CostPerNight: decimal.NewFromInt(350), Floor: "3"},
		}
		for i := range rooms {
			rooms[i].HotelID = &hotel.ID
		}
		if err := db.Create(&rooms).Error; err != nil {
			return fmt.Errorf("seed rooms: %w", err)
		}
		log.Println("Rooms seeded")
	}

	// ---------------- Extras ----------------
	var extraCount int64
	db.Model(&models.Extra{}).Count(&extraCount)
	if extraCount == 0 {
		extras := []models.Extra{
			{Description: "Wi-Fi", Price: decimal.NewFromInt(5), Type: models.ExtraTypeBasic, Category: models.ExtraCategoryGeneral},
			{Description: "Parking", Price: decimal.NewFromInt(10), Type: models.ExtraTypeBasic, Category: models.ExtraCategoryGeneral},
			{Description: "Gym access", Price: decimal.NewFromInt(8), Type: models.ExtraTypeBasic, Category: models.ExtraCategoryGeneral},
			{Description: "High speed Wi-Fi", Price: decimal.NewFromInt(8), Type: models.ExtraTypePremium, Category: models.ExtraCategoryGeneral},
			{Description: "Valet parking", Price: decimal.NewFromInt(20), Type: models.ExtraTypePremium, Category: models.ExtraCategoryGeneral},
			{Description: "Spa access", Price: decimal.NewFromInt(30), Type: models.ExtraTypePremium, Category: models.ExtraCategoryGeneral},
			{Description: "Breakfast", Price: decimal.NewFromInt(15), Type: models.ExtraTypeBasic, Category: models.ExtraCategoryFood},
			{Description: "Lunch", Price: decimal.NewFromInt(20), Type: models.ExtraTypeBasic, Category: models.ExtraCategoryFood},
			{Description: "Dinner", Price: decimal.NewFromInt(30), Type: models.ExtraTypeBasic, Category: models.ExtraCategoryFood},
			{Description: "Breakfast", Price: decimal.NewFromInt(25), Type: models.ExtraTypePremium, Category: models.ExtraCategoryFood},
			{Description: "Lunch", Price: decimal.NewFromInt(35), Type: models.ExtraTypePremium, Category: models.ExtraCategoryFood},
			{Description: "Dinner", Price: decimal.NewFromInt(50), Type: models.ExtraTypePremium, Category: models.ExtraCategoryFood},
		}
		if err := db.Create(&extras).Error; err != nil {
			return fmt.Errorf("seed extras: %w", err)
		}
		log.Println("Extras seeded")
	}

	return nil
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "hotel_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func resolvePostgresDSN() string {
	if raw := strings.TrimSpace(os.Getenv("DATABASE_URL")); raw != "" {
		return raw
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		envOrDefault("DB_HOST", "127.0.0.1"),
		envOrDefault("DB_USER", "postgres"),
		envOrDefault("DB_PASS", ""),
		envOrDefault("DB_NAME", "hotel_db"),
		envOrDefault("DB_PORT", "5432"),
		envOrDefault("DB_SSLMODE", "disable"),
	)
}

// Dialector picks the GORM driver for DB_DRIVER (mysql, postgres or sqlite).
func Dialector(driver string) (gorm.Dialector, error) {
	switch driver {
	case "", "mysql":
		dsn, err := resolveMySQLDSN()
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(resolvePostgresDSN()), nil
	case "sqlite":
		path := envOrDefault("SQLITE_PATH", filepath.Join("data", "hotel.db"))
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q, options: mysql, postgres, sqlite", driver)
	}
}

func logLevel(raw string) logger.LogLevel {
	switch strings.ToLower(raw) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Migrate creates or updates every table, parents before children.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.Hotel{},
		&models.Room{},
		&models.Guest{},
		&models.Extra{},
		&models.Reservation{},
		&models.MealPlan{},
		&models.Payment{},
	)
}

func ConnectDatabase(cfg AppConfig) error {
	dialector, err := Dialector(cfg.DBDriver)
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logLevel(cfg.DBLogLevel),
			Colorful:      true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		log.Printf("info: cannot get raw sql.DB: %v", err)
	}

	DB = db

	if err := Migrate(DB); err != nil {
		return err
	}

	if cfg.SeedData {
		return SeedDatabase(DB)
	}
	return nil
}
