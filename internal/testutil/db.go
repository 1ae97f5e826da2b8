// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB returns a migrated, private in-memory SQLite database that is closed
// when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		DSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// Password is the plaintext password of every user created by CreateUser.
const Password = "password123"

// CreateUser inserts a user with the given role and Password.
func CreateUser(t testing.TB, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{Name: "User " + email, Email: models.NormalizeEmail(email), Password: string(hash), Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

// CreateProduct inserts a product priced at price.
func CreateProduct(t testing.TB, db *gorm.DB, name string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: models.MoneyFromFloat(price), Stock: 10}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return p
}

// CreateOrder inserts an order with a single item of quantity 1 and the given total.
func CreateOrder(t testing.TB, db *gorm.DB, userID, productID uint, status models.OrderStatus, total float64) *models.Order {
	t.Helper()
	o := &models.Order{
		UserID:      userID,
		Status:      status,
		TotalAmount: models.MoneyFromFloat(total),
		Items: []models.OrderItem{
			{ProductID: productID, Quantity: 1, Price: models.MoneyFromFloat(total)},
		},
	}
	if err := db.Create(o).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}
