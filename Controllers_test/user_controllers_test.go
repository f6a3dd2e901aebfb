package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"foodtruck-ops/controllers"
	"foodtruck-ops/middlewares"
	"foodtruck-ops/models"
	"foodtruck-ops/utils"
)

func setupUserTestDB(t *testing.T) (*gorm.DB, *models.User, *models.User) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "hashed",
		Role:     models.RoleAdmin,
		Active:   true,
	}
	customer := &models.User{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "hashed",
		Role:     models.RoleCustomer,
		Active:   true,
	}
	db.Create(admin)
	db.Create(customer)
	return db, admin, customer
}

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	userCtrl := controllers.NewUserController(db)
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	auth.POST("/users", userCtrl.CreateUser)
	auth.GET("/users", userCtrl.GetAllUsers)
	auth.GET("/users/:user_id", userCtrl.GetUserByID)
	auth.PUT("/users/:user_id", userCtrl.UpdateUser)
	auth.DELETE("/users/:user_id", userCtrl.DeleteUser)

	return r
}

func tokenFor(t *testing.T, user *models.User) string {
	token, err := utils.GenerateToken(user.ID, string(user.Role))
	assert.NoError(t, err)
	return token
}

func TestAdminCreatesUsers(t *testing.T) {
	db, admin, _ := setupUserTestDB(t)
	r := setupUserRouter(db)
	adminToken := tokenFor(t, admin)

	w := doJSON(t, r, "POST", "/users", adminToken, map[string]string{
		"username": "stan",
		"email":    "stan@example.com",
		"password": "password123",
		"role":     "staff",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Duplicate email rejected as validation failure
	w = doJSON(t, r, "POST", "/users", adminToken, map[string]string{
		"username": "stan2",
		"email":    "stan@example.com",
		"password": "password123",
		"role":     "staff",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown role rejected
	w = doJSON(t, r, "POST", "/users", adminToken, map[string]string{
		"username": "mallory",
		"email":    "mallory@example.com",
		"password": "password123",
		"role":     "superadmin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNonAdminCannotManageUsers(t *testing.T) {
	db, _, customer := setupUserTestDB(t)
	r := setupUserRouter(db)
	customerToken := tokenFor(t, customer)

	w := doJSON(t, r, "POST", "/users", customerToken, map[string]string{
		"username": "eve",
		"email":    "eve@example.com",
		"password": "password123",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, "GET", "/users", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, "DELETE", "/users/1", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminUpdatesRoleAndActive(t *testing.T) {
	db, admin, customer := setupUserTestDB(t)
	r := setupUserRouter(db)
	adminToken := tokenFor(t, admin)

	w := doJSON(t, r, "PUT", "/users/2", adminToken, map[string]interface{}{
		"role":   "staff",
		"active": false,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	assert.NoError(t, db.First(&updated, customer.ID).Error)
	assert.Equal(t, models.RoleStaff, updated.Role)
	assert.False(t, updated.Active)
}

func TestAdminListsUsersWithPagination(t *testing.T) {
	db, admin, _ := setupUserTestDB(t)
	r := setupUserRouter(db)
	adminToken := tokenFor(t, admin)

	w := doJSON(t, r, "GET", "/users?offset=0&limit=1", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	users := data["users"].([]interface{})
	assert.Len(t, users, 1)

	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["total_count"])
	assert.Equal(t, float64(2), pagination["total_pages"])
}

func TestDeleteUserGuards(t *testing.T) {
	db, admin, customer := setupUserTestDB(t)
	r := setupUserRouter(db)
	adminToken := tokenFor(t, admin)

	// Admin cannot delete their own account
	w := doJSON(t, r, "DELETE", "/users/1", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "DELETE", "/users/2", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.User{}).Where("id = ?", customer.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// Gone now
	w = doJSON(t, r, "DELETE", "/users/2", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
