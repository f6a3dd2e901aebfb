package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"foodtruck-ops/controllers"
	"foodtruck-ops/middlewares"
	"foodtruck-ops/models"
	"foodtruck-ops/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupAuthRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	authCtrl := controllers.NewAuthController(db)
	userCtrl := controllers.NewUserController(db)
	r.POST("/setup", authCtrl.Setup)
	r.POST("/login", authCtrl.Login)

	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	auth.POST("/logout", authCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupBootstrapRunsOnce(t *testing.T) {
	db := setupAuthTestDB(t)
	r := setupAuthRouter(db)

	payload := map[string]string{
		"username": "admin",
		"email":    "admin@example.com",
		"password": "password123",
	}
	w := doJSON(t, r, "POST", "/setup", "", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	var admin models.User
	assert.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NotEqual(t, "password123", admin.Password)

	// Second call must be refused once any user exists.
	w = doJSON(t, r, "POST", "/setup", "", payload)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoginAndProfile(t *testing.T) {
	db := setupAuthTestDB(t)
	r := setupAuthRouter(db)

	w := doJSON(t, r, "POST", "/setup", "", map[string]string{
		"username": "admin",
		"email":    "admin@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Wrong password
	w = doJSON(t, r, "POST", "/login", "", map[string]string{
		"username": "admin",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Login by username
	w = doJSON(t, r, "POST", "/login", "", map[string]string{
		"username": "admin",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	token := data["token"].(string)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin", data["user_role"])

	// Login by email works too
	w = doJSON(t, r, "POST", "/login", "", map[string]string{
		"username": "admin@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Profile via token
	w = doJSON(t, r, "GET", "/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	profile := resp["data"].(map[string]interface{})
	assert.Equal(t, "admin", profile["username"])
	// The password hash never appears in any payload.
	_, leaked := profile["password"]
	assert.False(t, leaked)
}

func TestInactiveUserCannotLogin(t *testing.T) {
	db := setupAuthTestDB(t)
	r := setupAuthRouter(db)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	db.Create(&models.User{
		Username: "ghost",
		Email:    "ghost@example.com",
		Password: string(hashed),
		Role:     models.RoleStaff,
		Active:   false,
	})

	w := doJSON(t, r, "POST", "/login", "", map[string]string{
		"username": "ghost",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := setupAuthTestDB(t)
	r := setupAuthRouter(db)

	doJSON(t, r, "POST", "/setup", "", map[string]string{
		"username": "admin",
		"email":    "admin@example.com",
		"password": "password123",
	})
	w := doJSON(t, r, "POST", "/login", "", map[string]string{
		"username": "admin",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	token := resp["data"].(map[string]interface{})["token"].(string)

	w = doJSON(t, r, "GET", "/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "POST", "/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", "/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// Logging out one session must not revoke another token held by the
// same user, even when both were issued within the same second.
func TestLogoutRevokesOnlyPresentedToken(t *testing.T) {
	db := setupAuthTestDB(t)
	r := setupAuthRouter(db)

	var admin models.User
	doJSON(t, r, "POST", "/setup", "", map[string]string{
		"username": "admin",
		"email":    "admin@example.com",
		"password": "password123",
	})
	assert.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)

	first := tokenFor(t, &admin)
	second := tokenFor(t, &admin)
	assert.NotEqual(t, first, second)

	w := doJSON(t, r, "POST", "/logout", first, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", "/profile", first, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, "GET", "/profile", second, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestWithoutTokenRejected(t *testing.T) {
	db := setupAuthTestDB(t)
	r := setupAuthRouter(db)

	w := doJSON(t, r, "GET", "/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, "GET", "/profile", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
