package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"opsdesk-backend/config"
	"opsdesk-backend/models"
	"opsdesk-backend/routes"
)

// setupRouter wires the real router against a fresh in-memory SQLite
// database so handler behavior is exercised end to end.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// A single :memory: connection is the whole database.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Customer{},
		&models.Project{},
		&models.ProjectCustomer{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Product{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	config.DB = db
	return routes.SetupRouter()
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// registerUser creates an account (role Ops) and returns its token.
func registerUser(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email":    email,
		"name":     "Test User",
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", email, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decodeJSON(t, w, &resp)
	if resp.Token == "" {
		t.Fatal("register returned empty token")
	}
	return resp.Token
}

// registerAdmin registers a user and promotes its profile out of band, the
// way cmd/promote-user does.
func registerAdmin(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	token := registerUser(t, r, email)
	err := config.DB.Model(&models.Profile{}).
		Where(`"email" = ?`, email).
		Update("role", models.RoleAdmin).Error
	if err != nil {
		t.Fatalf("promote %s: %v", email, err)
	}
	return token
}
