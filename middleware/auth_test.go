package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goshala/goshala/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func authTestRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthRequired(), func(ctx *gin.Context) {
		userID, _ := ctx.Get(ContextUserIDKey)
		role, _ := ctx.Get(ContextUserRoleKey)
		ctx.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	return r
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	authTestRouter().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredBadScheme(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	authTestRouter().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	authTestRouter().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredInjectsIdentity(t *testing.T) {
	token, err := utils.GenerateToken(42, "Asha", "admin", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authTestRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"user_id":42`) || !strings.Contains(body, `"role":"admin"`) {
		t.Errorf("identity not injected: %s", body)
	}
}
