package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nutritrack/backend/config"
	"github.com/nutritrack/backend/internal/models"
)

// newTestRouter spins up the full API surface against an in-memory
// database, with no external collaborators wired.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.NutritionProfile{},
		&models.Recipe{},
		&models.MealPlan{},
		&models.Challenge{},
		&models.MealLog{},
		&models.ChatMessage{},
	))

	router := gin.New()
	SetupAPI(router, db, &config.Config{JWTSecret: "test-secret"}, Deps{})
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

// loginAs issues a token for a fresh account.
func loginAs(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func testProfilePayload() gin.H {
	return gin.H{
		"age":            30,
		"gender":         "male",
		"height_cm":      180,
		"weight_kg":      80,
		"activity_level": "moderate",
		"goal":           "maintain_weight",
	}
}
