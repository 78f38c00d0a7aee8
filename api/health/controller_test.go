package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rehoming/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newEngine(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{App: config.AppConfig{Version: "1.2.3", Env: "development"}}
	engine := gin.New()
	NewController(cfg, db).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth_WithoutDatabase(t *testing.T) {
	engine := newEngine(t, nil)

	rec := get(engine, "/api/v1/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.NotNil(t, resp.System)
	assert.Empty(t, resp.Checks)

	assert.Equal(t, http.StatusOK, get(engine, "/api/v1/health/live").Code)
	assert.Equal(t, http.StatusOK, get(engine, "/api/v1/health/ready").Code)
}

func TestHealth_DatabaseUpAndDown(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:health?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	engine := newEngine(t, db)

	rec := get(engine, "/api/v1/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Checks["database"].Status)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.Equal(t, http.StatusServiceUnavailable, get(engine, "/api/v1/health").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(engine, "/api/v1/health/ready").Code)
}
