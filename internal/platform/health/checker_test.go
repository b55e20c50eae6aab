package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "health.db")), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestPerformCheck_DatabaseUp(t *testing.T) {
	c := NewChecker(openTestDB(t), nil)

	snap := c.PerformCheck(context.Background())
	assert.Equal(t, StateHealthy, snap.Database)
	assert.Equal(t, StateDisabled, snap.Redis)
	assert.True(t, snap.Healthy())
	assert.Equal(t, snap, c.Current())
}

func TestPerformCheck_DatabaseClosed(t *testing.T) {
	db := openTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	snap := NewChecker(db, nil).PerformCheck(context.Background())
	assert.Equal(t, StateDown, snap.Database)
	assert.False(t, snap.Healthy())
}

func TestHandle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", NewChecker(openTestDB(t), nil).Handle)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["database"])
	assert.Equal(t, "disabled", body["redis"])
}
