package handlers

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avops/roomops-api-go/pkg/database"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "usage.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.APIKey{}, &database.APIUsage{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return &Handler{DB: db, Store: database.NewStore(db)}
}

func usageContext(t *testing.T, key *database.APIKey) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("apiKey", key)
	return c
}

func TestRecordUsage_AccumulatesPerKeyPerDay(t *testing.T) {
	h := testHandler(t)
	key := &database.APIKey{Key: "hmac-abc", Name: "gateway", KeyPreview: "hmac-abc"}
	if err := h.DB.Create(key).Error; err != nil {
		t.Fatalf("creating key: %v", err)
	}

	c := usageContext(t, key)
	h.RecordUsage(c, 3, 1)
	h.RecordUsage(c, 2, 0)

	var usage database.APIUsage
	today := time.Now().Format("2006-01-02")
	if err := h.DB.Where("key_id = ? AND date = ?", key.ID, today).First(&usage).Error; err != nil {
		t.Fatalf("no usage row written: %v", err)
	}
	if usage.RequestCount != 2 {
		t.Errorf("expected 2 requests recorded, got %d", usage.RequestCount)
	}
	if usage.TotalBlocks != 5 {
		t.Errorf("expected 5 blocks recorded, got %d", usage.TotalBlocks)
	}
	if usage.TotalEvents != 1 {
		t.Errorf("expected 1 event recorded, got %d", usage.TotalEvents)
	}
}

func TestRecordUsage_SkipsOperatorRequests(t *testing.T) {
	h := testHandler(t)

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	h.RecordUsage(c, 4, 2)

	var count int64
	h.DB.Model(&database.APIUsage{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no usage rows without an api key, got %d", count)
	}
}
