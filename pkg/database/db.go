package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avops/roomops-api-go/pkg/models"
)

// Room represents the rooms table. Only canonical names are stored; merged
// display names are decomposed before they ever reach here.
type Room struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}

// Shift represents the shifts table, one row per (staff, date).
type Shift struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StaffID   string    `gorm:"uniqueIndex:idx_staff_date;not null" json:"staff_id"`
	Date      string    `gorm:"uniqueIndex:idx_staff_date;not null" json:"date"`
	StartTime string    `gorm:"not null" json:"start_time"`
	EndTime   string    `gorm:"not null" json:"end_time"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssignmentList is the assignments column of a shift block, stored as a
// JSON string. Scan validates on the way in: malformed JSON, empty staff
// ids, or a room claimed by two assignments all reject the row rather than
// being coerced into something readable.
type AssignmentList []models.Assignment

var ErrMalformedRow = errors.New("malformed row in store")

func (a AssignmentList) Value() (driver.Value, error) {
	b, err := json.Marshal([]models.Assignment(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *AssignmentList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%w: assignments column is %T", ErrMalformedRow, value)
	}
	var parsed []models.Assignment
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	claimed := make(map[string]bool)
	for _, asgn := range parsed {
		if asgn.StaffID == "" {
			return fmt.Errorf("%w: assignment with empty staff id", ErrMalformedRow)
		}
		for _, r := range asgn.Rooms {
			if claimed[r] {
				return fmt.Errorf("%w: room %s assigned twice in one block", ErrMalformedRow, r)
			}
			claimed[r] = true
		}
	}
	*a = parsed
	return nil
}

// ShiftBlock represents the shift_blocks table. Rows are only ever written
// as a full replacement of one date's list; ids are minted fresh each time.
// CreatedAt is part of the default read ordering so duplicate-range rows
// resolve to the later insert.
type ShiftBlock struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Date        string         `gorm:"index;not null" json:"date"`
	StartTime   string         `gorm:"not null" json:"start_time"`
	EndTime     string         `gorm:"not null" json:"end_time"`
	Assignments AssignmentList `gorm:"type:text" json:"assignments"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Event represents the events table. ManOwner is the manual ownership
// override; nil means ownership is derived from shift blocks.
type Event struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	Title     string  `json:"title"`
	RoomName  string  `gorm:"index;not null" json:"room_name"`
	Date      string  `gorm:"index;not null" json:"date"`
	StartTime string  `gorm:"not null" json:"start_time"`
	EndTime   string  `gorm:"not null" json:"end_time"`
	ManOwner  *string `json:"man_owner"`
}

// APIKey represents the api_keys table, authenticating machine callers such
// as the push-notification gateway.
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table, one row per key per day.
type APIUsage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	KeyID        uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date         string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount int    `gorm:"default:0" json:"request_count"`
	TotalBlocks  int    `gorm:"default:0" json:"total_blocks"`
	TotalEvents  int    `gorm:"default:0" json:"total_events"`
}

// MasterUser represents the master_users table (dashboard operators).
// StaffID ties the login to the identifier used in shift and assignment
// rows; it defaults to the username when not set.
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	StaffID      string    `json:"staff_id"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitDB initializes the database connection and migrates the schema.
// DATABASE_URL selects Postgres; otherwise a SQLite file at DATA_PATH is
// used, which keeps local development dependency-free.
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "roomops.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	db.AutoMigrate(&Room{}, &Shift{}, &ShiftBlock{}, &Event{}, &APIKey{}, &APIUsage{}, &MasterUser{})

	return db
}
