package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot persists one session's cart payload, the durable analog of a single
// browser-storage key.
type Slot struct {
	SessionID string    `gorm:"column:session_id;primaryKey"`
	Payload   string    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName maps the model onto the migrated cart_slots table.
func (Slot) TableName() string {
	return "cart_slots"
}

// SlotRepository exposes round-trip persistence for a session's cart.
type SlotRepository interface {
	Save(ctx context.Context, sessionID string, lines Lines) error
	Load(ctx context.Context, sessionID string) (Lines, error)
}

// Repository stores cart slots through GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a slot repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save serializes the lines into the session's slot, inserting or replacing it.
func (r *Repository) Save(ctx context.Context, sessionID string, lines Lines) error {
	if lines == nil {
		lines = Lines{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart payload: %w", err)
	}

	slot := Slot{SessionID: sessionID, Payload: string(payload)}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&slot).Error
}

// Load returns the stored lines for the session. A missing slot surfaces
// gorm.ErrRecordNotFound; a corrupt payload surfaces the decode error. The
// service fails open on both.
func (r *Repository) Load(ctx context.Context, sessionID string) (Lines, error) {
	var slot Slot
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&slot).Error; err != nil {
		return nil, err
	}

	var lines Lines
	if err := json.Unmarshal([]byte(slot.Payload), &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart payload: %w", err)
	}
	return lines, nil
}
