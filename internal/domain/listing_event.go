package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventPruned  = "pruned"
)

// ListingEvent is one audit record written by the reconciliation engine:
// a listing appeared, changed (EventData carries the field diff), or was
// pruned after going unseen past the grace window. The event stream is the
// notification feed consumed by presentation collaborators.
type ListingEvent struct {
	EventID   uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	ListingID string         `gorm:"column:listing_id;not null;index" json:"listing_id"`
	EventType string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData datatypes.JSON `gorm:"column:event_data" json:"event_data"`
	CrawlTime time.Time      `gorm:"column:crawl_time;not null" json:"crawl_time"`
	CreatedAt time.Time      `json:"created_at"`
}

func (ListingEvent) TableName() string {
	return "listing_events"
}

func (e *ListingEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
