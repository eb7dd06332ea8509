package reconcile

import (
	"context"
	"encoding/json"
	"time"

	"flathunt-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultGrace is how long a listing may stay unseen before it is pruned as
// delisted.
const DefaultGrace = time.Hour

// Service merges crawl batches into the persistent store. It is the only
// component that writes the listings table; one batch runs in one
// transaction so a crash cannot leave partial timestamp updates.
type Service struct {
	DB    *gorm.DB
	Grace time.Duration
}

// Changed pairs an updated listing with its field-level diff.
type Changed struct {
	Listing domain.Listing       `json:"listing"`
	Diff    []domain.FieldChange `json:"diff"`
}

// Report summarizes one reconciliation pass. Inserted and Updated carry the
// listings that are genuinely new-or-changed in this pass, for notification.
type Report struct {
	Inserted  []domain.Listing `json:"inserted"`
	Updated   []Changed        `json:"updated"`
	Unchanged int              `json:"unchanged"`
	Pruned    []string         `json:"pruned"`
	Skipped   int              `json:"skipped"`
}

func (s *Service) grace() time.Duration {
	if s.Grace > 0 {
		return s.Grace
	}
	return DefaultGrace
}

// Reconcile merges the batch observed at crawlTime into the store:
//
//   - unknown id: insert with created = updated = last_seen = crawlTime
//   - identical content: bump last_seen only
//   - changed content with stored.updated < crawlTime: overwrite descriptive
//     fields, updated = last_seen = crawlTime, created kept
//   - changed content but stored.updated >= crawlTime (a later crawl already
//     landed): bump last_seen only, never clobber newer data with stale
//
// Afterwards every listing whose last_seen is older than crawlTime minus the
// grace window is pruned. A listing without an id is skipped and logged; any
// storage error rolls the whole batch back.
func (s *Service) Reconcile(ctx context.Context, batch []domain.Listing, crawlTime time.Time) (*Report, error) {
	report := &Report{}

	tx := s.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	for i := range batch {
		incoming := batch[i]
		if incoming.ID == "" {
			report.Skipped++
			log.Warn().Msg("Skipping listing with no id")
			continue
		}

		var stored domain.Listing
		err := tx.First(&stored, "id = ?", incoming.ID).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			incoming.Created = crawlTime
			incoming.Updated = crawlTime
			incoming.LastSeen = crawlTime
			if err := tx.Create(&incoming).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
			if err := s.writeEvent(tx, incoming.ID, domain.EventCreated, nil, crawlTime); err != nil {
				tx.Rollback()
				return nil, err
			}
			report.Inserted = append(report.Inserted, incoming)

		case err != nil:
			tx.Rollback()
			return nil, err

		case stored.DescriptiveEquals(&incoming):
			if err := s.markSeen(tx, &stored, crawlTime); err != nil {
				tx.Rollback()
				return nil, err
			}
			report.Unchanged++

		case stored.Updated.Before(crawlTime):
			diff := stored.Diff(&incoming)
			stored.CopyDescriptiveFrom(&incoming)
			stored.Updated = crawlTime
			stored.LastSeen = crawlTime
			if err := tx.Save(&stored).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
			if err := s.writeEvent(tx, stored.ID, domain.EventUpdated, diff, crawlTime); err != nil {
				tx.Rollback()
				return nil, err
			}
			report.Updated = append(report.Updated, Changed{Listing: stored, Diff: diff})

		default:
			// Already updated by a concurrent or later crawl; only record
			// that the listing was seen.
			if err := s.markSeen(tx, &stored, crawlTime); err != nil {
				tx.Rollback()
				return nil, err
			}
			report.Unchanged++
		}
	}

	pruned, err := s.prune(tx, crawlTime)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	report.Pruned = pruned

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	log.Info().
		Time("crawl_time", crawlTime).
		Int("inserted", len(report.Inserted)).
		Int("updated", len(report.Updated)).
		Int("unchanged", report.Unchanged).
		Int("pruned", len(report.Pruned)).
		Int("skipped", report.Skipped).
		Msg("Reconciliation pass finished")

	return report, nil
}

// markSeen bumps last_seen, but never backwards: a stale batch must not
// break updated <= last_seen.
func (s *Service) markSeen(tx *gorm.DB, stored *domain.Listing, crawlTime time.Time) error {
	if !crawlTime.After(stored.LastSeen) {
		return nil
	}
	return tx.Model(&domain.Listing{}).Where("id = ?", stored.ID).
		Update("last_seen", crawlTime).Error
}

// prune deletes listings that disappeared from the source: unseen for longer
// than the grace window as of crawlTime.
func (s *Service) prune(tx *gorm.DB, crawlTime time.Time) ([]string, error) {
	cutoff := crawlTime.Add(-s.grace())

	var stale []domain.Listing
	if err := tx.Select("id").Where("last_seen < ?", cutoff).Find(&stale).Error; err != nil {
		return nil, err
	}
	if len(stale) == 0 {
		return nil, nil
	}

	ids := make([]string, len(stale))
	for i, l := range stale {
		ids[i] = l.ID
	}
	if err := tx.Where("id IN ?", ids).Delete(&domain.Listing{}).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := s.writeEvent(tx, id, domain.EventPruned, nil, crawlTime); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (s *Service) writeEvent(tx *gorm.DB, listingID, eventType string, diff []domain.FieldChange, crawlTime time.Time) error {
	var data datatypes.JSON
	if len(diff) > 0 {
		b, err := json.Marshal(diff)
		if err != nil {
			return err
		}
		data = datatypes.JSON(b)
	}
	return tx.Create(&domain.ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		EventData: data,
		CrawlTime: crawlTime,
	}).Error
}

// Events returns the audit records for one listing, oldest first.
func (s *Service) Events(ctx context.Context, listingID string) ([]domain.ListingEvent, error) {
	var events []domain.ListingEvent
	err := s.DB.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("crawl_time ASC, created_at ASC").
		Find(&events).Error
	return events, err
}
