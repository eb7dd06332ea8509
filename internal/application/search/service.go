package search

import (
	"context"

	"flathunt-backend/internal/domain"

	"gorm.io/gorm"
)

// Service answers preference queries against the stored listings table.
// Pure read path: filtering and scoring never touch the store.
type Service struct {
	DB    *gorm.DB
	Cache *Cache
}

// Search validates the preferences, then filters and scores the stored
// table, returning rows sorted by descending score. Results are served from
// cache when an identical specification was queried since the last
// reconciliation.
func (s *Service) Search(ctx context.Context, prefs *domain.Preferences) ([]ScoredListing, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	if cached, ok := s.Cache.Get(ctx, prefs); ok {
		return cached, nil
	}

	var rows []domain.Listing
	if err := s.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	result := Score(Filter(rows, prefs), prefs)
	s.Cache.Set(ctx, prefs, result)
	return result, nil
}

// Get returns a single stored listing by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	if err := s.DB.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}
