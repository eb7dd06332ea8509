package search

import (
	"flathunt-backend/internal/domain"
)

// Filter reduces the table to listings matching every constrained field of
// the preferences; unset fields impose no constraint. The input slice is
// never mutated, only rows are dropped.
func Filter(rows []domain.Listing, prefs *domain.Preferences) []domain.Listing {
	out := make([]domain.Listing, 0, len(rows))
	for i := range rows {
		if prefs.Match(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}
