package search

import (
	"testing"

	"flathunt-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func row(id string, area, price float64) domain.Listing {
	return domain.Listing{
		ID:          id,
		Area:        fp(area),
		Price:       fp(price),
		Disposition: domain.TwoPlusKK,
	}
}

func defaultPrefs() *domain.Preferences {
	return &domain.Preferences{Weights: domain.DefaultWeights()}
}

func TestScore_EmptyTableShortCircuits(t *testing.T) {
	result := Score(nil, defaultPrefs())
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestScore_NormalizedValuesBounded(t *testing.T) {
	rows := []domain.Listing{
		row("a", 30, 12000),
		row("b", 55, 18000),
		row("c", 90, 35000),
	}
	rows[1].Balcony = 1
	rows[2].Garden = 50

	for _, s := range Score(rows, defaultPrefs()) {
		for name, v := range s.Features {
			assert.GreaterOrEqual(t, v, 0.0, "feature %s", name)
			assert.LessOrEqual(t, v, 1.0, "feature %s", name)
		}
	}
}

func TestScore_PriceDirectionInverted(t *testing.T) {
	rows := []domain.Listing{
		row("cheap", 50, 10000),
		row("dear", 50, 20000),
	}
	scored := Score(rows, defaultPrefs())
	require.Len(t, scored, 2)

	byID := map[string]ScoredListing{}
	for _, s := range scored {
		byID[s.ID] = s
	}
	assert.Greater(t, byID["cheap"].Features["price"], byID["dear"].Features["price"])
	assert.Equal(t, 1.0, byID["cheap"].Features["price"])
	assert.Equal(t, 0.0, byID["dear"].Features["price"])
	assert.Equal(t, "cheap", scored[0].ID, "cheaper listing ranks first")
}

func TestScore_SingleRowDegenerateTable(t *testing.T) {
	scored := Score([]domain.Listing{row("only", 60, 15000)}, defaultPrefs())
	require.Len(t, scored, 1)
	for name, v := range scored[0].Features {
		assert.False(t, v < 0 || v > 1, "feature %s out of bounds: %v", name, v)
	}
}

func TestScore_POIDistance(t *testing.T) {
	prefs := defaultPrefs()
	prefs.PointsOfInterest = []domain.Point{{Lat: 50.0755, Lon: 14.4378}} // Prague center

	near := row("near", 50, 15000)
	near.GPSLat, near.GPSLon = fp(50.08), fp(14.44)
	far := row("far", 50, 15000)
	far.GPSLat, far.GPSLon = fp(49.1951), fp(16.6068) // Brno

	scored := Score([]domain.Listing{near, far}, prefs)
	byID := map[string]ScoredListing{}
	for _, s := range scored {
		byID[s.ID] = s
	}
	assert.Greater(t, byID["near"].Features["poi_distance"], byID["far"].Features["poi_distance"])
	assert.Greater(t, byID["far"].POIDistance, byID["near"].POIDistance)
	assert.Equal(t, "near", scored[0].ID)
}

func TestScore_MissingGPSGetsWorstDistance(t *testing.T) {
	prefs := defaultPrefs()
	prefs.PointsOfInterest = []domain.Point{{Lat: 50.0755, Lon: 14.4378}}

	located := row("located", 50, 15000)
	located.GPSLat, located.GPSLon = fp(50.08), fp(14.44)
	unlocated := row("unlocated", 50, 15000)

	scored := Score([]domain.Listing{located, unlocated}, prefs)
	byID := map[string]ScoredListing{}
	for _, s := range scored {
		byID[s.ID] = s
	}
	assert.Equal(t, 0.0, byID["unlocated"].Features["poi_distance"])
	assert.Greater(t, byID["located"].Features["poi_distance"], 0.0)
}

func TestScore_NoPOIMeansNoDistanceContribution(t *testing.T) {
	scored := Score([]domain.Listing{row("a", 40, 12000), row("b", 60, 16000)}, defaultPrefs())
	for _, s := range scored {
		assert.Equal(t, 0.0, s.POIDistance)
		assert.Equal(t, 0.0, s.Features["poi_distance"])
	}
}

func TestScore_OtherDispositionTreatedAsMissing(t *testing.T) {
	a := row("a", 50, 15000)
	a.Disposition = domain.OnePlusKK
	b := row("b", 50, 15000)
	b.Disposition = domain.SixAndLarger
	c := row("c", 50, 15000)
	c.Disposition = domain.DispoOther

	scored := Score([]domain.Listing{a, b, c}, defaultPrefs())
	byID := map[string]ScoredListing{}
	for _, s := range scored {
		byID[s.ID] = s
	}
	assert.Equal(t, 0.0, byID["a"].Features["disposition"], "smallest rank normalizes to 0")
	assert.Equal(t, 1.0, byID["b"].Features["disposition"])
	assert.Equal(t, 0.0, byID["c"].Features["disposition"], "other is excluded, scores worst")
}

func TestScore_ZeroWeightDisablesFeature(t *testing.T) {
	prefs := defaultPrefs()
	prefs.Weights.Price = 0

	rows := []domain.Listing{row("cheap", 50, 10000), row("dear", 50, 20000)}
	scored := Score(rows, prefs)
	require.Len(t, scored, 2)
	assert.Equal(t, scored[0].Score, scored[1].Score, "price must not contribute with weight 0")
}

func TestScore_WeightsScaleContribution(t *testing.T) {
	prefs := defaultPrefs()
	prefs.Weights.Area = 10

	rows := []domain.Listing{row("big", 100, 20000), row("small", 30, 10000)}
	scored := Score(rows, prefs)
	// Area weight 10 outweighs the price advantage of "small" (weight 1).
	assert.Equal(t, "big", scored[0].ID)
}

func TestScore_MinScoreCutoff(t *testing.T) {
	prefs := &domain.Preferences{
		Weights:  domain.Weights{Area: 1, Price: 1},
		MinScore: fp(50),
	}

	rows := []domain.Listing{
		row("good", 90, 10000), // best on both axes: score 2 of max 2
		row("poor", 30, 35000), // worst on both axes: score 0
	}
	scored := Score(rows, prefs)
	require.Len(t, scored, 1)
	assert.Equal(t, "good", scored[0].ID)
}

func TestScore_AlwaysFinite(t *testing.T) {
	rows := []domain.Listing{
		{ID: "bare"},
		row("full", 60, 15000),
	}
	for _, s := range Score(rows, defaultPrefs()) {
		assert.False(t, s.Score != s.Score, "score must never be NaN")
	}
}
