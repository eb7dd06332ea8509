package search

import (
	"math"
	"sort"

	"flathunt-backend/internal/domain"
)

// minmaxEpsilon substitutes a zero denominator when a column is degenerate
// (single row or all values equal).
const minmaxEpsilon = 1e-10

// ScoredListing is a Listing augmented with its per-feature normalized
// values in [0,1] and the aggregate score. Never persisted; recomputed on
// every query.
type ScoredListing struct {
	domain.Listing
	POIDistance float64            `json:"poi_distance"`
	Features    map[string]float64 `json:"features"`
	Score       float64            `json:"score"`
}

// feature is one scoring column: how to read its raw value from a row and
// whether lower raw values are better (cost columns invert on
// normalization).
type feature struct {
	name   string
	invert bool
	weight func(w *domain.Weights) float64
	value  func(l *domain.Listing) (float64, bool)
}

func boolFeature(name string, weight func(w *domain.Weights) float64, get func(l *domain.Listing) int) feature {
	return feature{
		name:   name,
		weight: weight,
		value: func(l *domain.Listing) (float64, bool) {
			return float64(get(l)), true
		},
	}
}

var features = []feature{
	{
		name:   "area",
		weight: func(w *domain.Weights) float64 { return w.Area },
		value: func(l *domain.Listing) (float64, bool) {
			if l.Area == nil {
				return 0, false
			}
			return *l.Area, true
		},
	},
	{
		name:   "price",
		invert: true, // cheaper is better
		weight: func(w *domain.Weights) float64 { return w.Price },
		value: func(l *domain.Listing) (float64, bool) {
			if l.Price == nil {
				return 0, false
			}
			return *l.Price, true
		},
	},
	{
		name:   "disposition",
		weight: func(w *domain.Weights) float64 { return w.Disposition },
		value: func(l *domain.Listing) (float64, bool) {
			return l.Disposition.Rank()
		},
	},
	{
		name:   "garden",
		weight: func(w *domain.Weights) float64 { return w.Garden },
		value: func(l *domain.Listing) (float64, bool) {
			return l.Garden, true
		},
	},
	boolFeature("balcony", func(w *domain.Weights) float64 { return w.Balcony }, func(l *domain.Listing) int { return l.Balcony }),
	boolFeature("cellar", func(w *domain.Weights) float64 { return w.Cellar }, func(l *domain.Listing) int { return l.Cellar }),
	boolFeature("loggie", func(w *domain.Weights) float64 { return w.Loggie }, func(l *domain.Listing) int { return l.Loggie }),
	boolFeature("elevator", func(w *domain.Weights) float64 { return w.Elevator }, func(l *domain.Listing) int { return l.Elevator }),
	boolFeature("terrace", func(w *domain.Weights) float64 { return w.Terrace }, func(l *domain.Listing) int { return l.Terrace }),
	boolFeature("garage", func(w *domain.Weights) float64 { return w.Garage }, func(l *domain.Listing) int { return l.Garage }),
	boolFeature("parking", func(w *domain.Weights) float64 { return w.Parking }, func(l *domain.Listing) int { return l.Parking }),
}

// Score turns an already-filtered table into ranked ScoredListings.
//
// Each column is min-max normalized over the table at hand, cost columns
// (price, poi_distance) inverted so that higher normalized is always better,
// and the weighted sum of the normalized columns becomes the score. The sum
// is deliberately left unnormalized: Score is an ordinal ranking signal, not
// a probability. MinScore cuts at the given percentage of the maximum
// achievable weighted sum.
//
// A listing missing a feature (no price, disposition "other", no GPS when
// POIs are set) is excluded from that column's min/max and gets the least
// favorable normalized value 0.
func Score(rows []domain.Listing, prefs *domain.Preferences) []ScoredListing {
	scored := make([]ScoredListing, 0, len(rows))
	if len(rows) == 0 {
		return scored
	}

	for i := range rows {
		scored = append(scored, ScoredListing{
			Listing:  rows[i],
			Features: make(map[string]float64, len(features)+1),
		})
	}

	// POI distance column. Without POIs the distance is fixed to 0 for
	// every row: present everywhere, degenerate, normalizes to 0
	// contribution.
	distances := make([]float64, len(rows))
	present := make([]bool, len(rows))
	if len(prefs.PointsOfInterest) > 0 {
		anchor := Centroid(prefs.PointsOfInterest)
		for i := range rows {
			if rows[i].GPSLat == nil || rows[i].GPSLon == nil {
				continue
			}
			distances[i] = Distance(anchor, domain.Point{Lat: *rows[i].GPSLat, Lon: *rows[i].GPSLon})
			present[i] = true
		}
	} else {
		for i := range present {
			present[i] = true
		}
	}
	for i := range scored {
		if present[i] {
			scored[i].POIDistance = distances[i]
		}
	}

	totalWeight := 0.0
	applyColumn := func(name string, invert bool, weight float64, values []float64, ok []bool) {
		totalWeight += weight
		lo, hi := columnRange(values, ok)
		denom := hi - lo
		if denom == 0 {
			denom = minmaxEpsilon
		}
		for i := range scored {
			norm := 0.0
			if ok[i] {
				if invert {
					norm = (hi - values[i]) / denom
				} else {
					norm = (values[i] - lo) / denom
				}
				norm = clamp01(norm)
			}
			scored[i].Features[name] = norm
			scored[i].Score += norm * weight
		}
	}

	for _, f := range features {
		values := make([]float64, len(rows))
		ok := make([]bool, len(rows))
		for i := range rows {
			values[i], ok[i] = f.value(&rows[i])
		}
		applyColumn(f.name, f.invert, f.weight(&prefs.Weights), values, ok)
	}
	applyColumn("poi_distance", true, prefs.Weights.POIDistance, distances, present)

	if prefs.MinScore != nil {
		threshold := *prefs.MinScore / 100 * totalWeight
		kept := scored[:0]
		for _, s := range scored {
			if s.Score >= threshold {
				kept = append(kept, s)
			}
		}
		scored = kept
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})

	return scored
}

// columnRange computes min/max over rows where the value is present. When
// nothing is present it returns a degenerate 0..0 range; every row then
// normalizes to 0.
func columnRange(values []float64, ok []bool) (lo, hi float64) {
	first := true
	for i, v := range values {
		if !ok[i] {
			continue
		}
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
