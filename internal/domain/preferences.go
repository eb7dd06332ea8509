package domain

import (
	"fmt"
	"strings"
	"time"
)

// Point is a resolved geographic coordinate. Geocoding happens upstream; the
// engine only ever sees latitude/longitude pairs.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Weights holds one non-negative weight per scoring feature. A weight of 0
// disables the feature's contribution without excluding listings that lack it.
// Intended range is 0-10; unset weights default to 1.
type Weights struct {
	Area        float64 `json:"weight_area"`
	Price       float64 `json:"weight_price"`
	Disposition float64 `json:"weight_disposition"`
	Garden      float64 `json:"weight_garden"`
	Balcony     float64 `json:"weight_balcony"`
	Cellar      float64 `json:"weight_cellar"`
	Loggie      float64 `json:"weight_loggie"`
	Elevator    float64 `json:"weight_elevator"`
	Terrace     float64 `json:"weight_terrace"`
	Garage      float64 `json:"weight_garage"`
	Parking     float64 `json:"weight_parking"`
	POIDistance float64 `json:"weight_poi_distance"`
}

// DefaultWeights returns every feature weighted 1.
func DefaultWeights() Weights {
	return Weights{
		Area: 1, Price: 1, Disposition: 1, Garden: 1,
		Balcony: 1, Cellar: 1, Loggie: 1, Elevator: 1,
		Terrace: 1, Garage: 1, Parking: 1, POIDistance: 1,
	}
}

// Preferences is one user's search criteria and scoring weights. Nil/empty
// fields impose no constraint.
type Preferences struct {
	Location         *string `json:"location"`
	PointsOfInterest []Point `json:"points_of_interest"`

	Disposition []Disposition    `json:"disposition"`
	Type        []PropertyType   `json:"type"`
	Furnished   []Furnished      `json:"furnished"`
	Status      []PropertyStatus `json:"status"`

	MinArea  *float64 `json:"min_area"`
	MaxArea  *float64 `json:"max_area"`
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`

	AvailableFrom *time.Time `json:"available_from"`

	Balcony  *bool `json:"balcony"`
	Cellar   *bool `json:"cellar"`
	Elevator *bool `json:"elevator"`
	Garage   *bool `json:"garage"`
	Garden   *bool `json:"garden"`
	Loggie   *bool `json:"loggie"`
	Parking  *bool `json:"parking"`
	Terrace  *bool `json:"terrace"`

	Floor       *int    `json:"floor"`
	Description *string `json:"description"`

	Weights Weights `json:"weights"`

	// MinScore is a 0-100 cutoff applied after scoring, expressed as a
	// percentage of the maximum achievable weighted sum.
	MinScore *float64 `json:"min_score"`
}

// Validate rejects malformed specifications at construction time. Negative
// weights are an error, never silently clamped.
func (p *Preferences) Validate() error {
	checks := []struct {
		name string
		w    float64
	}{
		{"weight_area", p.Weights.Area},
		{"weight_price", p.Weights.Price},
		{"weight_disposition", p.Weights.Disposition},
		{"weight_garden", p.Weights.Garden},
		{"weight_balcony", p.Weights.Balcony},
		{"weight_cellar", p.Weights.Cellar},
		{"weight_loggie", p.Weights.Loggie},
		{"weight_elevator", p.Weights.Elevator},
		{"weight_terrace", p.Weights.Terrace},
		{"weight_garage", p.Weights.Garage},
		{"weight_parking", p.Weights.Parking},
		{"weight_poi_distance", p.Weights.POIDistance},
	}
	for _, c := range checks {
		if c.w < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeWeight, c.name)
		}
	}
	if p.MinScore != nil && (*p.MinScore < 0 || *p.MinScore > 100) {
		return ErrMinScoreRange
	}
	return nil
}

// Match reports whether the listing satisfies every constrained field, all
// predicates AND-combined.
//
// Boolean amenity flags constrain only when required: a true flag keeps only
// listings that have the amenity, while false or unset imposes no constraint
// (an amenity is a bonus, not a disqualifier unless asked for). Garden is the
// exception: it is a measured area, so garden=false enforceably means "no
// garden".
func (p *Preferences) Match(l *Listing) bool {
	if len(p.Disposition) > 0 && !containsDispo(p.Disposition, l.Disposition) {
		return false
	}
	if len(p.Type) > 0 && !containsType(p.Type, l.Type) {
		return false
	}
	if len(p.Furnished) > 0 && !containsFurnished(p.Furnished, l.Furnished) {
		return false
	}
	if len(p.Status) > 0 && !containsStatus(p.Status, l.Status) {
		return false
	}

	if p.MinArea != nil && (l.Area == nil || *l.Area < *p.MinArea) {
		return false
	}
	if p.MaxArea != nil && (l.Area == nil || *l.Area > *p.MaxArea) {
		return false
	}
	if p.MinPrice != nil && (l.Price == nil || *l.Price < *p.MinPrice) {
		return false
	}
	if p.MaxPrice != nil && (l.Price == nil || *l.Price > *p.MaxPrice) {
		return false
	}
	if p.Floor != nil && (l.Floor == nil || *l.Floor < *p.Floor) {
		return false
	}

	if p.AvailableFrom != nil {
		if l.AvailableFrom == nil || l.AvailableFrom.Before(*p.AvailableFrom) {
			return false
		}
	}

	for _, amenity := range []struct {
		want *bool
		have int
	}{
		{p.Balcony, l.Balcony},
		{p.Cellar, l.Cellar},
		{p.Elevator, l.Elevator},
		{p.Garage, l.Garage},
		{p.Loggie, l.Loggie},
		{p.Parking, l.Parking},
		{p.Terrace, l.Terrace},
	} {
		if amenity.want != nil && *amenity.want && amenity.have != 1 {
			return false
		}
	}

	if p.Garden != nil {
		if *p.Garden && l.Garden <= 0 {
			return false
		}
		if !*p.Garden && l.Garden > 0 {
			return false
		}
	}

	if p.Description != nil && *p.Description != "" {
		if !strings.Contains(strings.ToLower(l.Description), strings.ToLower(*p.Description)) {
			return false
		}
	}
	if p.Location != nil && *p.Location != "" {
		if !strings.Contains(strings.ToLower(l.Address), strings.ToLower(*p.Location)) {
			return false
		}
	}

	return true
}

func containsDispo(set []Disposition, v Disposition) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsType(set []PropertyType, v PropertyType) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsFurnished(set []Furnished, v Furnished) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsStatus(set []PropertyStatus, v PropertyStatus) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
