package domain

import (
	"time"
)

// Listing is one observed real-estate offer. Descriptive fields come from the
// crawlers; the three provenance timestamps are owned by the reconciliation
// engine and never compared when deciding whether content changed.
//
// Invariant: Created <= Updated <= LastSeen. ID never changes.
type Listing struct {
	ID            string         `gorm:"column:id;primaryKey" json:"id"`
	Address       string         `gorm:"column:address" json:"address"`
	Area          *float64       `gorm:"column:area" json:"area"`
	Price         *float64       `gorm:"column:price" json:"price"`
	Disposition   Disposition    `gorm:"column:disposition" json:"disposition"`
	Floor         *int           `gorm:"column:floor" json:"floor"`
	Furnished     Furnished      `gorm:"column:furnished" json:"furnished"`
	Garden        float64        `gorm:"column:garden" json:"garden"`
	Type          PropertyType   `gorm:"column:type" json:"type"`
	Status        PropertyStatus `gorm:"column:status" json:"status"`
	Ownership     Ownership      `gorm:"column:ownership" json:"ownership"`
	Balcony       int            `gorm:"column:balcony" json:"balcony"`
	Cellar        int            `gorm:"column:cellar" json:"cellar"`
	Loggie        int            `gorm:"column:loggie" json:"loggie"`
	Elevator      int            `gorm:"column:elevator" json:"elevator"`
	Terrace       int            `gorm:"column:terrace" json:"terrace"`
	Garage        int            `gorm:"column:garage" json:"garage"`
	Parking       int            `gorm:"column:parking" json:"parking"`
	GPSLat        *float64       `gorm:"column:gps_lat" json:"gps_lat"`
	GPSLon        *float64       `gorm:"column:gps_lon" json:"gps_lon"`
	URL           string         `gorm:"column:url" json:"url"`
	Description   string         `gorm:"column:description" json:"description"`
	AvailableFrom *time.Time     `gorm:"column:available_from" json:"available_from"`

	Created  time.Time `gorm:"column:created" json:"created"`
	Updated  time.Time `gorm:"column:updated" json:"updated"`
	LastSeen time.Time `gorm:"column:last_seen" json:"last_seen"`
}

func (Listing) TableName() string {
	return "listings"
}

// fieldDef pairs a column name with an accessor returning a comparable value.
// This single table drives change detection, diffing and the column list used
// for partial updates, so the entity and the persistence layer cannot drift.
type fieldDef struct {
	name  string
	value func(*Listing) any
}

func floatVal(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func intVal(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func dateVal(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.Format("2006-01-02")
}

var descriptiveFields = []fieldDef{
	{"address", func(l *Listing) any { return l.Address }},
	{"area", func(l *Listing) any { return floatVal(l.Area) }},
	{"price", func(l *Listing) any { return floatVal(l.Price) }},
	{"disposition", func(l *Listing) any { return l.Disposition }},
	{"floor", func(l *Listing) any { return intVal(l.Floor) }},
	{"furnished", func(l *Listing) any { return l.Furnished }},
	{"garden", func(l *Listing) any { return l.Garden }},
	{"type", func(l *Listing) any { return l.Type }},
	{"status", func(l *Listing) any { return l.Status }},
	{"ownership", func(l *Listing) any { return l.Ownership }},
	{"balcony", func(l *Listing) any { return l.Balcony }},
	{"cellar", func(l *Listing) any { return l.Cellar }},
	{"loggie", func(l *Listing) any { return l.Loggie }},
	{"elevator", func(l *Listing) any { return l.Elevator }},
	{"terrace", func(l *Listing) any { return l.Terrace }},
	{"garage", func(l *Listing) any { return l.Garage }},
	{"parking", func(l *Listing) any { return l.Parking }},
	{"gps_lat", func(l *Listing) any { return floatVal(l.GPSLat) }},
	{"gps_lon", func(l *Listing) any { return floatVal(l.GPSLon) }},
	{"url", func(l *Listing) any { return l.URL }},
	{"description", func(l *Listing) any { return l.Description }},
	{"available_from", func(l *Listing) any { return dateVal(l.AvailableFrom) }},
}

// DescriptiveColumns lists the column names of every descriptive attribute,
// in schema order. Provenance timestamps are not included.
func DescriptiveColumns() []string {
	cols := make([]string, len(descriptiveFields))
	for i, f := range descriptiveFields {
		cols[i] = f.name
	}
	return cols
}

// DescriptiveEquals reports whether l and other carry identical descriptive
// content. Created/Updated/LastSeen are ignored.
func (l *Listing) DescriptiveEquals(other *Listing) bool {
	for _, f := range descriptiveFields {
		if f.value(l) != f.value(other) {
			return false
		}
	}
	return true
}

// FieldChange is one attribute-level difference between two observations of
// the same listing.
type FieldChange struct {
	Field string `json:"field"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}

// Diff returns the descriptive fields on which other differs from l.
// Description is skipped: free text churns on every re-scrape and the diff
// feeds notifications.
func (l *Listing) Diff(other *Listing) []FieldChange {
	var changes []FieldChange
	for _, f := range descriptiveFields {
		if f.name == "description" {
			continue
		}
		oldV, newV := f.value(l), f.value(other)
		if oldV != newV {
			changes = append(changes, FieldChange{Field: f.name, Old: oldV, New: newV})
		}
	}
	return changes
}

// CopyDescriptiveFrom overwrites l's descriptive attributes with other's,
// leaving ID and provenance timestamps untouched.
func (l *Listing) CopyDescriptiveFrom(other *Listing) {
	id, created, updated, lastSeen := l.ID, l.Created, l.Updated, l.LastSeen
	*l = *other
	l.ID, l.Created, l.Updated, l.LastSeen = id, created, updated, lastSeen
}
