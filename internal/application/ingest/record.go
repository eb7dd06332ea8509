package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"flathunt-backend/internal/domain"

	"github.com/rs/zerolog/log"
)

// Record is one raw listing as delivered by a crawler: loosely typed field
// values, missing fields present as empty strings or nulls.
type Record map[string]any

// dispositionAliases unifies the source sites' layout labels into the
// canonical vocabulary. Studios count as 1+kk; everything above 5+1 collapses
// into the open-ended top bucket.
var dispositionAliases = map[string]domain.Disposition{
	"Garsoniéra": domain.OnePlusKK,
	"Ostatní":    domain.DispoOther,
	"atypicky":   domain.DispoOther,
	"pokoj":      domain.DispoOther,
	"6+kk":       domain.SixAndLarger,
	"6+1":        domain.SixAndLarger,
	"7+kk":       domain.SixAndLarger,
	"7+1":        domain.SixAndLarger,
}

// ParseListing converts a raw crawl record into a Listing. The crawl time is
// needed to resolve "Ihned" (available immediately) into a concrete date.
// A record without an id is rejected; any other malformed field is tolerated
// and treated as missing.
func ParseListing(r Record, crawlTime time.Time) (*domain.Listing, error) {
	id := stringField(r, "id")
	if id == "" {
		return nil, domain.ErrMissingID
	}

	l := &domain.Listing{
		ID:          id,
		Address:     stringField(r, "address"),
		URL:         stringField(r, "url"),
		Description: stringField(r, "description"),
	}

	l.Area = numericField(r, "area", id)
	l.Price = numericField(r, "price", id)
	l.GPSLat = numericField(r, "gps_lat", id)
	l.GPSLon = numericField(r, "gps_lon", id)

	l.Disposition = parseDisposition(stringField(r, "disposition"))
	l.Furnished = parseFurnished(r["furnished"])
	l.Type = parseType(r["type"])
	l.Ownership = parseOwnership(r["ownership"])
	l.Status = domain.PropertyStatus(stringField(r, "status"))

	l.Floor = parseFloor(r["floor"])
	l.Garden = parseGarden(r["garden"])

	l.Balcony = amenityFlag(r["balcony"], "balk")
	l.Cellar = amenityFlag(r["cellar"], "sklep")
	l.Elevator = parseElevator(r["elevator"])
	l.Garage = amenityFlag(r["garage"], "garáž")
	l.Loggie = amenityFlag(r["loggie"], "lodžie")
	l.Parking = amenityFlag(r["parking"], "parkování")
	l.Terrace = amenityFlag(r["terrace"], "terasa")

	l.AvailableFrom = parseAvailableFrom(stringField(r, "available_from"), crawlTime)

	return l, nil
}

func stringField(r Record, key string) string {
	if v, ok := r[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// numericField parses a number that may arrive as a float, an int, or a
// string with thousands separators and a currency suffix ("18 500 Kč").
// Unparseable values are logged and treated as missing.
func numericField(r Record, key, id string) *float64 {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case string:
		s := strings.NewReplacer(" ", "", " ", "", "Kč", "", "€", "", ",", ".").Replace(n)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			log.Warn().Str("listing_id", id).Str("field", key).Str("value", n).Msg("Unparseable numeric field, treating as missing")
			return nil
		}
		return &f
	}
	return nil
}

func parseDisposition(s string) domain.Disposition {
	if s == "" {
		return domain.DispoOther
	}
	if d, ok := dispositionAliases[s]; ok {
		return d
	}
	d := domain.Disposition(s)
	if _, ok := d.Rank(); ok {
		return d
	}
	return domain.DispoOther
}

// parseFurnished accepts the Czech labels or the sreality numeric codes.
func parseFurnished(v any) domain.Furnished {
	switch f := v.(type) {
	case string:
		return domain.Furnished(strings.TrimSpace(f))
	case float64:
		switch int(f) {
		case 1:
			return domain.FurnishedYes
		case 2:
			return domain.FurnishedNo
		case 3:
			return domain.FurnishedPartly
		}
	}
	return ""
}

// parseType maps construction material labels onto the closed vocabulary;
// anything outside brick/concrete is "other".
func parseType(v any) domain.PropertyType {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	switch strings.TrimSpace(s) {
	case "Cihla", "cihlova":
		return domain.TypeBrick
	case "Panel", "panelova":
		return domain.TypeConcrete
	case "":
		return ""
	default:
		return domain.TypeOther
	}
}

func parseOwnership(v any) domain.Ownership {
	switch o := v.(type) {
	case string:
		switch strings.TrimSpace(o) {
		case "Osobní":
			return domain.OwnershipPersonal
		case "Družstevní":
			return domain.OwnershipCooperative
		case "":
			return ""
		default:
			// Municipal and everything else
			return domain.OwnershipOther
		}
	case float64:
		switch int(o) {
		case 1:
			return domain.OwnershipPersonal
		case 2:
			return domain.OwnershipCooperative
		case 3:
			return domain.OwnershipOther
		}
	}
	return ""
}

// parseFloor handles "3. podlaží z celkem 5", "přízemí" (ground floor) and
// plain numbers.
func parseFloor(v any) *int {
	switch f := v.(type) {
	case float64:
		n := int(f)
		return &n
	case string:
		s := strings.TrimSpace(f)
		if s == "" {
			return nil
		}
		if strings.EqualFold(s, "přízemí") {
			n := 0
			return &n
		}
		for _, sep := range []string{". podlaží", " z celkem", " včetně", " underground"} {
			if i := strings.Index(s, sep); i >= 0 {
				s = s[:i]
			}
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}

// parseGarden reads "Předzahrádka 20,5 m2" style values into square meters.
// Absent or unparseable means no garden (0).
func parseGarden(v any) float64 {
	switch g := v.(type) {
	case float64:
		return g
	case string:
		s := strings.NewReplacer("Předzahrádka", "", "Predzahradka", "", "m2", "", " ", "", ",", ".").Replace(g)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// amenityFlag turns the source's free-text amenity mention into a 0/1 flag:
// a numeric value is taken as-is, a string containing the keyword means
// present.
func amenityFlag(v any, keyword string) int {
	switch a := v.(type) {
	case float64:
		if a == 1 {
			return 1
		}
		return 0
	case bool:
		if a {
			return 1
		}
		return 0
	case string:
		if strings.Contains(strings.ToLower(a), keyword) {
			return 1
		}
		return 0
	}
	return 0
}

// parseElevator is amenityFlag plus the sreality quirk where code 2 means
// "no elevator".
func parseElevator(v any) int {
	if f, ok := v.(float64); ok && int(f) == 2 {
		return 0
	}
	return amenityFlag(v, "výtah")
}

// parseAvailableFrom accepts "Ihned" (resolved to the crawl date), the Czech
// d.m.yyyy form and ISO dates.
func parseAvailableFrom(s string, crawlTime time.Time) *time.Time {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return nil
	}
	if strings.EqualFold(s, "Ihned") {
		d := crawlTime.Truncate(24 * time.Hour)
		return &d
	}
	for _, layout := range []string{"2.1.2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseBatch converts a whole crawl batch, skipping records that cannot be
// parsed at all (no id). The skip count is reported back to the caller so a
// bad record never aborts the batch.
func ParseBatch(records []Record, crawlTime time.Time) ([]domain.Listing, int) {
	listings := make([]domain.Listing, 0, len(records))
	skipped := 0
	for i, r := range records {
		l, err := ParseListing(r, crawlTime)
		if err != nil {
			skipped++
			log.Warn().Err(err).Str("record", fmt.Sprintf("#%d", i)).Msg("Skipping malformed crawl record")
			continue
		}
		listings = append(listings, *l)
	}
	return listings, skipped
}
