package domain

// Disposition is the room-layout category of a listing ("2+kk", "3+1", ...).
// The string values are the canonical forms the crawlers are normalized to.
type Disposition string

const (
	OnePlusOne    Disposition = "1+1"
	OnePlusKK     Disposition = "1+kk"
	TwoPlusOne    Disposition = "2+1"
	TwoPlusKK     Disposition = "2+kk"
	ThreePlusOne  Disposition = "3+1"
	ThreePlusKK   Disposition = "3+kk"
	FourPlusOne   Disposition = "4+1"
	FourPlusKK    Disposition = "4+kk"
	FivePlusKK    Disposition = "5+kk"
	FivePlusOne   Disposition = "5+1"
	SixAndLarger  Disposition = "6-a-více"
	DispoOther    Disposition = "other"
)

// dispositionRank orders dispositions by room count/type ascending.
// "other" is intentionally absent: it has no meaningful position on the
// scale and is treated as missing by the scoring engine.
var dispositionRank = map[Disposition]float64{
	OnePlusOne:   1,
	OnePlusKK:    2,
	TwoPlusOne:   3,
	TwoPlusKK:    4,
	ThreePlusOne: 5,
	ThreePlusKK:  6,
	FourPlusOne:  7,
	FourPlusKK:   8,
	FivePlusKK:   9,
	FivePlusOne:  10,
	SixAndLarger: 11,
}

// Rank returns the ordinal position of the disposition and whether it has one.
func (d Disposition) Rank() (float64, bool) {
	r, ok := dispositionRank[d]
	return r, ok
}

// Furnished is the furnishing level reported by the source.
type Furnished string

const (
	FurnishedYes    Furnished = "Vybaveno"
	FurnishedNo     Furnished = "Nevybaveno"
	FurnishedPartly Furnished = "Částečně"
)

// PropertyType is the construction material category.
type PropertyType string

const (
	TypeBrick    PropertyType = "Cihla"
	TypeConcrete PropertyType = "Panel"
	TypeOther    PropertyType = "Ostatní"
)

// PropertyStatus is the condition of the building.
type PropertyStatus string

const (
	StatusNew               PropertyStatus = "Novostavba"
	StatusVeryGood          PropertyStatus = "Velmi dobrý"
	StatusGood              PropertyStatus = "Dobrý"
	StatusBad               PropertyStatus = "Špatný"
	StatusForDemolition     PropertyStatus = "K demolici"
	StatusUnderConstruction PropertyStatus = "Ve výstavbě"
	StatusRenovated         PropertyStatus = "Po rekonstrukci"
	StatusForRenovation     PropertyStatus = "Před rekonstrukcí"
	StatusInRenovation      PropertyStatus = "V rekonstrukci"
	StatusProject           PropertyStatus = "Projekt"
)

// Ownership is the legal ownership form of the property.
type Ownership string

const (
	OwnershipPersonal    Ownership = "Osobní"
	OwnershipCooperative Ownership = "Družstevní"
	OwnershipOther       Ownership = "Ostatní"
)
