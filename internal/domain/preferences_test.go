package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bp(v bool) *bool     { return &v }
func sp(v string) *string { return &v }

func TestValidate_RejectsNegativeWeight(t *testing.T) {
	p := Preferences{Weights: DefaultWeights()}
	p.Weights.Price = -1

	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeWeight)
	assert.Contains(t, err.Error(), "weight_price")
}

func TestValidate_RejectsMinScoreOutOfRange(t *testing.T) {
	p := Preferences{Weights: DefaultWeights(), MinScore: fp(150)}
	assert.ErrorIs(t, p.Validate(), ErrMinScoreRange)

	p.MinScore = fp(40)
	assert.NoError(t, p.Validate())
}

func TestValidate_ZeroWeightIsFine(t *testing.T) {
	p := Preferences{Weights: DefaultWeights()}
	p.Weights.Garden = 0
	assert.NoError(t, p.Validate())
}

func TestMatch_NumericRangeConjunction(t *testing.T) {
	p := Preferences{MinArea: fp(50), MaxPrice: fp(30000)}

	small := sampleListing()
	small.Area = fp(40)
	small.Price = fp(25000)
	assert.False(t, p.Match(&small))

	ok := sampleListing()
	ok.Area = fp(60)
	ok.Price = fp(25000)
	assert.True(t, p.Match(&ok))
}

func TestMatch_MissingNumericFailsBoundedClause(t *testing.T) {
	p := Preferences{MinArea: fp(50)}
	l := sampleListing()
	l.Area = nil
	assert.False(t, p.Match(&l))
}

func TestMatch_SetMembership(t *testing.T) {
	p := Preferences{Disposition: []Disposition{TwoPlusKK, ThreePlusKK}}
	l := sampleListing() // 2+kk
	assert.True(t, p.Match(&l))

	l.Disposition = OnePlusKK
	assert.False(t, p.Match(&l))
}

func TestMatch_AmenityPolicyIsAsymmetric(t *testing.T) {
	withBalcony := sampleListing()
	withBalcony.Balcony = 1
	without := sampleListing()
	without.Balcony = 0

	required := Preferences{Balcony: bp(true)}
	assert.True(t, required.Match(&withBalcony))
	assert.False(t, required.Match(&without))

	// false does not exclude listings that have the amenity
	notRequired := Preferences{Balcony: bp(false)}
	assert.True(t, notRequired.Match(&withBalcony))
	assert.True(t, notRequired.Match(&without))
}

func TestMatch_GardenIsSymmetric(t *testing.T) {
	gardened := sampleListing()
	gardened.Garden = 35
	bare := sampleListing()
	bare.Garden = 0

	wantGarden := Preferences{Garden: bp(true)}
	assert.True(t, wantGarden.Match(&gardened))
	assert.False(t, wantGarden.Match(&bare))

	noGarden := Preferences{Garden: bp(false)}
	assert.False(t, noGarden.Match(&gardened))
	assert.True(t, noGarden.Match(&bare))
}

func TestMatch_FloorMinimum(t *testing.T) {
	p := Preferences{Floor: ip(2)}
	l := sampleListing() // floor 3
	assert.True(t, p.Match(&l))

	l.Floor = ip(1)
	assert.False(t, p.Match(&l))

	l.Floor = nil
	assert.False(t, p.Match(&l))
}

func TestMatch_AvailableFrom(t *testing.T) {
	p := Preferences{AvailableFrom: tp(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))}
	l := sampleListing() // available 2024-07-01
	assert.True(t, p.Match(&l))

	p.AvailableFrom = tp(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, p.Match(&l))

	l.AvailableFrom = nil
	assert.False(t, p.Match(&l))
}

func TestMatch_SubstringFiltersAreCaseInsensitive(t *testing.T) {
	p := Preferences{Description: sp("REKONSTRUKCI")}
	l := sampleListing()
	assert.True(t, p.Match(&l))

	p = Preferences{Location: sp("veveří")}
	assert.True(t, p.Match(&l))

	p = Preferences{Location: sp("Praha")}
	assert.False(t, p.Match(&l))
}

func TestMatch_UnsetSpecMatchesEverything(t *testing.T) {
	p := Preferences{}
	l := sampleListing()
	assert.True(t, p.Match(&l))
}

func tp(v time.Time) *time.Time { return &v }
