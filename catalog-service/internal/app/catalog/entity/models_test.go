package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatures_ValueAndScan(t *testing.T) {
	features := Features{{Title: "Swaps", Description: "Token swaps"}}

	value, err := features.Value()
	require.NoError(t, err)

	var scanned Features
	require.NoError(t, scanned.Scan([]byte(value.(string))))
	assert.Equal(t, features, scanned)
}

func TestMediaList_ScanNilAndEmpty(t *testing.T) {
	var media MediaList

	assert.NoError(t, media.Scan(nil))
	assert.NoError(t, media.Scan(""))
	assert.Nil(t, media)
}

func TestMediaList_ScanUnsupportedType(t *testing.T) {
	var media MediaList

	assert.Error(t, media.Scan(42))
}

func TestPriceTier_Valid(t *testing.T) {
	assert.True(t, PriceTierFree.Valid())
	assert.True(t, PriceTierFreemium.Valid())
	assert.False(t, PriceTier("free").Valid())
	assert.False(t, PriceTier("").Valid())
}

func TestProduct_ListingItem(t *testing.T) {
	p := Product{Name: "Uniswap", Category: "DEX", SignalScore: 9.1}

	assert.Equal(t, "Uniswap", p.ListingName())
	assert.Equal(t, "DEX", p.ListingCategory())
	assert.Equal(t, 9.1, p.ListingScore())
}
