package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tool struct {
	name     string
	category string
	score    float64
}

func (t tool) ListingName() string     { return t.name }
func (t tool) ListingCategory() string { return t.category }
func (t tool) ListingScore() float64   { return t.score }

func names(items []tool) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.name)
	}
	return out
}

func sampleTools() []tool {
	return []tool{
		{name: "Uniswap", category: "DEX", score: 9.1},
		{name: "MetaMask", category: "Wallet", score: 8.7},
		{name: "Curve", category: "DEX", score: 8.7},
		{name: "Rabby", category: "Wallet", score: 7.9},
		{name: "Dune", category: "Analytics", score: 8.2},
	}
}

func TestSort_SignalDescendingIsStable(t *testing.T) {
	products := []tool{
		{name: "Zed", score: 5},
		{name: "Ace", score: 5},
		{name: "Mid", score: 9},
	}

	assert.Equal(t, []string{"Mid", "Zed", "Ace"}, names(Sort(products, SortBySignal)))
}

func TestSort_NameAscending(t *testing.T) {
	products := []tool{
		{name: "Zed", score: 5},
		{name: "Ace", score: 5},
		{name: "Mid", score: 9},
	}

	sorted := Sort(products, SortByName)
	assert.Equal(t, []string{"Ace", "Mid", "Zed"}, names(sorted))
	// повторная сортировка идемпотентна
	assert.Equal(t, sorted, Sort(sorted, SortByName))
}

func TestSort_CategoryAscendingKeepsTieOrder(t *testing.T) {
	sorted := Sort(sampleTools(), SortByCategory)

	assert.Equal(t, []string{"Dune", "Uniswap", "Curve", "MetaMask", "Rabby"}, names(sorted))
}

func TestSort_UnknownKeyKeepsSourceOrder(t *testing.T) {
	source := sampleTools()

	sorted := Sort(source, SortKey("price"))

	assert.Equal(t, names(source), names(sorted))
}

func TestSort_DoesNotMutateSource(t *testing.T) {
	source := sampleTools()
	before := names(source)

	_ = Sort(source, SortByName)

	assert.Equal(t, before, names(source))
}

func TestSort_Empty(t *testing.T) {
	assert.Empty(t, Sort[tool](nil, SortBySignal))
	assert.NotNil(t, Sort[tool](nil, SortBySignal))
}

func TestFilter_AllReturnsEverything(t *testing.T) {
	source := sampleTools()

	assert.Equal(t, source, Filter(source, AllCategories))
}

func TestFilter_ExactMatchOnly(t *testing.T) {
	source := append(sampleTools(), tool{name: "DEX Screener", category: "DEX Tools", score: 6})

	filtered := Filter(source, "DEX")

	assert.Equal(t, []string{"Uniswap", "Curve"}, names(filtered))
	for _, item := range filtered {
		assert.Equal(t, "DEX", item.category)
	}
}

func TestFilter_UnionOfCategoriesCoversSource(t *testing.T) {
	source := sampleTools()

	seen := map[string]int{}
	for _, category := range Categories(source) {
		for _, item := range Filter(source, category) {
			seen[item.name]++
		}
	}

	require.Len(t, seen, len(source))
	for _, item := range source {
		assert.Equal(t, 1, seen[item.name], item.name)
	}
}

func TestCategories_SortedAndDeduplicated(t *testing.T) {
	products := []tool{
		{name: "a", category: "DEX"},
		{name: "b", category: "Wallet"},
		{name: "c", category: "Wallet"},
	}

	assert.Equal(t, []string{"DEX", "Wallet"}, Categories(products))
}

func TestCategories_Empty(t *testing.T) {
	assert.Empty(t, Categories[tool](nil))
}

func TestApply_CategoriesFromUnfilteredSource(t *testing.T) {
	view := Apply(sampleTools(), "Wallet", SortByName)

	assert.Equal(t, []string{"MetaMask", "Rabby"}, names(view.Filtered))
	assert.Equal(t, []string{"MetaMask", "Rabby"}, names(view.Sorted))
	assert.Equal(t, []string{"Analytics", "DEX", "Wallet"}, view.Categories)
}

func TestApply_EmptySource(t *testing.T) {
	view := Apply[tool](nil, AllCategories, SortBySignal)

	assert.Empty(t, view.Filtered)
	assert.Empty(t, view.Sorted)
	assert.Empty(t, view.Categories)
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortBySignal, ParseSortKey(""))
	assert.Equal(t, SortByName, ParseSortKey(" Name "))
	assert.Equal(t, SortKey("price"), ParseSortKey("price"))
	assert.True(t, SortByCategory.Known())
	assert.False(t, SortKey("price").Known())
}
