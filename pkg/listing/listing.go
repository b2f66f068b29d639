// Package listing содержит чистые функции фильтрации и сортировки каталога.
// Исходная коллекция никогда не модифицируется: результат всегда новый слайс,
// являющийся подмножеством/перестановкой входа.
package listing

import (
	"slices"
	"strings"
)

// AllCategories - значение категории, отключающее фильтрацию
const AllCategories = "all"

// SortKey определяет порядок выдачи
type SortKey string

const (
	SortBySignal   SortKey = "signal"   // signal score по убыванию
	SortByName     SortKey = "name"     // имя по возрастанию
	SortByCategory SortKey = "category" // категория по возрастанию
)

// Item - то, что умеет сортировать и фильтровать движок
type Item interface {
	ListingName() string
	ListingCategory() string
	ListingScore() float64
}

// View - производное представление коллекции
type View[T Item] struct {
	Filtered   []T      `json:"-"`
	Sorted     []T      `json:"products"`
	Categories []string `json:"categories"`
}

// ParseSortKey тотальна: неизвестное значение проходит как есть
// и при сортировке оставляет исходный порядок
func ParseSortKey(raw string) SortKey {
	if raw == "" {
		return SortBySignal
	}
	return SortKey(strings.ToLower(strings.TrimSpace(raw)))
}

// Known сообщает, знает ли движок этот ключ сортировки
func (k SortKey) Known() bool {
	switch k {
	case SortBySignal, SortByName, SortByCategory:
		return true
	}
	return false
}

// Filter возвращает товары выбранной категории (точное совпадение)
func Filter[T Item](items []T, category string) []T {
	out := make([]T, 0, len(items))
	if category == AllCategories {
		return append(out, items...)
	}
	for _, item := range items {
		if item.ListingCategory() == category {
			out = append(out, item)
		}
	}
	return out
}

// Sort стабильно сортирует копию коллекции по ключу
func Sort[T Item](items []T, key SortKey) []T {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}

	var cmp func(a, b T) int
	switch key {
	case SortBySignal:
		cmp = func(a, b T) int {
			// по убыванию
			switch {
			case a.ListingScore() > b.ListingScore():
				return -1
			case a.ListingScore() < b.ListingScore():
				return 1
			}
			return 0
		}
	case SortByName:
		cmp = func(a, b T) int { return strings.Compare(a.ListingName(), b.ListingName()) }
	case SortByCategory:
		cmp = func(a, b T) int { return strings.Compare(a.ListingCategory(), b.ListingCategory()) }
	default:
		return out
	}

	slices.SortStableFunc(out, cmp)
	return out
}

// Categories возвращает уникальные категории по алфавиту
func Categories[T Item](items []T) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0)
	for _, item := range items {
		category := item.ListingCategory()
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		out = append(out, category)
	}
	slices.Sort(out)
	return out
}

// Apply строит полное представление: категории считаются по нефильтрованной коллекции
func Apply[T Item](items []T, category string, key SortKey) View[T] {
	filtered := Filter(items, category)
	return View[T]{
		Filtered:   filtered,
		Sorted:     Sort(filtered, key),
		Categories: Categories(items),
	}
}
