package catalog

import (
	"hash"
	"hash/fnv"
	"sort"
	"strings"
)

// CompareMode selects which equivalence relation a comparer applies.
type CompareMode int

const (
	// ByIdentity compares natural keys only. It answers "is this the same
	// item", used to split brand-new items from already stored ones.
	ByIdentity CompareMode = iota
	// ByContent compares every observable field. It answers "did this item
	// change", used to split updates from no-ops.
	ByContent
)

// Comparer is an equivalence relation over catalog items. Implementations
// guarantee that Equals(a, b) implies Hash(a) == Hash(b).
type Comparer interface {
	Equals(a, b Item) bool
	Hash(x Item) uint64
}

// CategoryComparer compares categories by identity or full content.
type CategoryComparer struct {
	mode CompareMode
}

// NewCategoryComparer creates a category comparer for the given mode.
func NewCategoryComparer(mode CompareMode) CategoryComparer {
	return CategoryComparer{mode: mode}
}

// Equals reports whether two items are equivalent categories.
func (c CategoryComparer) Equals(a, b Item) bool {
	x, okX := a.(*Category)
	y, okY := b.(*Category)
	if !okX || !okY || x == nil || y == nil {
		return false
	}

	if c.mode == ByIdentity {
		return strings.EqualFold(x.ID, y.ID)
	}

	return x.Name == y.Name &&
		x.DisplayName == y.DisplayName &&
		equalPipeSets(x.CatalogToEntityList, y.CatalogToEntityList) &&
		equalPipeSets(x.ParentCatalogList, y.ParentCatalogList) &&
		equalPipeSets(x.ParentCategoryList, y.ParentCategoryList) &&
		equalStringSets(x.Memberships, y.Memberships)
}

// Hash returns a hash consistent with Equals.
func (c CategoryComparer) Hash(item Item) uint64 {
	x, ok := item.(*Category)
	if !ok || x == nil {
		return 0
	}

	h := fnv.New64a()
	if c.mode == ByIdentity {
		hashString(h, strings.ToLower(x.ID))
		return h.Sum64()
	}

	hashString(h, x.Name)
	hashString(h, x.DisplayName)
	hashStrings(h, sortedPipeSet(x.CatalogToEntityList))
	hashStrings(h, sortedPipeSet(x.ParentCatalogList))
	hashStrings(h, sortedPipeSet(x.ParentCategoryList))
	hashStrings(h, sortedSetCI(x.Memberships))
	return h.Sum64()
}

// SellableItemComparer compares sellable items by identity or full content.
type SellableItemComparer struct {
	mode CompareMode
}

// NewSellableItemComparer creates a sellable item comparer for the given mode.
func NewSellableItemComparer(mode CompareMode) SellableItemComparer {
	return SellableItemComparer{mode: mode}
}

// Equals reports whether two items are equivalent sellable items.
func (c SellableItemComparer) Equals(a, b Item) bool {
	x, okX := a.(*SellableItem)
	y, okY := b.(*SellableItem)
	if !okX || !okY || x == nil || y == nil {
		return false
	}

	if c.mode == ByIdentity {
		return strings.EqualFold(x.ProductID, y.ProductID)
	}

	return x.ProductID == y.ProductID &&
		x.Name == y.Name &&
		x.DisplayName == y.DisplayName &&
		x.TypeOfGood == y.TypeOfGood &&
		equalPipeSets(x.CatalogToEntityList, y.CatalogToEntityList) &&
		equalPipeSets(x.ParentCatalogList, y.ParentCatalogList) &&
		equalPipeSets(x.ParentCategoryList, y.ParentCategoryList) &&
		equalStringSets(x.Memberships, y.Memberships) &&
		equalPriceLists(x.ListPrices, y.ListPrices) &&
		equalImageLists(x.Images, y.Images)
}

// Hash returns a hash consistent with Equals.
func (c SellableItemComparer) Hash(item Item) uint64 {
	x, ok := item.(*SellableItem)
	if !ok || x == nil {
		return 0
	}

	h := fnv.New64a()
	if c.mode == ByIdentity {
		hashString(h, strings.ToLower(x.ProductID))
		return h.Sum64()
	}

	hashString(h, x.ProductID)
	hashString(h, x.Name)
	hashString(h, x.DisplayName)
	hashString(h, x.TypeOfGood)
	hashStrings(h, sortedPipeSet(x.CatalogToEntityList))
	hashStrings(h, sortedPipeSet(x.ParentCatalogList))
	hashStrings(h, sortedPipeSet(x.ParentCategoryList))
	hashStrings(h, sortedSetCI(x.Memberships))
	for _, p := range sortedPrices(x.ListPrices) {
		hashString(h, strings.ToLower(p.CurrencyCode))
		hashString(h, p.Amount.StringFixed(4))
	}
	hashStrings(h, sortedSetCI(x.Images))
	return h.Sum64()
}

// equalPipeSets compares two pipe-delimited lists as unordered sets, ordering
// case-insensitively before element-wise comparison. Both empty is equal,
// one empty is not.
func equalPipeSets(a, b string) bool {
	if a == "" && b == "" {
		return true
	}
	if a == "" || b == "" {
		return false
	}
	return equalSortedCI(strings.Split(a, ListSeparator), strings.Split(b, ListSeparator))
}

// equalStringSets compares two slices as unordered sets with the same null
// pairing rules as equalPipeSets.
func equalStringSets(a, b []string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return equalSortedCI(a, b)
}

// equalImageLists compares image lists as unordered case-insensitively
// ordered sets.
func equalImageLists(a, b []string) bool {
	return equalStringSets(a, b)
}

func equalSortedCI(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := sortedSetCI(a)
	bs := sortedSetCI(b)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// equalPriceLists compares price lists ordered by currency code
// case-insensitively, then element-wise by currency and numeric amount.
func equalPriceLists(a, b []Price) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	as := sortedPrices(a)
	bs := sortedPrices(b)
	for i := range as {
		if !strings.EqualFold(as[i].CurrencyCode, bs[i].CurrencyCode) {
			return false
		}
		if !as[i].Amount.Equal(bs[i].Amount) {
			return false
		}
	}
	return true
}

func sortedPipeSet(s string) []string {
	if s == "" {
		return nil
	}
	return sortedSetCI(strings.Split(s, ListSeparator))
}

func sortedSetCI(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

func sortedPrices(in []Price) []Price {
	out := make([]Price, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].CurrencyCode) < strings.ToLower(out[j].CurrencyCode)
	})
	return out
}

func hashString(h hash.Hash64, s string) {
	_, _ = h.Write([]byte(s))
	_, _ = h.Write([]byte{0})
}

func hashStrings(h hash.Hash64, items []string) {
	for _, s := range items {
		hashString(h, s)
	}
	// Separate list boundaries so adjacent lists cannot alias.
	_, _ = h.Write([]byte{0xff})
}
