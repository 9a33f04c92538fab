package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Well-known membership list names. Imported items are seeded into the list
// for their own kind plus the shared catalog-items list.
const (
	ListCategories    = "categories"
	ListSellableItems = "sellable_items"
	ListCatalogItems  = "catalog_items"
)

// ListSeparator delimits surrogate IDs in the parent catalog/category lists.
// The lists are stored ordered but compared as unordered sets.
const ListSeparator = "|"

// CatalogItemBase holds the fields shared by all catalog item variants.
// IDs are deterministic: they are derived from the source system's natural
// keys so that repeated imports address the same rows.
type CatalogItemBase struct {
	ID                  string   `gorm:"primaryKey;type:varchar(512)"`
	FriendlyID          string   `gorm:"type:varchar(512);index"`
	SurrogateID         string   `gorm:"type:varchar(36);not null;index"`
	Name                string   `gorm:"type:varchar(255);not null"`
	DisplayName         string   `gorm:"type:varchar(255)"`
	CatalogToEntityList string   `gorm:"type:text"`
	ParentCatalogList   string   `gorm:"type:text"`
	ParentCategoryList  string   `gorm:"type:text"`
	Memberships         []string `gorm:"serializer:json;type:jsonb"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Item is the capability surface shared by importable catalog items.
type Item interface {
	Base() *CatalogItemBase
	Kind() ItemKind
	// IdentityKey returns the natural-key value identity comparison runs on.
	IdentityKey() string
	ScratchRecord() *ImportScratch
	StripScratch()
}

// Catalog is the root container items are imported into. Catalogs are not
// created by the import; they must already exist in storage.
type Catalog struct {
	CatalogItemBase
}

// TableName returns the table name for GORM
func (Catalog) TableName() string {
	return "catalogs"
}

// NewCatalog creates a catalog entity with deterministic identifiers.
func NewCatalog(name string) *Catalog {
	id := CatalogID(name)
	return &Catalog{
		CatalogItemBase: CatalogItemBase{
			ID:          id,
			FriendlyID:  name,
			SurrogateID: SurrogateID(id),
			Name:        name,
			DisplayName: name,
			Memberships: []string{ListCatalogItems},
		},
	}
}

// Base returns the shared catalog item fields.
func (c *Catalog) Base() *CatalogItemBase { return &c.CatalogItemBase }

// Kind returns the item kind.
func (c *Catalog) Kind() ItemKind { return ItemKindCatalog }

// IdentityKey returns the natural-key value identity comparison runs on.
func (c *Catalog) IdentityKey() string { return c.ID }

// ScratchRecord returns the transient import working state; catalogs carry none.
func (c *Catalog) ScratchRecord() *ImportScratch { return nil }

// StripScratch discards the transient import state; catalogs carry none.
func (c *Catalog) StripScratch() {}

// Category represents a catalog hierarchy node imported from the source
// system. Its natural key is the source category ID scoped to a catalog.
type Category struct {
	CatalogItemBase
	Scratch *ImportScratch `gorm:"-" json:"-"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a category draft from source core fields. The draft
// carries an empty scratch record ready to accumulate associations.
func NewCategory(catalogName, name, displayName string) *Category {
	id := CategoryID(catalogName, name)
	return &Category{
		CatalogItemBase: CatalogItemBase{
			ID:          id,
			FriendlyID:  CategoryFriendlyID(catalogName, name),
			SurrogateID: SurrogateID(id),
			Name:        name,
			DisplayName: displayName,
			Memberships: []string{ListCategories, ListCatalogItems},
		},
		Scratch: NewImportScratch(),
	}
}

// Base returns the shared catalog item fields.
func (c *Category) Base() *CatalogItemBase { return &c.CatalogItemBase }

// Kind returns the item kind.
func (c *Category) Kind() ItemKind { return ItemKindCategory }

// IdentityKey returns the natural-key value identity comparison runs on.
func (c *Category) IdentityKey() string { return c.ID }

// ScratchRecord returns the transient import working state, nil once stripped.
func (c *Category) ScratchRecord() *ImportScratch { return c.Scratch }

// StripScratch discards the transient import state. It must be called before
// the draft is handed to persistence.
func (c *Category) StripScratch() { c.Scratch = nil }

// Price is a single list price in one currency.
type Price struct {
	CurrencyCode string          `json:"currency_code"`
	Amount       decimal.Decimal `json:"amount"`
}

// SellableItem represents a product imported from the source system. Its
// natural key is the source item number.
type SellableItem struct {
	CatalogItemBase
	ProductID  string         `gorm:"type:varchar(255);not null;index"`
	TypeOfGood string         `gorm:"type:varchar(100)"`
	ListPrices []Price        `gorm:"serializer:json;type:jsonb"`
	Images     []string       `gorm:"serializer:json;type:jsonb"`
	Scratch    *ImportScratch `gorm:"-" json:"-"`
}

// TableName returns the table name for GORM
func (SellableItem) TableName() string {
	return "sellable_items"
}

// NewSellableItem creates a sellable item draft from source core fields.
func NewSellableItem(productID, name, displayName, typeOfGood string) *SellableItem {
	id := SellableItemID(productID)
	return &SellableItem{
		CatalogItemBase: CatalogItemBase{
			ID:          id,
			FriendlyID:  productID,
			SurrogateID: SurrogateID(id),
			Name:        name,
			DisplayName: displayName,
			Memberships: []string{ListSellableItems, ListCatalogItems},
		},
		ProductID: productID,
		Scratch:   NewImportScratch(),
	}
}

// AddListPrice appends a list price for the given currency.
func (s *SellableItem) AddListPrice(currencyCode string, amount decimal.Decimal) {
	s.ListPrices = append(s.ListPrices, Price{CurrencyCode: currencyCode, Amount: amount})
}

// Base returns the shared catalog item fields.
func (s *SellableItem) Base() *CatalogItemBase { return &s.CatalogItemBase }

// Kind returns the item kind.
func (s *SellableItem) Kind() ItemKind { return ItemKindSellableItem }

// IdentityKey returns the natural-key value identity comparison runs on.
func (s *SellableItem) IdentityKey() string { return s.ProductID }

// ScratchRecord returns the transient import working state, nil once stripped.
func (s *SellableItem) ScratchRecord() *ImportScratch { return s.Scratch }

// StripScratch discards the transient import state. It must be called before
// the draft is handed to persistence.
func (s *SellableItem) StripScratch() { s.Scratch = nil }
