package models

// CatalogVariant is a priced sub-option of a catalog item.
type CatalogVariant struct {
	ID    string  `bson:"id" json:"id"`
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// CatalogItem is a selectable add-on for a booking. Items are read-only
// reference data from the booking engine's point of view. MinAge of zero
// means no age restriction.
type CatalogItem struct {
	ID        string           `bson:"id" json:"id"`
	ServiceID string           `bson:"service_id" json:"serviceId"`
	Name      string           `bson:"name" json:"name"`
	Price     float64          `bson:"price" json:"price"`
	MinAge    int              `bson:"min_age" json:"minAge"`
	SortOrder int              `bson:"sort_order" json:"sortOrder"`
	Variants  []CatalogVariant `bson:"variants,omitempty" json:"variants,omitempty"`
}

// Variant returns the variant with the given ID, or nil if the item has no
// such variant.
func (i *CatalogItem) Variant(variantID string) *CatalogVariant {
	for idx := range i.Variants {
		if i.Variants[idx].ID == variantID {
			return &i.Variants[idx]
		}
	}
	return nil
}
