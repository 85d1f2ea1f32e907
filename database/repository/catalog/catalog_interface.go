package catalogRepo

import "classhub/models"

// CatalogRepository defines read-only access to catalog reference data.
// Items and variants are immutable from the booking engine's point of view;
// the implementation may cache them aggressively.
type CatalogRepository interface {
	// GetItem retrieves a catalog item (with its variants) by ID. Returns
	// (nil, nil) when absent.
	GetItem(id string) (*models.CatalogItem, error)
	// GetItemsByService retrieves all catalog items for a service, in their
	// configured order.
	GetItemsByService(serviceID string) ([]models.CatalogItem, error)
}
