package booking

import (
	catalogRepo "classhub/database/repository/catalog"
	"classhub/errs"
	"classhub/models"
)

// ResolveLineItems prices the requested selections against the catalog and
// checks the subject's age against each item's minimum. It is a pure
// function over the catalog snapshot: no side effects, no clock.
//
// A missing item or variant fails with NotFound. Age violations are
// collected across the whole list and reported together in one
// IneligibleItemError, so the caller can fix every offending choice at once.
// When a variant is selected its price overrides the item's base price.
func ResolveLineItems(subjectAge int, selections []models.LineItemSelection, catalog catalogRepo.CatalogRepository) ([]models.BookingLineItem, float64, error) {
	items := make([]models.BookingLineItem, 0, len(selections))
	var ineligible []string
	var total float64

	for _, sel := range selections {
		if sel.CatalogItemID == "" {
			return nil, 0, errs.NewValidationError("line item is missing a catalog item id")
		}

		item, err := catalog.GetItem(sel.CatalogItemID)
		if err != nil {
			return nil, 0, err
		}
		if item == nil {
			return nil, 0, errs.NewNotFoundError("catalog item", sel.CatalogItemID)
		}

		if item.MinAge > subjectAge {
			ineligible = append(ineligible, item.Name)
			continue
		}

		price := item.Price
		if sel.VariantID != "" {
			variant := item.Variant(sel.VariantID)
			if variant == nil {
				return nil, 0, errs.NewNotFoundError("catalog variant", sel.VariantID)
			}
			price = variant.Price
		}

		items = append(items, models.BookingLineItem{
			CatalogItemID: item.ID,
			VariantID:     sel.VariantID,
			Name:          item.Name,
			UnitPrice:     price,
		})
		total += price
	}

	if len(ineligible) > 0 {
		return nil, 0, &errs.IneligibleItemError{ItemNames: ineligible}
	}
	return items, total, nil
}
