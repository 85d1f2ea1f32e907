package booking

import (
	"testing"

	"classhub/errs"
	"classhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricingCatalog() *fakeCatalogRepo {
	return &fakeCatalogRepo{items: map[string]*models.CatalogItem{
		"art":   {ID: "art", Name: "Art supplies", Price: 10},
		"lunch": {ID: "lunch", Name: "Lunch", Price: 7.5},
		"climb": {ID: "climb", Name: "Climbing session", Price: 25, MinAge: 10,
			Variants: []models.CatalogVariant{{ID: "climb-pro", Name: "With instructor", Price: 40}}},
		"kayak": {ID: "kayak", Name: "Kayaking", Price: 30, MinAge: 12},
	}}
}

func TestResolveLineItemsSumsBasePrices(t *testing.T) {
	items, total, err := ResolveLineItems(9, []models.LineItemSelection{
		{CatalogItemID: "art"},
		{CatalogItemID: "lunch"},
	}, pricingCatalog())
	require.NoError(t, err)

	assert.Equal(t, 17.5, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Art supplies", items[0].Name)
	assert.Equal(t, 10.0, items[0].UnitPrice)
}

func TestResolveLineItemsVariantPriceOverridesBase(t *testing.T) {
	items, total, err := ResolveLineItems(14, []models.LineItemSelection{
		{CatalogItemID: "climb", VariantID: "climb-pro"},
	}, pricingCatalog())
	require.NoError(t, err)

	assert.Equal(t, 40.0, total)
	assert.Equal(t, "climb-pro", items[0].VariantID)
	assert.Equal(t, 40.0, items[0].UnitPrice)
}

func TestResolveLineItemsAgeAtMinimumIsEligible(t *testing.T) {
	_, total, err := ResolveLineItems(10, []models.LineItemSelection{
		{CatalogItemID: "climb"},
	}, pricingCatalog())
	require.NoError(t, err)
	assert.Equal(t, 25.0, total)
}

func TestResolveLineItemsCollectsEveryIneligibleItem(t *testing.T) {
	_, _, err := ResolveLineItems(9, []models.LineItemSelection{
		{CatalogItemID: "climb"},
		{CatalogItemID: "art"},
		{CatalogItemID: "kayak"},
	}, pricingCatalog())

	var ineligible *errs.IneligibleItemError
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, []string{"Climbing session", "Kayaking"}, ineligible.ItemNames)
}

func TestResolveLineItemsUnknownItem(t *testing.T) {
	_, _, err := ResolveLineItems(14, []models.LineItemSelection{
		{CatalogItemID: "nope"},
	}, pricingCatalog())

	var notFound *errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "catalog item", notFound.Resource)
}

func TestResolveLineItemsUnknownVariant(t *testing.T) {
	_, _, err := ResolveLineItems(14, []models.LineItemSelection{
		{CatalogItemID: "climb", VariantID: "nope"},
	}, pricingCatalog())

	var notFound *errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "catalog variant", notFound.Resource)
}

func TestResolveLineItemsBlankItemID(t *testing.T) {
	_, _, err := ResolveLineItems(14, []models.LineItemSelection{
		{CatalogItemID: ""},
	}, pricingCatalog())

	var validation *errs.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestResolveLineItemsEmptySelection(t *testing.T) {
	items, total, err := ResolveLineItems(14, nil, pricingCatalog())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}
