package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleLineTotal(t *testing.T) {
	testCases := []struct {
		name     string
		quantity int
		price    float64
		expected float64
	}{
		{name: "typical sale", quantity: 3, price: 7.50, expected: 22.50},
		{name: "single unit", quantity: 1, price: 4.25, expected: 4.25},
		{name: "zero quantity", quantity: 0, price: 99.99, expected: 0},
		{name: "zero price", quantity: 10, price: 0, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sale := Sale{QuantitySold: tc.quantity, SalePrice: tc.price}
			assert.Equal(t, tc.expected, sale.LineTotal())
		})
	}
}

func TestFilterQueryElidesEmptyFields(t *testing.T) {
	// A cleared filter must produce the same request as no filter at all
	assert.Empty(t, Filter{}.Query().Encode())
	assert.True(t, Filter{}.IsEmpty())

	min, max := 5.0, 10.0
	filter := Filter{Category: "Paint", PriceMin: &min, PriceMax: &max}
	query := filter.Query()

	assert.False(t, filter.IsEmpty())
	assert.Equal(t, "Paint", query.Get("category"))
	assert.Equal(t, "5", query.Get("price_min"))
	assert.Equal(t, "10", query.Get("price_max"))
	// Name was not set, so the parameter must be absent entirely
	_, present := query["name"]
	assert.False(t, present)
}

func TestProductDraftValidate(t *testing.T) {
	valid := ProductDraft{
		Name:        "Wood Glue",
		Category:    "Adhesives",
		Size:        "1L",
		Price:       7.50,
		StockAmount: 40,
		DateStocked: NewDate(2026, time.March, 1),
	}
	require.NoError(t, valid.Validate())

	missingName := valid
	missingName.Name = ""
	assert.True(t, IsValidation(missingName.Validate()))

	negativePrice := valid
	negativePrice.Price = -1
	assert.True(t, IsValidation(negativePrice.Validate()))

	negativeStock := valid
	negativeStock.StockAmount = -5
	assert.True(t, IsValidation(negativeStock.Validate()))
}

func TestSaleDraftValidate(t *testing.T) {
	valid := SaleDraft{
		ProductID:    1,
		QuantitySold: 2,
		SalePrice:    7.50,
		SaleDate:     NewDate(2026, time.March, 1),
	}
	require.NoError(t, valid.Validate())

	testCases := []struct {
		name   string
		mutate func(*SaleDraft)
	}{
		{name: "missing product", mutate: func(d *SaleDraft) { d.ProductID = 0 }},
		{name: "zero quantity", mutate: func(d *SaleDraft) { d.QuantitySold = 0 }},
		{name: "negative quantity", mutate: func(d *SaleDraft) { d.QuantitySold = -3 }},
		{name: "negative price", mutate: func(d *SaleDraft) { d.SalePrice = -0.01 }},
		{name: "missing date", mutate: func(d *SaleDraft) { d.SaleDate = Date{} }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			draft := valid
			tc.mutate(&draft)
			err := draft.Validate()
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestDateJSON(t *testing.T) {
	product := Product{Name: "Nails", DateStocked: NewDate(2026, time.March, 1)}

	encoded, err := json.Marshal(product)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"date_stocked":"2026-03-01"`)
	// An unset expiry date crosses the wire as null, not as a zero time
	assert.Contains(t, string(encoded), `"expiry_date":null`)

	var decoded Product
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, product.DateStocked, decoded.DateStocked)
	assert.True(t, decoded.ExpiryDate.IsZero())
}

func TestValidSize(t *testing.T) {
	assert.True(t, ValidSize("1L"))
	assert.True(t, ValidSize("30KG"))
	assert.False(t, ValidSize("2 gallons"))
	assert.False(t, ValidSize(""))
}
