package catalog

import (
	"fmt"
	"net/url"
	"strconv"
)

// Sizes is the fixed size/variant set products are sold in
var Sizes = []string{
	"20L", "4L", "1L", "200ML", "100ML", "50ML", "5L", "1/2L", "3L", "0.75L",
	"0.25L", "0.63L", "0.5L", "30KG", "25KG", "20KG", "5KG", "1KG", "0.5KG",
	"1\"", "11\"", "0.75\"", "150", "200", "250", "300", "350", "400",
}

// ValidSize reports whether size belongs to the variant set
func ValidSize(size string) bool {
	for _, s := range Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Product represents a catalog product
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Size        string  `json:"size"`
	Price       float64 `json:"price"`
	StockAmount int     `json:"stock_amount"`
	DateStocked Date    `json:"date_stocked"`
	ExpiryDate  Date    `json:"expiry_date"`
}

// ProductDraft carries the fields for creating a product
type ProductDraft struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Size        string  `json:"size"`
	Price       float64 `json:"price"`
	StockAmount int     `json:"stock_amount"`
	DateStocked Date    `json:"date_stocked"`
	ExpiryDate  Date    `json:"expiry_date"`
}

// Validate checks the draft before submission
func (d ProductDraft) Validate() error {
	if d.Name == "" {
		return &ValidationError{Field: "name", Message: "product name is required"}
	}
	if d.Category == "" {
		return &ValidationError{Field: "category", Message: "category is required"}
	}
	if d.Size == "" {
		return &ValidationError{Field: "size", Message: "size is required"}
	}
	if d.Price < 0 {
		return &ValidationError{Field: "price", Message: "price cannot be negative"}
	}
	if d.StockAmount < 0 {
		return &ValidationError{Field: "stock_amount", Message: "stock cannot be negative"}
	}
	if d.DateStocked.IsZero() {
		return &ValidationError{Field: "date_stocked", Message: "date stocked is required"}
	}
	return nil
}

// ProductPatch carries a partial product update; nil fields stay untouched
type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Size        *string  `json:"size,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	StockAmount *int     `json:"stock_amount,omitempty"`
	ExpiryDate  *Date    `json:"expiry_date,omitempty"`
}

// Sale represents a recorded sale
type Sale struct {
	ID           int     `json:"id"`
	ProductID    int     `json:"product_id"`
	QuantitySold int     `json:"quantity_sold"`
	SalePrice    float64 `json:"sale_price"`
	SaleDate     Date    `json:"sale_date"`
}

// LineTotal returns the sale amount, derived on read and never stored
func (s Sale) LineTotal() float64 {
	return float64(s.QuantitySold) * s.SalePrice
}

// SaleDraft carries the fields for recording a sale
type SaleDraft struct {
	ProductID    int     `json:"product_id"`
	QuantitySold int     `json:"quantity_sold"`
	SalePrice    float64 `json:"sale_price"`
	SaleDate     Date    `json:"sale_date"`
}

// Validate checks the draft before submission
func (d SaleDraft) Validate() error {
	if d.ProductID <= 0 {
		return &ValidationError{Field: "product_id", Message: "product is required"}
	}
	if d.QuantitySold <= 0 {
		return &ValidationError{Field: "quantity_sold", Message: "quantity must be a positive integer"}
	}
	if d.SalePrice < 0 {
		return &ValidationError{Field: "sale_price", Message: "sale price cannot be negative"}
	}
	if d.SaleDate.IsZero() {
		return &ValidationError{Field: "sale_date", Message: "sale date is required"}
	}
	return nil
}

// SalePatch carries a partial sale update; nil fields stay untouched
type SalePatch struct {
	QuantitySold *int     `json:"quantity_sold,omitempty"`
	SalePrice    *float64 `json:"sale_price,omitempty"`
	SaleDate     *Date    `json:"sale_date,omitempty"`
}

// Filter is a conjunction of optional product constraints. An unset field
// places no constraint on that dimension.
type Filter struct {
	Name     string
	Category string
	PriceMin *float64
	PriceMax *float64
}

// IsEmpty reports whether the filter constrains nothing
func (f Filter) IsEmpty() bool {
	return f.Name == "" && f.Category == "" && f.PriceMin == nil && f.PriceMax == nil
}

// Query encodes the filter as request parameters. Empty fields are elided
// entirely, so a cleared filter produces the same request as no filter.
func (f Filter) Query() url.Values {
	params := url.Values{}
	if f.Name != "" {
		params.Set("name", f.Name)
	}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.PriceMin != nil {
		params.Set("price_min", strconv.FormatFloat(*f.PriceMin, 'f', -1, 64))
	}
	if f.PriceMax != nil {
		params.Set("price_max", strconv.FormatFloat(*f.PriceMax, 'f', -1, 64))
	}
	return params
}

// Stats represents the precomputed dashboard summary. Fields missing from
// the response default to zero.
type Stats struct {
	TotalProducts int     `json:"total_products"`
	TotalStock    int     `json:"total_stock"`
	TotalSales    int     `json:"total_sales"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// DisplayName formats a product for sale rows, e.g. "Wood Glue (1L)"
func (p Product) DisplayName() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Size)
}
