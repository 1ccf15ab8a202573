// Package stub is an in-memory implementation of the backing catalog
// service. It exists for local development (cmd/stubserver) and as the test
// fixture for the client packages; it is not the production backend.
package stub

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/hardware-inventory/internal/catalog"
)

// Server holds the in-memory product and sale tables
type Server struct {
	mu            sync.Mutex
	products      map[int]catalog.Product
	sales         map[int]catalog.Sale
	nextProductID int
	nextSaleID    int
	now           func() time.Time
}

// New creates an empty stub server
func New() *Server {
	return &Server{
		products:      make(map[int]catalog.Product),
		sales:         make(map[int]catalog.Sale),
		nextProductID: 1,
		nextSaleID:    1,
		now:           time.Now,
	}
}

// SetNow overrides the clock used for expiry window queries
func (s *Server) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SeedProduct inserts a product, assigning its id, and returns the stored
// record.
func (s *Server) SeedProduct(p catalog.Product) catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextProductID
	s.nextProductID++
	s.products[p.ID] = p
	return p
}

// SeedSale inserts a sale without touching stock, assigning its id
func (s *Server) SeedSale(sale catalog.Sale) catalog.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale.ID = s.nextSaleID
	s.nextSaleID++
	s.sales[sale.ID] = sale
	return sale
}

// Product returns the stored product, for test inspection
func (s *Server) Product(id int) (catalog.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// SaleCount returns the number of stored sales
func (s *Server) SaleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

// Router builds the HTTP router with all endpoints under /api
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/products", s.listProducts).Methods("GET")
	api.HandleFunc("/products", s.createProduct).Methods("POST")
	api.HandleFunc("/products/expiry/closest", s.expiringProducts).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}", s.getProduct).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}", s.updateProduct).Methods("PUT")
	api.HandleFunc("/products/{id:[0-9]+}", s.deleteProduct).Methods("DELETE")

	api.HandleFunc("/sales", s.listSales).Methods("GET")
	api.HandleFunc("/sales", s.createSale).Methods("POST")
	api.HandleFunc("/sales/{id:[0-9]+}", s.getSale).Methods("GET")
	api.HandleFunc("/sales/{id:[0-9]+}", s.updateSale).Methods("PUT")
	api.HandleFunc("/sales/{id:[0-9]+}", s.deleteSale).Methods("DELETE")

	api.HandleFunc("/categories", s.listCategories).Methods("GET")
	api.HandleFunc("/dashboard/stats", s.dashboardStats).Methods("GET")
	api.HandleFunc("/health", s.health).Methods("GET")

	return router
}

func respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

// containsFold reports whether haystack contains needle, ignoring case
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	var priceMin, priceMax *float64
	if raw := r.URL.Query().Get("price_min"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			priceMin = &v
		}
	}
	if raw := r.URL.Query().Get("price_max"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			priceMax = &v
		}
	}

	s.mu.Lock()
	matched := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		if name != "" && !containsFold(p.Name, name) {
			continue
		}
		if category != "" && !containsFold(p.Category, category) {
			continue
		}
		if priceMin != nil && p.Price < *priceMin {
			continue
		}
		if priceMax != nil && p.Price > *priceMax {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.Unlock()

	// Closest expiry first, products without one last
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i].ExpiryDate, matched[j].ExpiryDate
		if a.IsZero() != b.IsZero() {
			return !a.IsZero()
		}
		if !a.Equal(b.Time) {
			return a.Before(b.Time)
		}
		return matched[i].ID < matched[j].ID
	})

	respondData(w, http.StatusOK, matched)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p, ok := s.products[pathID(r)]
	s.mu.Unlock()

	if !ok {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	respondData(w, http.StatusOK, p)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var draft catalog.ProductDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if draft.Name == "" || draft.Category == "" || draft.Size == "" || draft.DateStocked.IsZero() {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	s.mu.Lock()
	product := catalog.Product{
		ID:          s.nextProductID,
		Name:        draft.Name,
		Category:    draft.Category,
		Size:        draft.Size,
		Price:       draft.Price,
		StockAmount: draft.StockAmount,
		DateStocked: draft.DateStocked,
		ExpiryDate:  draft.ExpiryDate,
	}
	s.nextProductID++
	s.products[product.ID] = product
	s.mu.Unlock()

	respondData(w, http.StatusCreated, product)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var patch catalog.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[pathID(r)]
	if !ok {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Size != nil {
		p.Size = *patch.Size
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.StockAmount != nil {
		p.StockAmount = *patch.StockAmount
	}
	if patch.ExpiryDate != nil {
		p.ExpiryDate = *patch.ExpiryDate
	}
	s.products[p.ID] = p

	respondData(w, http.StatusOK, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := pathID(r)
	if _, ok := s.products[id]; !ok {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	delete(s.products, id)

	respondData(w, http.StatusOK, nil)
}

func (s *Server) expiringProducts(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			days = v
		}
	}

	s.mu.Lock()
	today := catalog.DateOf(s.now())
	limit := today.AddDays(days)
	matched := make([]catalog.Product, 0)
	for _, p := range s.products {
		if p.ExpiryDate.IsZero() {
			continue
		}
		if p.ExpiryDate.Before(today.Time) || p.ExpiryDate.After(limit.Time) {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].ExpiryDate.Equal(matched[j].ExpiryDate.Time) {
			return matched[i].ExpiryDate.Before(matched[j].ExpiryDate.Time)
		}
		return matched[i].ID < matched[j].ID
	})

	respondData(w, http.StatusOK, matched)
}

func (s *Server) listSales(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sales := make([]catalog.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		sales = append(sales, sale)
	}
	s.mu.Unlock()

	// Most recent sale first
	sort.Slice(sales, func(i, j int) bool {
		if !sales[i].SaleDate.Equal(sales[j].SaleDate.Time) {
			return sales[i].SaleDate.After(sales[j].SaleDate.Time)
		}
		return sales[i].ID > sales[j].ID
	})

	respondData(w, http.StatusOK, sales)
}

func (s *Server) getSale(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sale, ok := s.sales[pathID(r)]
	s.mu.Unlock()

	if !ok {
		respondError(w, http.StatusNotFound, "Sale not found")
		return
	}
	respondData(w, http.StatusOK, sale)
}

func (s *Server) createSale(w http.ResponseWriter, r *http.Request) {
	var draft catalog.SaleDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if draft.ProductID == 0 || draft.QuantitySold == 0 || draft.SaleDate.IsZero() {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[draft.ProductID]
	if !ok {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if product.StockAmount < draft.QuantitySold {
		respondError(w, http.StatusBadRequest, "Insufficient stock")
		return
	}

	sale := catalog.Sale{
		ID:           s.nextSaleID,
		ProductID:    draft.ProductID,
		QuantitySold: draft.QuantitySold,
		SalePrice:    draft.SalePrice,
		SaleDate:     draft.SaleDate,
	}
	s.nextSaleID++
	s.sales[sale.ID] = sale

	product.StockAmount -= draft.QuantitySold
	s.products[product.ID] = product

	respondData(w, http.StatusCreated, sale)
}

func (s *Server) updateSale(w http.ResponseWriter, r *http.Request) {
	var patch catalog.SalePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.sales[pathID(r)]
	if !ok {
		respondError(w, http.StatusNotFound, "Sale not found")
		return
	}

	// A quantity change adjusts product stock by the difference
	if patch.QuantitySold != nil && *patch.QuantitySold != sale.QuantitySold {
		diff := *patch.QuantitySold - sale.QuantitySold
		product, ok := s.products[sale.ProductID]
		if ok {
			if product.StockAmount < diff {
				respondError(w, http.StatusBadRequest, "Insufficient stock for this adjustment")
				return
			}
			product.StockAmount -= diff
			s.products[product.ID] = product
		}
		sale.QuantitySold = *patch.QuantitySold
	}
	if patch.SalePrice != nil {
		sale.SalePrice = *patch.SalePrice
	}
	if patch.SaleDate != nil {
		sale.SaleDate = *patch.SaleDate
	}
	s.sales[sale.ID] = sale

	respondData(w, http.StatusOK, sale)
}

func (s *Server) deleteSale(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := pathID(r)
	sale, ok := s.sales[id]
	if !ok {
		respondError(w, http.StatusNotFound, "Sale not found")
		return
	}

	// Deleting a sale restores the product stock
	if product, ok := s.products[sale.ProductID]; ok {
		product.StockAmount += sale.QuantitySold
		s.products[product.ID] = product
	}
	delete(s.sales, id)

	respondData(w, http.StatusOK, nil)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	seen := make(map[string]bool)
	for _, p := range s.products {
		if p.Category != "" {
			seen[p.Category] = true
		}
	}
	s.mu.Unlock()

	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	respondData(w, http.StatusOK, categories)
}

func (s *Server) dashboardStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := catalog.Stats{
		TotalProducts: len(s.products),
		TotalSales:    len(s.sales),
	}
	for _, p := range s.products {
		stats.TotalStock += p.StockAmount
	}
	for _, sale := range s.sales {
		stats.TotalRevenue += sale.LineTotal()
	}
	s.mu.Unlock()

	respondData(w, http.StatusOK, stats)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "Backend is running",
	})
}
