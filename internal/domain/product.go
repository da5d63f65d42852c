package domain

// Product is catalog reference data. Products are looked up by ID and
// copied into shopping list items.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Category string `json:"category"`
	Brand    string `json:"brand,omitempty"`
}

// Store represents a retailer the catalog is priced against
type Store struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LogoURL  string `json:"logoUrl,omitempty"`
	ColorHex string `json:"colorHex,omitempty"`
}

// PriceEntry is the price of one product at one store
type PriceEntry struct {
	Price   float64 `json:"price"`
	IsPromo bool    `json:"isPromo"`
	InStock bool    `json:"inStock"`
}

// PriceTable maps product ID -> store ID -> price entry.
// A missing entry means the store does not carry the product.
type PriceTable map[string]map[string]PriceEntry

// Lookup returns the entry for a product at a store and whether one exists
func (t PriceTable) Lookup(productID, storeID string) (PriceEntry, bool) {
	byStore, ok := t[productID]
	if !ok {
		return PriceEntry{}, false
	}
	entry, ok := byStore[storeID]
	return entry, ok
}

// Set stores an entry, creating the product row if needed
func (t PriceTable) Set(productID, storeID string, entry PriceEntry) {
	byStore, ok := t[productID]
	if !ok {
		byStore = make(map[string]PriceEntry)
		t[productID] = byStore
	}
	byStore[storeID] = entry
}

// Clone returns a deep copy of the table
func (t PriceTable) Clone() PriceTable {
	out := make(PriceTable, len(t))
	for productID, byStore := range t {
		row := make(map[string]PriceEntry, len(byStore))
		for storeID, entry := range byStore {
			row[storeID] = entry
		}
		out[productID] = row
	}
	return out
}

// PriceInput is an admin edit of a single store price
type PriceInput struct {
	Price   float64 `json:"price"`
	IsPromo bool    `json:"isPromo"`
	InStock *bool   `json:"inStock,omitempty"` // nil means in stock
}

// PriceRange holds the cheapest and dearest in-stock price for a product
type PriceRange struct {
	ProductID string  `json:"productId"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// PriceChange is emitted whenever an admin edit stores a price entry
type PriceChange struct {
	ProductID string     `json:"productId"`
	StoreID   string     `json:"storeId"`
	Entry     PriceEntry `json:"entry"`
	ChangedAt int64      `json:"changedAt"` // unix millis
}
