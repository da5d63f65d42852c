package domain

// MaxItemQuantity caps the quantity of a single list line
const MaxItemQuantity = 9999

// ShoppingListItem is one line of a shopping list. Quantity is always
// between 1 and MaxItemQuantity.
type ShoppingListItem struct {
	ProductID       string  `json:"productId"`
	Product         Product `json:"product"`
	Quantity        int     `json:"quantity"`
	SelectedStoreID string  `json:"selectedStoreId,omitempty"`
}

// ShoppingList is a snapshot of a stored list with its derived counters
type ShoppingList struct {
	ID         string             `json:"id"`
	Items      []ShoppingListItem `json:"items"`
	TotalItems int                `json:"totalItems"`
	ItemCount  int                `json:"itemCount"`
}

// ItemRequest is an ad-hoc list line posted by a client
type ItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// PriceLine is the price of one list item at one store
type PriceLine struct {
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Carried   bool    `json:"carried"`
	InStock   bool    `json:"inStock"`
	IsPromo   bool    `json:"isPromo"`
	LineTotal float64 `json:"lineTotal"`
}

// Available reports whether the line counts towards the store total
func (l PriceLine) Available() bool {
	return l.Carried && l.InStock
}

// StoreComparison is the derived cost of a shopping list at one store
type StoreComparison struct {
	Store Store       `json:"store"`
	Total float64     `json:"total"`
	Items []PriceLine `json:"items"`
}

// PricedItems counts the lines that contributed to Total
func (c StoreComparison) PricedItems() int {
	n := 0
	for _, line := range c.Items {
		if line.Available() {
			n++
		}
	}
	return n
}

// CheapestPolicy selects which comparisons may be named cheapest or most expensive
type CheapestPolicy string

const (
	// PolicyCompat takes the raw first and last elements of the ranking
	PolicyCompat CheapestPolicy = "compat"
	// PolicyPricedOnly ignores stores with no in-stock priced item
	PolicyPricedOnly CheapestPolicy = "priced-only"
)

// Valid reports whether p is a known policy
func (p CheapestPolicy) Valid() bool {
	return p == PolicyCompat || p == PolicyPricedOnly
}

// ComparisonSummary describes the best offer in a ranking
type ComparisonSummary struct {
	CheapestStoreID  string         `json:"cheapestStoreId,omitempty"`
	ExpensiveStoreID string         `json:"expensiveStoreId,omitempty"`
	CheapestTotal    float64        `json:"cheapestTotal"`
	ExpensiveTotal   float64        `json:"expensiveTotal"`
	Savings          float64        `json:"savings"`
	SavingsPercent   float64        `json:"savingsPercent"`
	Policy           CheapestPolicy `json:"policy"`
}

// ComparisonResult is what the comparison service hands to callers
type ComparisonResult struct {
	Comparisons []StoreComparison `json:"comparisons"`
	Summary     ComparisonSummary `json:"summary"`
}

// Quote is the checkout total of a list at a chosen store
type Quote struct {
	ListID string  `json:"listId"`
	Store  Store   `json:"store"`
	Total  float64 `json:"total"`
	Items  int     `json:"items"`
}
