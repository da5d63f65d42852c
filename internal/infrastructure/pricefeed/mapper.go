package pricefeed

import (
	"strings"

	"github.com/kazen/backend/internal/domain"
)

// Availability values sent by the feed
const (
	AvailabilityInStock    = "in_stock"
	AvailabilityOutOfStock = "out_of_stock"
	AvailabilityUnknown    = "unknown"
)

type feedResponse struct {
	Prices     []feedPrice `json:"prices"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
}

type feedPrice struct {
	ProductID    string  `json:"productId"`
	StoreID      string  `json:"storeId"`
	Price        float64 `json:"price"`
	Promo        bool    `json:"promo"`
	Availability string  `json:"availability"`
}

// mapPrices converts feed rows into snapshots, dropping rows without ids.
// Unknown or missing availability is treated as in stock.
func mapPrices(rows []feedPrice) []domain.PriceSnapshot {
	out := make([]domain.PriceSnapshot, 0, len(rows))
	for _, row := range rows {
		productID := strings.TrimSpace(row.ProductID)
		storeID := strings.TrimSpace(row.StoreID)
		if productID == "" || storeID == "" {
			continue
		}
		out = append(out, domain.PriceSnapshot{
			ProductID: productID,
			StoreID:   storeID,
			Price:     row.Price,
			IsPromo:   row.Promo,
			InStock:   isInStock(row.Availability),
		})
	}
	return out
}

func isInStock(availability string) bool {
	return !strings.EqualFold(strings.TrimSpace(availability), AvailabilityOutOfStock)
}
