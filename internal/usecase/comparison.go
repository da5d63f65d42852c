package usecase

import (
	"cmp"
	"math"
	"slices"

	"github.com/kazen/backend/internal/domain"
)

// Compare prices a shopping list at every store and ranks the stores by
// total, cheapest first. Only in-stock entries count towards a total;
// missing and out-of-stock entries stay in the item lines so they can be
// shown as unavailable. Ties keep the order of stores.
//
// Compare has no side effects and never fails. An empty list yields an
// empty result.
func Compare(list []domain.ShoppingListItem, stores []domain.Store, prices domain.PriceTable) []domain.StoreComparison {
	if len(list) == 0 {
		return []domain.StoreComparison{}
	}

	comparisons := make([]domain.StoreComparison, 0, len(stores))
	for _, store := range stores {
		comparisons = append(comparisons, priceAtStore(list, store, prices))
	}

	slices.SortStableFunc(comparisons, func(a, b domain.StoreComparison) int {
		return cmp.Compare(a.Total, b.Total)
	})

	return comparisons
}

// priceAtStore builds one store's comparison
func priceAtStore(list []domain.ShoppingListItem, store domain.Store, prices domain.PriceTable) domain.StoreComparison {
	result := domain.StoreComparison{
		Store: store,
		Items: make([]domain.PriceLine, 0, len(list)),
	}

	for _, item := range list {
		line := domain.PriceLine{
			Product:  item.Product,
			Quantity: item.Quantity,
		}

		if entry, ok := prices.Lookup(item.ProductID, store.ID); ok {
			line.Carried = true
			line.Price = entry.Price
			line.InStock = entry.InStock
			line.IsPromo = entry.IsPromo
			if entry.InStock {
				line.LineTotal = entry.Price * float64(item.Quantity)
				result.Total += line.LineTotal
			}
		}

		result.Items = append(result.Items, line)
	}

	return result
}

// Summarize picks the cheapest and most expensive store of a ranking
// produced by Compare and computes the savings between them.
//
// Under PolicyCompat the first and last elements are used as-is, so a
// store with no in-stock items (total 0) is named cheapest. Under
// PolicyPricedOnly stores with no priced item are skipped; if none remain
// the summary is empty.
func Summarize(ranked []domain.StoreComparison, policy domain.CheapestPolicy) domain.ComparisonSummary {
	summary := domain.ComparisonSummary{Policy: policy}

	candidates := ranked
	if policy == domain.PolicyPricedOnly {
		candidates = make([]domain.StoreComparison, 0, len(ranked))
		for _, c := range ranked {
			if c.PricedItems() > 0 {
				candidates = append(candidates, c)
			}
		}
	}

	if len(candidates) == 0 {
		return summary
	}

	cheapest := candidates[0]
	expensive := candidates[len(candidates)-1]

	summary.CheapestStoreID = cheapest.Store.ID
	summary.ExpensiveStoreID = expensive.Store.ID
	summary.CheapestTotal = cheapest.Total
	summary.ExpensiveTotal = expensive.Total
	summary.Savings = Savings(cheapest.Total, expensive.Total)
	summary.SavingsPercent = SavingsPercentage(cheapest.Total, expensive.Total)

	return summary
}

// Savings returns expensive - cheapest
func Savings(cheapest, expensive float64) float64 {
	return expensive - cheapest
}

// SavingsPercentage returns the rounded share of expensive saved by
// buying at cheapest. It is 0 when expensive is 0.
func SavingsPercentage(cheapest, expensive float64) float64 {
	if expensive == 0 {
		return 0
	}
	return math.Round((expensive - cheapest) / expensive * 100)
}
