package memory

import "github.com/kazen/backend/internal/domain"

// Demo reference data. Kero Talatona is the cheapest store for every product.

// SeedProducts returns the demo product catalog
func SeedProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Picanha Fresca", ImageURL: "/images/picanha.png", Category: "Churrasco", Brand: "Premium"},
		{ID: "2", Name: "Frango Inteiro", ImageURL: "/images/frango_inteiro.png", Category: "Churrasco", Brand: "Natural"},
		{ID: "3", Name: "Costela de Vaca", ImageURL: "/images/costela.png", Category: "Churrasco", Brand: "Premium"},
		{ID: "4", Name: "Linguiça Toscana", ImageURL: "/images/linguica_toscana.png", Category: "Churrasco", Brand: "Tradicional"},
		{ID: "5", Name: "Carne Moída", ImageURL: "/images/carne_moida.png", Category: "Churrasco", Brand: "Premium"},
		{ID: "6", Name: "Hambúrguer Artesanal", ImageURL: "/images/hamburger.png", Category: "Churrasco", Brand: "Gourmet"},
		{ID: "7", Name: "Espetinhos de Frango", ImageURL: "/images/espetinhos_de_frango.png", Category: "Churrasco", Brand: "Natural"},
		{ID: "8", Name: "Salsicha Premium", ImageURL: "/images/salsichas.png", Category: "Churrasco", Brand: "Tradicional"},
		{ID: "9", Name: "Bacon Defumado", ImageURL: "/images/bacon.png", Category: "Churrasco", Brand: "Premium"},
		{ID: "10", Name: "Alcatra", ImageURL: "/images/alcatra.png", Category: "Churrasco", Brand: "Premium"},
	}
}

// SeedStores returns the demo store directory
func SeedStores() []domain.Store {
	return []domain.Store{
		{ID: "store-1", Name: "Kero Talatona", LogoURL: "/images/stores/kero.png", ColorHex: "#14B8A6"},
		{ID: "store-2", Name: "Shoprite", LogoURL: "/images/stores/shoprite.png", ColorHex: "#EF4444"},
		{ID: "store-3", Name: "Continente", LogoURL: "/images/stores/continente.png", ColorHex: "#3B82F6"},
	}
}

// SeedPrices returns the demo price table
func SeedPrices() domain.PriceTable {
	return domain.PriceTable{
		"1": {
			"store-1": {Price: 8500, IsPromo: true, InStock: true},
			"store-2": {Price: 12000, InStock: true},
			"store-3": {Price: 10500, InStock: true},
		},
		"2": {
			"store-1": {Price: 3200, InStock: true},
			"store-2": {Price: 4500, InStock: true},
			"store-3": {Price: 3800, InStock: true},
		},
		"3": {
			"store-1": {Price: 6800, IsPromo: true, InStock: true},
			"store-2": {Price: 9500, InStock: true},
			"store-3": {Price: 8200, InStock: true},
		},
		"4": {
			"store-1": {Price: 1800, InStock: true},
			"store-2": {Price: 2500, InStock: true},
			"store-3": {Price: 2200, InStock: true},
		},
		"5": {
			"store-1": {Price: 4200, InStock: true},
			"store-2": {Price: 5800, InStock: true},
			"store-3": {Price: 5000, InStock: true},
		},
		"6": {
			"store-1": {Price: 1500, IsPromo: true, InStock: true},
			"store-2": {Price: 2200, InStock: true},
			"store-3": {Price: 1900, InStock: true},
		},
		"7": {
			"store-1": {Price: 2800, InStock: true},
			"store-2": {Price: 3800, InStock: true},
			"store-3": {Price: 3200, InStock: true},
		},
		"8": {
			"store-1": {Price: 1200, InStock: true},
			"store-2": {Price: 1800, InStock: true},
			"store-3": {Price: 1500, InStock: true},
		},
		"9": {
			"store-1": {Price: 5500, IsPromo: true, InStock: true},
			"store-2": {Price: 7500, InStock: true},
			"store-3": {Price: 6500, InStock: true},
		},
		"10": {
			"store-1": {Price: 7200, InStock: true},
			"store-2": {Price: 9800, InStock: true},
			"store-3": {Price: 8500, InStock: true},
		},
	}
}

// NewDemoCatalog returns a catalog loaded with the demo data
func NewDemoCatalog() *Catalog {
	return NewSeededCatalog(SeedProducts(), SeedStores(), SeedPrices())
}
