package events

import (
	"github.com/hamba/avro/v2"
	"github.com/kazen/backend/internal/domain"
)

// PriceChangedSchemaTextV1 is the avro schema of price change records
const PriceChangedSchemaTextV1 = `{
	"type": "record",
	"name": "PriceChangedV1",
	"namespace": "kazen.prices",
	"fields": [
		{"name": "product_id", "type": "string"},
		{"name": "store_id", "type": "string"},
		{"name": "price", "type": "double"},
		{"name": "is_promo", "type": "boolean"},
		{"name": "in_stock", "type": "boolean"},
		{"name": "changed_at", "type": "long"}
	]
}`

var priceChangedSchemaV1 = avro.MustParse(PriceChangedSchemaTextV1)

// PriceChangedV1 is the record written to the price topic
type PriceChangedV1 struct {
	ProductID string  `avro:"product_id"`
	StoreID   string  `avro:"store_id"`
	Price     float64 `avro:"price"`
	IsPromo   bool    `avro:"is_promo"`
	InStock   bool    `avro:"in_stock"`
	ChangedAt int64   `avro:"changed_at"`
}

func priceChangeToSchemaV1(c domain.PriceChange) (s PriceChangedV1) {
	s.ProductID = c.ProductID
	s.StoreID = c.StoreID
	s.Price = c.Entry.Price
	s.IsPromo = c.Entry.IsPromo
	s.InStock = c.Entry.InStock
	s.ChangedAt = c.ChangedAt
	return
}

// EncodePriceChange serializes a change as avro binary
func EncodePriceChange(c domain.PriceChange) ([]byte, error) {
	return avro.Marshal(priceChangedSchemaV1, priceChangeToSchemaV1(c))
}

// DecodePriceChange reverses EncodePriceChange
func DecodePriceChange(data []byte) (domain.PriceChange, error) {
	var s PriceChangedV1
	if err := avro.Unmarshal(priceChangedSchemaV1, data, &s); err != nil {
		return domain.PriceChange{}, err
	}
	return domain.PriceChange{
		ProductID: s.ProductID,
		StoreID:   s.StoreID,
		Entry: domain.PriceEntry{
			Price:   s.Price,
			IsPromo: s.IsPromo,
			InStock: s.InStock,
		},
		ChangedAt: s.ChangedAt,
	}, nil
}
