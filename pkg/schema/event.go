package schema

import "time"

const ClientEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "cloudshop.events",
	"name": "client_event",
	"fields" : [
		{"name": "kind", "type": "string"},
		{"name": "username", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "sku_id", "type": "string"},
		{"name": "quantity", "type": "int"},
		{"name": "price_minor", "type": "long"},
		{"name": "at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

// ClientEventV1 is a storefront interaction. Username is empty for
// anonymous visitors, SKUID for a product view.
type ClientEventV1 struct {
	Kind       string    `avro:"kind"`
	Username   string    `avro:"username"`
	ProductID  string    `avro:"product_id"`
	SKUID      string    `avro:"sku_id"`
	Quantity   int       `avro:"quantity"`
	PriceMinor int64     `avro:"price_minor"`
	At         time.Time `avro:"at"`
}
