package domain

import "time"

type ClientEventKind string

const (
	EventProductViewed ClientEventKind = "product_viewed"
	EventAddedToCart   ClientEventKind = "added_to_cart"
	EventBoughtNow     ClientEventKind = "bought_now"
)

// A ClientEvent is a storefront interaction reported for analytics.
type ClientEvent struct {
	Kind      ClientEventKind
	Username  string
	ProductID string
	SKUID     string
	Quantity  int
	Price     Money
	At        time.Time
}
