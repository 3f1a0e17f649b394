package domain

type (
	Category struct {
		ID   string
		Name string
	}

	CartItem struct {
		SKUID    string
		SKUName  string
		Spec     string
		Image    string
		Price    Money
		Quantity int
	}

	Cart struct {
		Items []CartItem
	}

	// A LineItem is a purchase request for a resolved SKU.
	LineItem struct {
		SKUID    string
		Quantity int
		Price    Money
	}

	// A Checkout is the result of buying a single line immediately.
	Checkout struct {
		Items []LineItem
		Total Money
	}
)

func (c Cart) Total() Money {
	var total Money
	for _, it := range c.Items {
		total += it.Price.Mul(it.Quantity)
	}
	return total
}

// Quantity returns the quantity of skuID already in the cart.
func (c Cart) Quantity(skuID string) int {
	for _, it := range c.Items {
		if it.SKUID == skuID {
			return it.Quantity
		}
	}
	return 0
}

func (l LineItem) Total() Money {
	return l.Price.Mul(l.Quantity)
}
