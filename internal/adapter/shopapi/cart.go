package shopapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/niksmo/cloudshop/internal/core/port"
)

var _ port.Carts = (*Client)(nil)

const (
	cartListPath   = "/cart/api/cart/list"
	cartUpdatePath = "/cart/api/cart/update"
	cartDeletePath = "/cart/api/cart/delete"
)

func (c Client) ListCart(ctx context.Context, token string) (domain.Cart, error) {
	const op = "Client.ListCart"

	res, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   cartListPath,
		token:  token,
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	dtos, err := decodeData[[]cartItemDTO](res.envelope)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	cart := domain.Cart{Items: make([]domain.CartItem, len(dtos))}
	for i, d := range dtos {
		cart.Items[i] = domain.CartItem{
			SKUID:    string(d.SKUID),
			SKUName:  d.SKUName,
			Spec:     string(d.Spec),
			Image:    d.Image,
			Price:    domain.Money(d.Price),
			Quantity: d.Quantity,
		}
	}
	return cart, nil
}

func (c Client) UpdateCart(
	ctx context.Context, token, skuID string, quantity int,
) error {
	const op = "Client.UpdateCart"

	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   cartUpdatePath,
		token:  token,
		body:   cartUpdateRequest{SKUID: skuID, Quantity: quantity},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c Client) DeleteCartItem(ctx context.Context, token, skuID string) error {
	const op = "Client.DeleteCartItem"

	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   cartDeletePath,
		token:  token,
		body:   cartDeleteRequest{SKUID: skuID},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
