package shopapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/niksmo/cloudshop/internal/core/port"
)

var _ port.Categories = (*Client)(nil)

const categoryListPath = "/goods/api/category/list"

func (c Client) ListCategories(
	ctx context.Context, parentID string,
) ([]domain.Category, error) {
	const op = "Client.ListCategories"

	var query url.Values
	if parentID != "" {
		query = url.Values{"parentId": {parentID}}
	}

	res, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   categoryListPath,
		query:  query,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dtos, err := decodeData[[]categoryDTO](res.envelope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cs := make([]domain.Category, len(dtos))
	for i, d := range dtos {
		cs[i] = domain.Category{ID: string(d.ID), Name: d.Name}
	}
	return cs, nil
}
