package shopapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/niksmo/cloudshop/internal/core/port"
	"github.com/niksmo/cloudshop/pkg/richtext"
)

var _ port.Catalog = (*Client)(nil)

const (
	goodsListPath = "/goods/api/goods/list"
	goodsByIDPath = "/goods/api/goods/id/"
)

func (c Client) ListProducts(ctx context.Context) ([]domain.ProductSummary, error) {
	const op = "Client.ListProducts"

	res, err := c.do(ctx, request{method: http.MethodGet, path: goodsListPath})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dtos, err := decodeData[[]productSummaryDTO](res.envelope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps := make([]domain.ProductSummary, len(dtos))
	for i, d := range dtos {
		ps[i] = domain.ProductSummary{
			ID:      string(d.ID),
			Name:    d.Name,
			Caption: d.Caption,
			Image:   d.Image,
		}
	}
	return ps, nil
}

func (c Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	const op = "Client.GetProduct"

	res, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   goodsByIDPath + url.PathEscape(id),
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	dto, err := decodeData[productDetailDTO](res.envelope)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	return toDomainProduct(dto), nil
}

// toDomainProduct degrades malformed spec fields to empty structures.
func toDomainProduct(dto productDetailDTO) domain.Product {
	const op = "shopapi.toDomainProduct"
	log := slog.With("op", op, "productID", string(dto.SPU.ID))

	specItems, err := DecodeSpecItems(string(dto.SPU.SpecItems))
	if err != nil {
		log.Warn("failed to decode spec items", "err", err)
		specItems = nil
	}

	p := domain.Product{
		ID:           string(dto.SPU.ID),
		Name:         dto.SPU.Name,
		Caption:      dto.SPU.Caption,
		Introduction: dto.SPU.Introduction,
		SN:           dto.SPU.SN,
		SaleNum:      dto.SPU.SaleNum,
		CommentNum:   dto.SPU.CommentNum,
		SpecItems:    specItems,
		Images:       richtext.ExtractImages(dto.SPU.Introduction),
	}

	p.SKUs = make([]domain.SKU, len(dto.SKUs))
	for i, s := range dto.SKUs {
		spec, err := DecodeSKUSpec(string(s.Spec))
		if err != nil {
			log.Warn("failed to decode sku spec", "skuID", string(s.ID), "err", err)
			spec = map[string]string{}
		}
		p.SKUs[i] = domain.SKU{
			ID:    string(s.ID),
			Name:  s.Name,
			Brand: s.BrandName,
			Image: s.Image,
			Spec:  spec,
			Price: domain.Money(s.Price),
			Stock: s.Num,
		}
	}
	return p
}
