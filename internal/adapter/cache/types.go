package cache

import "github.com/niksmo/cloudshop/internal/core/domain"

type (
	cachedProduct struct {
		ID           string       `json:"id"`
		Name         string       `json:"name"`
		Caption      string       `json:"caption"`
		Introduction string       `json:"introduction"`
		SN           string       `json:"sn"`
		SaleNum      int          `json:"sale_num"`
		CommentNum   int          `json:"comment_num"`
		SpecItems    []cachedAxis `json:"spec_items"`
		SKUs         []cachedSKU  `json:"skus"`
		Images       []string     `json:"images"`
	}

	cachedAxis struct {
		Name   string   `json:"name"`
		Values []string `json:"values"`
	}

	cachedSKU struct {
		ID    string            `json:"id"`
		Name  string            `json:"name"`
		Brand string            `json:"brand"`
		Image string            `json:"image"`
		Spec  map[string]string `json:"spec"`
		Price int64             `json:"price"`
		Stock int               `json:"stock"`
	}
)

func fromDomain(p domain.Product) (v cachedProduct) {
	v.ID = p.ID
	v.Name = p.Name
	v.Caption = p.Caption
	v.Introduction = p.Introduction
	v.SN = p.SN
	v.SaleNum = p.SaleNum
	v.CommentNum = p.CommentNum
	v.Images = p.Images

	v.SpecItems = make([]cachedAxis, len(p.SpecItems))
	for i, a := range p.SpecItems {
		v.SpecItems[i] = cachedAxis{Name: a.Name, Values: a.Values}
	}

	v.SKUs = make([]cachedSKU, len(p.SKUs))
	for i, s := range p.SKUs {
		v.SKUs[i] = cachedSKU{
			ID:    s.ID,
			Name:  s.Name,
			Brand: s.Brand,
			Image: s.Image,
			Spec:  s.Spec,
			Price: int64(s.Price),
			Stock: s.Stock,
		}
	}
	return
}

func (v cachedProduct) toDomain() (p domain.Product) {
	p.ID = v.ID
	p.Name = v.Name
	p.Caption = v.Caption
	p.Introduction = v.Introduction
	p.SN = v.SN
	p.SaleNum = v.SaleNum
	p.CommentNum = v.CommentNum
	p.Images = v.Images

	p.SpecItems = make([]domain.SpecAxis, len(v.SpecItems))
	for i, a := range v.SpecItems {
		p.SpecItems[i] = domain.SpecAxis{Name: a.Name, Values: a.Values}
	}

	p.SKUs = make([]domain.SKU, len(v.SKUs))
	for i, s := range v.SKUs {
		p.SKUs[i] = domain.SKU{
			ID:    s.ID,
			Name:  s.Name,
			Brand: s.Brand,
			Image: s.Image,
			Spec:  s.Spec,
			Price: domain.Money(s.Price),
			Stock: s.Stock,
		}
	}
	return
}
