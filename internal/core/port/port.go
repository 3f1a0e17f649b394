package port

import (
	"context"

	"github.com/niksmo/cloudshop/internal/core/domain"
)

type Catalog interface {
	ListProducts(context.Context) ([]domain.ProductSummary, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

type Categories interface {
	// ListCategories returns the children of parentID, the root categories
	// when parentID is empty.
	ListCategories(ctx context.Context, parentID string) ([]domain.Category, error)
}

type Users interface {
	Login(context.Context, domain.Credentials) (token string, err error)
	Register(context.Context, domain.Registration) error
	Info(ctx context.Context, token string) (domain.User, error)
}

type Carts interface {
	ListCart(ctx context.Context, token string) (domain.Cart, error)
	UpdateCart(ctx context.Context, token, skuID string, quantity int) error
	DeleteCartItem(ctx context.Context, token, skuID string) error
}

type ProductCache interface {
	GetProduct(ctx context.Context, id string) (domain.Product, bool, error)
	PutProduct(ctx context.Context, p domain.Product) error
}

type SessionStore interface {
	Load() (domain.Session, error)
	Save(domain.Session) error
	Delete() error
}

type EventsPublisher interface {
	Publish(context.Context, domain.ClientEvent) error
}
