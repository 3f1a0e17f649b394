// Package service orchestrates the storefront use cases over the shop API,
// the product cache, the stored session and the client events stream.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/niksmo/cloudshop/internal/core/navigator"
	"github.com/niksmo/cloudshop/internal/core/port"
	"github.com/niksmo/cloudshop/internal/core/variant"
	"golang.org/x/sync/errgroup"
)

// Deps are the outbound ports of a [Storefront]. Cache and Events are
// optional.
type Deps struct {
	Catalog    port.Catalog
	Categories port.Categories
	Users      port.Users
	Carts      port.Carts
	Sessions   port.SessionStore
	Cache      port.ProductCache
	Events     port.EventsPublisher

	// PlaceholderImage replaces empty product card images.
	PlaceholderImage string

	Now func() time.Time
}

type Storefront struct {
	catalog          port.Catalog
	categories       port.Categories
	users            port.Users
	carts            port.Carts
	sessions         port.SessionStore
	cache            port.ProductCache
	events           port.EventsPublisher
	placeholderImage string
	now              func() time.Time
}

func New(d Deps) Storefront {
	if d.Now == nil {
		d.Now = time.Now
	}
	return Storefront{
		catalog:          d.Catalog,
		categories:       d.Categories,
		users:            d.Users,
		carts:            d.Carts,
		sessions:         d.Sessions,
		cache:            d.Cache,
		events:           d.Events,
		placeholderImage: d.PlaceholderImage,
		now:              d.Now,
	}
}

type HomePage struct {
	Products   []domain.ProductSummary
	Categories []domain.Category
}

// Home loads the product list and the root categories concurrently.
func (s Storefront) Home(ctx context.Context) (HomePage, error) {
	const op = "Storefront.Home"

	var page HomePage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, err := s.catalog.ListProducts(gctx)
		if err != nil {
			return err
		}
		page.Products = s.withPlaceholder(ps)
		return nil
	})
	g.Go(func() error {
		cs, err := s.categories.ListCategories(gctx, "")
		if err != nil {
			return err
		}
		page.Categories = cs
		return nil
	})
	if err := g.Wait(); err != nil {
		return HomePage{}, fmt.Errorf("%s: %w", op, err)
	}
	return page, nil
}

func (s Storefront) Products(ctx context.Context) ([]domain.ProductSummary, error) {
	const op = "Storefront.Products"

	ps, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.withPlaceholder(ps), nil
}

func (s Storefront) withPlaceholder(ps []domain.ProductSummary) []domain.ProductSummary {
	for i := range ps {
		if ps[i].Image == "" {
			ps[i].Image = s.placeholderImage
		}
	}
	return ps
}

// Navigator returns a category navigator starting at the root.
func (s Storefront) Navigator() *navigator.Navigator {
	return navigator.New(s.categories)
}

// OpenProduct loads the product and returns its initial variant state.
func (s Storefront) OpenProduct(
	ctx context.Context, sess domain.Session, id string,
) (variant.State, error) {
	const op = "Storefront.OpenProduct"
	log := slog.With("op", op, "productID", id)

	p, err := s.product(ctx, id)
	if err != nil {
		return variant.State{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := p.CheckIntegrity(); err != nil {
		log.Warn("inconsistent catalog data", "err", err)
	}

	s.publish(ctx, domain.ClientEvent{
		Kind:      domain.EventProductViewed,
		Username:  sess.User.Username,
		ProductID: p.ID,
	})

	return variant.New(p), nil
}

func (s Storefront) product(ctx context.Context, id string) (domain.Product, error) {
	const op = "Storefront.product"
	log := slog.With("op", op, "productID", id)

	if s.cache != nil {
		p, ok, err := s.cache.GetProduct(ctx, id)
		switch {
		case err != nil:
			log.Warn("product cache lookup failed", "err", err)
		case ok:
			log.Debug("product cache hit")
			return p, nil
		}
	}

	p, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if s.cache != nil {
		if err := s.cache.PutProduct(ctx, p); err != nil {
			log.Warn("failed to cache product", "err", err)
		}
	}
	return p, nil
}

// AddToCart adds quantity of the resolved SKU to the cart of the session.
// Nothing is sent when the selection cannot produce a line item.
func (s Storefront) AddToCart(
	ctx context.Context, sess domain.Session, st variant.State, quantity int,
) (domain.LineItem, error) {
	const op = "Storefront.AddToCart"

	li, err := st.LineItem(quantity)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := sess.Check(s.now()); err != nil {
		return domain.LineItem{}, fmt.Errorf("%s: %w", op, err)
	}

	cart, err := s.carts.ListCart(ctx, sess.Token)
	if err != nil {
		return domain.LineItem{}, s.authErr(op, err)
	}

	total := cart.Quantity(li.SKUID) + li.Quantity
	if sku, _ := st.Resolved(); total > sku.Stock {
		return domain.LineItem{}, fmt.Errorf(
			"%s: %w: %d in cart, %d left",
			op, domain.ErrOutOfStock, total-li.Quantity, sku.Stock,
		)
	}

	if err := s.carts.UpdateCart(ctx, sess.Token, li.SKUID, total); err != nil {
		return domain.LineItem{}, s.authErr(op, err)
	}

	s.publish(ctx, lineItemEvent(domain.EventAddedToCart, sess, st, li))
	return li, nil
}

// BuyNow puts exactly quantity of the resolved SKU into the cart and returns
// the checkout of that single line.
func (s Storefront) BuyNow(
	ctx context.Context, sess domain.Session, st variant.State, quantity int,
) (domain.Checkout, error) {
	const op = "Storefront.BuyNow"

	li, err := st.LineItem(quantity)
	if err != nil {
		return domain.Checkout{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := sess.Check(s.now()); err != nil {
		return domain.Checkout{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.carts.UpdateCart(ctx, sess.Token, li.SKUID, li.Quantity); err != nil {
		return domain.Checkout{}, s.authErr(op, err)
	}

	s.publish(ctx, lineItemEvent(domain.EventBoughtNow, sess, st, li))
	return domain.Checkout{
		Items: []domain.LineItem{li},
		Total: li.Total(),
	}, nil
}

func lineItemEvent(
	kind domain.ClientEventKind,
	sess domain.Session,
	st variant.State,
	li domain.LineItem,
) domain.ClientEvent {
	return domain.ClientEvent{
		Kind:      kind,
		Username:  sess.User.Username,
		ProductID: st.Product().ID,
		SKUID:     li.SKUID,
		Quantity:  li.Quantity,
		Price:     li.Price,
	}
}

func (s Storefront) Cart(ctx context.Context, sess domain.Session) (domain.Cart, error) {
	const op = "Storefront.Cart"

	if err := sess.Check(s.now()); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	cart, err := s.carts.ListCart(ctx, sess.Token)
	if err != nil {
		return domain.Cart{}, s.authErr(op, err)
	}
	return cart, nil
}

// UpdateQuantity sets the cart quantity of skuID, zero removes the line.
func (s Storefront) UpdateQuantity(
	ctx context.Context, sess domain.Session, skuID string, quantity int,
) error {
	const op = "Storefront.UpdateQuantity"

	if quantity < 0 {
		return fmt.Errorf("%s: %w: %d", op, domain.ErrInvalidQuantity, quantity)
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, sess, skuID)
	}
	if err := sess.Check(s.now()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.carts.UpdateCart(ctx, sess.Token, skuID, quantity); err != nil {
		return s.authErr(op, err)
	}
	return nil
}

func (s Storefront) RemoveItem(ctx context.Context, sess domain.Session, skuID string) error {
	const op = "Storefront.RemoveItem"

	if err := sess.Check(s.now()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.carts.DeleteCartItem(ctx, sess.Token, skuID); err != nil {
		return s.authErr(op, err)
	}
	return nil
}

// Login authenticates and stores the new session. The user profile is
// best effort: when it cannot be loaded the login identity is kept.
func (s Storefront) Login(
	ctx context.Context, creds domain.Credentials,
) (domain.Session, error) {
	const op = "Storefront.Login"
	log := slog.With("op", op)

	if err := creds.Validate(); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.users.Login(ctx, creds)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	sess := domain.NewSession(token)
	user, err := s.users.Info(ctx, token)
	if err != nil {
		log.Warn("failed to load user info", "err", err)
		user = domain.User{Username: creds.Username, Email: creds.Email}
	}
	sess.User = user

	if err := s.sessions.Save(sess); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("logged in", "username", user.Username)
	return sess, nil
}

func (s Storefront) Register(ctx context.Context, reg domain.Registration) error {
	const op = "Storefront.Register"

	if err := reg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.Register(ctx, reg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Storefront) Whoami(ctx context.Context, sess domain.Session) (domain.User, error) {
	const op = "Storefront.Whoami"

	if err := sess.Check(s.now()); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.Info(ctx, sess.Token)
	if err != nil {
		return domain.User{}, s.authErr(op, err)
	}
	return user, nil
}

// Session returns the stored session, anonymous when there is none.
func (s Storefront) Session() (domain.Session, error) {
	const op = "Storefront.Session"

	sess, err := s.sessions.Load()
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return sess, nil
}

func (s Storefront) Logout() error {
	const op = "Storefront.Logout"

	if err := s.sessions.Delete(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// authErr wraps err and forgets the stored session when the server rejected
// its token.
func (s Storefront) authErr(op string, err error) error {
	if errors.Is(err, domain.ErrAuthExpired) {
		if derr := s.sessions.Delete(); derr != nil {
			slog.Warn("failed to delete expired session", "op", op, "err", derr)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// publish sends a client event. Failures never fail the user action.
func (s Storefront) publish(ctx context.Context, e domain.ClientEvent) {
	const op = "Storefront.publish"

	if s.events == nil {
		return
	}
	e.At = s.now()
	if err := s.events.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish client event",
			"op", op, "kind", e.Kind, "err", err,
		)
	}
}
