package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/niksmo/cloudshop/internal/core/service"
	"github.com/niksmo/cloudshop/internal/core/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const placeholder = "https://shop/placeholder.png"

var (
	now     = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	errConn = errors.New("connection refused")
)

type fixture struct {
	catalog    *MockCatalog
	categories *MockCategories
	users      *MockUsers
	carts      *MockCarts
	sessions   *MockSessions
	cache      *MockCache
	events     *MockEvents
	shop       service.Storefront
}

func newFixture() *fixture {
	f := &fixture{
		catalog:    &MockCatalog{},
		categories: &MockCategories{},
		users:      &MockUsers{},
		carts:      &MockCarts{},
		sessions:   &MockSessions{},
		cache:      &MockCache{},
		events:     &MockEvents{},
	}
	f.shop = service.New(service.Deps{
		Catalog:          f.catalog,
		Categories:       f.categories,
		Users:            f.users,
		Carts:            f.carts,
		Sessions:         f.sessions,
		Cache:            f.cache,
		Events:           f.events,
		PlaceholderImage: placeholder,
		Now:              func() time.Time { return now },
	})
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.catalog.AssertExpectations(t)
	f.categories.AssertExpectations(t)
	f.users.AssertExpectations(t)
	f.carts.AssertExpectations(t)
	f.sessions.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func testProduct() domain.Product {
	return domain.Product{
		ID:   "p1",
		Name: "T-shirt",
		SpecItems: []domain.SpecAxis{
			{Name: "color", Values: []string{"red", "blue"}},
			{Name: "size", Values: []string{"M", "L"}},
		},
		SKUs: []domain.SKU{
			{ID: "red-m", Spec: map[string]string{"color": "red", "size": "M"}, Price: 1990, Stock: 5},
			{ID: "red-l", Spec: map[string]string{"color": "red", "size": "L"}, Price: 2090, Stock: 0},
			{ID: "blue-m", Spec: map[string]string{"color": "blue", "size": "M"}, Price: 1890, Stock: 2},
		},
	}
}

func liveSession() domain.Session {
	return domain.Session{
		Token:     "tok",
		User:      domain.User{Username: "alice"},
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestHome(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("Regular", func(t *testing.T) {
		f := newFixture()
		f.catalog.On("ListProducts", mock.Anything).Return([]domain.ProductSummary{
			{ID: "p1", Name: "T-shirt", Image: "https://img/1.png"},
			{ID: "p2", Name: "Mug"},
		}, nil).Once()
		f.categories.On("ListCategories", mock.Anything, "").Return([]domain.Category{
			{ID: "c1", Name: "Clothes"},
		}, nil).Once()

		page, err := f.shop.Home(t.Context())
		require.NoError(t, err)
		require.Len(t, page.Products, 2)
		assert.Equal(t, "https://img/1.png", page.Products[0].Image)
		assert.Equal(t, placeholder, page.Products[1].Image)
		assert.Equal(t, []domain.Category{{ID: "c1", Name: "Clothes"}}, page.Categories)
		f.assertExpectations(t)
	})

	t.Run("OneSideFails", func(t *testing.T) {
		f := newFixture()
		f.catalog.On("ListProducts", mock.Anything).Return(nil, errConn).Once()
		f.categories.On("ListCategories", mock.Anything, "").
			Return([]domain.Category{}, nil).Maybe()

		_, err := f.shop.Home(t.Context())
		require.ErrorIs(t, err, errConn)
	})
}

func TestOpenProduct(t *testing.T) {
	viewed := domain.ClientEvent{
		Kind:      domain.EventProductViewed,
		Username:  "alice",
		ProductID: "p1",
		At:        now,
	}

	t.Run("CacheHit", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		f.cache.On("GetProduct", ctx, "p1").Return(testProduct(), true, nil).Once()
		f.events.On("Publish", ctx, viewed).Return(nil).Once()

		st, err := f.shop.OpenProduct(ctx, liveSession(), "p1")
		require.NoError(t, err)
		sku, ok := st.Resolved()
		require.True(t, ok)
		assert.Equal(t, "red-m", sku.ID)
		f.assertExpectations(t)
	})

	t.Run("CacheMiss", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		f.cache.On("GetProduct", ctx, "p1").Return(domain.Product{}, false, nil).Once()
		f.catalog.On("GetProduct", ctx, "p1").Return(testProduct(), nil).Once()
		f.cache.On("PutProduct", ctx, testProduct()).Return(nil).Once()
		f.events.On("Publish", ctx, viewed).Return(nil).Once()

		st, err := f.shop.OpenProduct(ctx, liveSession(), "p1")
		require.NoError(t, err)
		assert.Equal(t, "T-shirt", st.Product().Name)
		f.assertExpectations(t)
	})

	t.Run("CacheUnavailable", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		f.cache.On("GetProduct", ctx, "p1").Return(domain.Product{}, false, errConn).Once()
		f.catalog.On("GetProduct", ctx, "p1").Return(testProduct(), nil).Once()
		f.cache.On("PutProduct", ctx, testProduct()).Return(errConn).Once()
		f.events.On("Publish", ctx, viewed).Return(nil).Once()

		_, err := f.shop.OpenProduct(ctx, liveSession(), "p1")
		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		f.cache.On("GetProduct", ctx, "p9").Return(domain.Product{}, false, nil).Once()
		f.catalog.On("GetProduct", ctx, "p9").Return(domain.Product{}, domain.ErrNotFound).Once()

		_, err := f.shop.OpenProduct(ctx, liveSession(), "p9")
		require.ErrorIs(t, err, domain.ErrNotFound)
		f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("EventFailureIgnored", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		f.cache.On("GetProduct", ctx, "p1").Return(testProduct(), true, nil).Once()
		f.events.On("Publish", ctx, viewed).Return(errConn).Once()

		_, err := f.shop.OpenProduct(ctx, liveSession(), "p1")
		require.NoError(t, err)
	})

	t.Run("OptionalPortsAbsent", func(t *testing.T) {
		ctx := t.Context()
		catalog := &MockCatalog{}
		catalog.On("GetProduct", ctx, "p1").Return(testProduct(), nil).Once()
		shop := service.New(service.Deps{Catalog: catalog})

		_, err := shop.OpenProduct(ctx, domain.Session{}, "p1")
		require.NoError(t, err)
		catalog.AssertExpectations(t)
	})
}

func TestAddToCart(t *testing.T) {
	added := func(qty int) domain.ClientEvent {
		return domain.ClientEvent{
			Kind:      domain.EventAddedToCart,
			Username:  "alice",
			ProductID: "p1",
			SKUID:     "red-m",
			Quantity:  qty,
			Price:     1990,
			At:        now,
		}
	}

	t.Run("AddsToExistingQuantity", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		f.carts.On("ListCart", ctx, "tok").Return(domain.Cart{Items: []domain.CartItem{
			{SKUID: "red-m", Quantity: 1},
		}}, nil).Once()
		f.carts.On("UpdateCart", ctx, "tok", "red-m", 3).Return(nil).Once()
		f.events.On("Publish", ctx, added(2)).Return(nil).Once()

		li, err := f.shop.AddToCart(ctx, liveSession(), variant.New(testProduct()), 2)
		require.NoError(t, err)
		assert.Equal(t, domain.LineItem{SKUID: "red-m", Quantity: 2, Price: 1990}, li)
		f.assertExpectations(t)
	})

	t.Run("IncompleteSelectionSendsNothing", func(t *testing.T) {
		f := newFixture()
		st, err := variant.FromSelection(testProduct(), domain.Selection{"color": "red"})
		require.NoError(t, err)

		_, err = f.shop.AddToCart(t.Context(), liveSession(), st, 1)
		require.ErrorIs(t, err, domain.ErrIncompleteSelection)
		f.assertExpectations(t)
	})

	t.Run("OutOfStockSKU", func(t *testing.T) {
		f := newFixture()
		st, err := variant.New(testProduct()).Select("size", "L")
		require.NoError(t, err)

		_, err = f.shop.AddToCart(t.Context(), liveSession(), st, 1)
		require.ErrorIs(t, err, domain.ErrOutOfStock)
		f.assertExpectations(t)
	})

	t.Run("CartWouldExceedStock", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		f.carts.On("ListCart", ctx, "tok").Return(domain.Cart{Items: []domain.CartItem{
			{SKUID: "red-m", Quantity: 4},
		}}, nil).Once()

		_, err := f.shop.AddToCart(ctx, liveSession(), variant.New(testProduct()), 2)
		require.ErrorIs(t, err, domain.ErrOutOfStock)
		f.carts.AssertNotCalled(t, "UpdateCart",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Anonymous", func(t *testing.T) {
		f := newFixture()
		_, err := f.shop.AddToCart(t.Context(), domain.Session{}, variant.New(testProduct()), 1)
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
		f.assertExpectations(t)
	})

	t.Run("TokenExpiredLocally", func(t *testing.T) {
		f := newFixture()
		sess := liveSession()
		sess.ExpiresAt = now.Add(-time.Minute)

		_, err := f.shop.AddToCart(t.Context(), sess, variant.New(testProduct()), 1)
		require.ErrorIs(t, err, domain.ErrAuthExpired)
		f.assertExpectations(t)
	})

	t.Run("ServerRejectsToken", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		f.carts.On("ListCart", ctx, "tok").Return(domain.Cart{}, domain.ErrAuthExpired).Once()
		f.sessions.On("Delete").Return(nil).Once()

		_, err := f.shop.AddToCart(ctx, liveSession(), variant.New(testProduct()), 1)
		require.ErrorIs(t, err, domain.ErrAuthExpired)
		f.assertExpectations(t)
	})
}

func TestBuyNow(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		st, err := variant.New(testProduct()).Select("color", "blue")
		require.NoError(t, err)

		f.carts.On("UpdateCart", ctx, "tok", "blue-m", 2).Return(nil).Once()
		f.events.On("Publish", ctx, domain.ClientEvent{
			Kind:      domain.EventBoughtNow,
			Username:  "alice",
			ProductID: "p1",
			SKUID:     "blue-m",
			Quantity:  2,
			Price:     1890,
			At:        now,
		}).Return(nil).Once()

		checkout, err := f.shop.BuyNow(ctx, liveSession(), st, 2)
		require.NoError(t, err)
		assert.Equal(t, domain.Checkout{
			Items: []domain.LineItem{{SKUID: "blue-m", Quantity: 2, Price: 1890}},
			Total: 3780,
		}, checkout)
		f.assertExpectations(t)
	})

	t.Run("NoMatchingSKU", func(t *testing.T) {
		f := newFixture()
		st, err := variant.New(testProduct()).Select("color", "blue")
		require.NoError(t, err)
		st, err = st.Select("size", "L")
		require.NoError(t, err)

		_, err = f.shop.BuyNow(t.Context(), liveSession(), st, 1)
		require.ErrorIs(t, err, domain.ErrNoMatchingSKU)
		f.assertExpectations(t)
	})

	t.Run("CartError", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		f.carts.On("UpdateCart", ctx, "tok", "red-m", 1).Return(errConn).Once()

		_, err := f.shop.BuyNow(ctx, liveSession(), variant.New(testProduct()), 1)
		require.ErrorIs(t, err, errConn)
		f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestCart(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	want := domain.Cart{Items: []domain.CartItem{{SKUID: "red-m", Price: 1990, Quantity: 2}}}
	f.carts.On("ListCart", ctx, "tok").Return(want, nil).Once()

	cart, err := f.shop.Cart(ctx, liveSession())
	require.NoError(t, err)
	assert.Equal(t, want, cart)
	assert.Equal(t, domain.Money(3980), cart.Total())
}

func TestUpdateQuantity(t *testing.T) {
	t.Run("Positive", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		f.carts.On("UpdateCart", ctx, "tok", "red-m", 4).Return(nil).Once()

		require.NoError(t, f.shop.UpdateQuantity(ctx, liveSession(), "red-m", 4))
		f.assertExpectations(t)
	})

	t.Run("ZeroRemoves", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		f.carts.On("DeleteCartItem", ctx, "tok", "red-m").Return(nil).Once()

		require.NoError(t, f.shop.UpdateQuantity(ctx, liveSession(), "red-m", 0))
		f.assertExpectations(t)
	})

	t.Run("Negative", func(t *testing.T) {
		f := newFixture()
		err := f.shop.UpdateQuantity(t.Context(), liveSession(), "red-m", -1)
		require.ErrorIs(t, err, domain.ErrInvalidQuantity)
		f.assertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	creds := domain.Credentials{Email: "alice@shop.io", Password: "secret"}

	t.Run("Regular", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		user := domain.User{Username: "alice", Email: "alice@shop.io"}
		f.users.On("Login", ctx, creds).Return("tok", nil).Once()
		f.users.On("Info", ctx, "tok").Return(user, nil).Once()
		f.sessions.On("Save", domain.Session{Token: "tok", User: user}).Return(nil).Once()

		sess, err := f.shop.Login(ctx, creds)
		require.NoError(t, err)
		assert.Equal(t, "alice", sess.User.Username)
		f.assertExpectations(t)
	})

	t.Run("InfoUnavailable", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		f.users.On("Login", ctx, creds).Return("tok", nil).Once()
		f.users.On("Info", ctx, "tok").Return(domain.User{}, errConn).Once()
		f.sessions.On("Save", domain.Session{
			Token: "tok",
			User:  domain.User{Email: "alice@shop.io"},
		}).Return(nil).Once()

		_, err := f.shop.Login(ctx, creds)
		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("MissingPassword", func(t *testing.T) {
		f := newFixture()
		_, err := f.shop.Login(t.Context(), domain.Credentials{Username: "alice"})
		require.ErrorIs(t, err, domain.ErrMissingField)
		f.assertExpectations(t)
	})

	t.Run("Rejected", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		errDenied := errors.New("wrong password")
		f.users.On("Login", ctx, creds).Return("", errDenied).Once()

		_, err := f.shop.Login(ctx, creds)
		require.ErrorIs(t, err, errDenied)
		f.sessions.AssertNotCalled(t, "Save", mock.Anything)
	})
}

func TestRegister(t *testing.T) {
	reg := domain.Registration{
		Username:        "alice",
		Email:           "alice@shop.io",
		Phone:           "+100000000",
		Password:        "secret",
		ConfirmPassword: "secret",
	}

	t.Run("Regular", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		f.users.On("Register", ctx, reg).Return(nil).Once()

		require.NoError(t, f.shop.Register(ctx, reg))
		f.assertExpectations(t)
	})

	t.Run("PasswordMismatch", func(t *testing.T) {
		f := newFixture()
		bad := reg
		bad.ConfirmPassword = "secrets"

		err := f.shop.Register(t.Context(), bad)
		require.ErrorIs(t, err, domain.ErrPasswordMismatch)
		f.assertExpectations(t)
	})
}

func TestWhoami(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		f.users.On("Info", ctx, "tok").Return(domain.User{Username: "alice"}, nil).Once()

		u, err := f.shop.Whoami(ctx, liveSession())
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
	})

	t.Run("Anonymous", func(t *testing.T) {
		f := newFixture()
		_, err := f.shop.Whoami(t.Context(), domain.Session{})
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}

func TestSessionLogout(t *testing.T) {
	f := newFixture()
	f.sessions.On("Load").Return(liveSession(), nil).Once()
	f.sessions.On("Delete").Return(nil).Once()

	sess, err := f.shop.Session()
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	require.NoError(t, f.shop.Logout())
	f.assertExpectations(t)
}

func TestNavigatorStartsAtRoot(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	f.categories.On("ListCategories", ctx, "").
		Return([]domain.Category{{ID: "c1", Name: "Clothes"}}, nil).Once()

	nav := f.shop.Navigator()
	st, err := nav.Root(ctx)
	require.NoError(t, err)
	assert.True(t, st.AtRoot())
	assert.Len(t, st.Children, 1)
}
