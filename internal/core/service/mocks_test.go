package service_test

import (
	"context"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListProducts(ctx context.Context) ([]domain.ProductSummary, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]domain.ProductSummary)
	return ps, args.Error(1)
}

func (m *MockCatalog) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

type MockCategories struct {
	mock.Mock
}

func (m *MockCategories) ListCategories(
	ctx context.Context, parentID string,
) ([]domain.Category, error) {
	args := m.Called(ctx, parentID)
	cs, _ := args.Get(0).([]domain.Category)
	return cs, args.Error(1)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Login(ctx context.Context, c domain.Credentials) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}

func (m *MockUsers) Register(ctx context.Context, r domain.Registration) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockUsers) Info(ctx context.Context, token string) (domain.User, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.User), args.Error(1)
}

type MockCarts struct {
	mock.Mock
}

func (m *MockCarts) ListCart(ctx context.Context, token string) (domain.Cart, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *MockCarts) UpdateCart(
	ctx context.Context, token, skuID string, quantity int,
) error {
	return m.Called(ctx, token, skuID, quantity).Error(0)
}

func (m *MockCarts) DeleteCartItem(ctx context.Context, token, skuID string) error {
	return m.Called(ctx, token, skuID).Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetProduct(
	ctx context.Context, id string,
) (domain.Product, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Bool(1), args.Error(2)
}

func (m *MockCache) PutProduct(ctx context.Context, p domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Load() (domain.Session, error) {
	args := m.Called()
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessions) Save(s domain.Session) error {
	return m.Called(s).Error(0)
}

func (m *MockSessions) Delete() error {
	return m.Called().Error(0)
}

type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) Publish(ctx context.Context, e domain.ClientEvent) error {
	return m.Called(ctx, e).Error(0)
}
