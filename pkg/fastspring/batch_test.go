package fastspring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errAccountNotFound = errors.New("account not found")

// MockClient implements fastspring.Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Accounts() fastspring.AccountsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(fastspring.AccountsClient)
}

func (m *MockClient) Coupons() fastspring.CouponsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(fastspring.CouponsClient)
}

func (m *MockClient) Events() fastspring.EventsClient               { return nil }
func (m *MockClient) Orders() fastspring.OrdersClient               { return nil }
func (m *MockClient) Products() fastspring.ProductsClient           { return nil }
func (m *MockClient) Quotes() fastspring.QuotesClient               { return nil }
func (m *MockClient) Returns() fastspring.ReturnsClient             { return nil }
func (m *MockClient) Sessions() fastspring.SessionsClient           { return nil }
func (m *MockClient) Subscriptions() fastspring.SubscriptionsClient { return nil }
func (m *MockClient) Webhooks() fastspring.WebhooksClient           { return nil }
func (m *MockClient) Reports() fastspring.ReportsClient             { return nil }

func (m *MockClient) Configure(opts fastspring.Options) {
	m.Called(opts)
}

func (m *MockClient) Auth(values ...string) error {
	args := m.Called(values)

	return args.Error(0)
}

func (m *MockClient) Server(url string, variables map[string]string) error {
	args := m.Called(url, variables)

	return args.Error(0)
}

// MockAccountsClient implements fastspring.AccountsClient for testing.
type MockAccountsClient struct {
	mock.Mock
}

func (m *MockAccountsClient) List(ctx context.Context, params *fastspring.AccountListParams) (*fastspring.AccountList, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*fastspring.AccountList), args.Error(1)
}

func (m *MockAccountsClient) Create(ctx context.Context, request *fastspring.AccountCreateRequest) (*fastspring.AccountResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*fastspring.AccountResult), args.Error(1)
}

func (m *MockAccountsClient) Get(ctx context.Context, accountID string) (*fastspring.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*fastspring.Account), args.Error(1)
}

func (m *MockAccountsClient) Update(ctx context.Context, accountID string, request *fastspring.AccountUpdateRequest) (*fastspring.AccountResult, error) {
	args := m.Called(ctx, accountID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*fastspring.AccountResult), args.Error(1)
}

func (m *MockAccountsClient) ManagementURL(ctx context.Context, accountID string) (*fastspring.AccountManagementURL, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*fastspring.AccountManagementURL), args.Error(1)
}

// MockCouponsClient implements fastspring.CouponsClient for testing.
type MockCouponsClient struct {
	mock.Mock
}

func (m *MockCouponsClient) Upsert(ctx context.Context, request *fastspring.CouponRequest) (*fastspring.Coupon, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*fastspring.Coupon), args.Error(1)
}

func (m *MockCouponsClient) List(ctx context.Context) (*fastspring.CouponList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*fastspring.CouponList), args.Error(1)
}

func (m *MockCouponsClient) Get(ctx context.Context, couponID string) (*fastspring.Coupon, error) {
	args := m.Called(ctx, couponID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*fastspring.Coupon), args.Error(1)
}

func (m *MockCouponsClient) Delete(ctx context.Context, couponID string) (*fastspring.CouponDeleteResult, error) {
	args := m.Called(ctx, couponID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*fastspring.CouponDeleteResult), args.Error(1)
}

func (m *MockCouponsClient) AddCodes(ctx context.Context, couponID string, request *fastspring.CouponCodesRequest) (*fastspring.CouponCodes, error) {
	args := m.Called(ctx, couponID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*fastspring.CouponCodes), args.Error(1)
}

func (m *MockCouponsClient) LookupCodes(ctx context.Context, couponID string, lookup *fastspring.CouponCodesLookup) (*fastspring.CouponCodes, error) {
	args := m.Called(ctx, couponID, lookup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*fastspring.CouponCodes), args.Error(1)
}

func (m *MockCouponsClient) DeleteCodes(ctx context.Context, couponID string) (*fastspring.CouponCodes, error) {
	args := m.Called(ctx, couponID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*fastspring.CouponCodes), args.Error(1)
}

func TestBatchExecutor_Execute(t *testing.T) {
	t.Parallel()

	mockClient := &MockClient{}
	mockAccounts := &MockAccountsClient{}
	mockClient.On("Accounts").Return(mockAccounts)

	executor := fastspring.NewBatchExecutor(mockClient, 2)

	mockAccounts.On("Get", mock.Anything, "acct-1").Return(&fastspring.Account{ID: "acct-1"}, nil)
	mockAccounts.On("Get", mock.Anything, "acct-2").Return(&fastspring.Account{ID: "acct-2"}, nil)

	operations := fastspring.NewBatchBuilder().
		AddGetAccount("op1", "acct-1").
		AddGetAccount("op2", "acct-2").
		Build()

	results, err := executor.Execute(context.Background(), operations)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for i, result := range results {
		assert.True(t, result.Success)
		require.NoError(t, result.Error)
		assert.Equal(t, operations[i].ID, result.ID)
		assert.Positive(t, result.Duration)
	}

	account, ok := results[1].Data.(*fastspring.Account)
	require.True(t, ok)
	assert.Equal(t, "acct-2", account.ID)

	mockClient.AssertExpectations(t)
	mockAccounts.AssertExpectations(t)
}

func TestBatchExecutor_WithCallback(t *testing.T) {
	t.Parallel()

	mockClient := &MockClient{}
	mockAccounts := &MockAccountsClient{}
	mockClient.On("Accounts").Return(mockAccounts)

	executor := fastspring.NewBatchExecutor(mockClient, 1)

	request := &fastspring.AccountUpdateRequest{Language: "de"}
	mockAccounts.On("Update", mock.Anything, "acct-1", request).
		Return(&fastspring.AccountResult{ID: "acct-1"}, nil)

	var callbackResult *fastspring.BatchResult

	operation := fastspring.NewBatchBuilder().AddUpdateAccount("op1", "acct-1", request).Build()[0]
	operation.Callback = func(result *fastspring.BatchResult) {
		callbackResult = result
	}

	_, err := executor.Execute(context.Background(), []fastspring.BatchOperation{operation})
	require.NoError(t, err)

	require.NotNil(t, callbackResult)
	assert.True(t, callbackResult.Success)
	assert.Equal(t, "op1", callbackResult.ID)

	mockAccounts.AssertExpectations(t)
}

func TestBatchExecutor_WithError(t *testing.T) {
	t.Parallel()

	mockClient := &MockClient{}
	mockAccounts := &MockAccountsClient{}
	mockClient.On("Accounts").Return(mockAccounts)

	executor := fastspring.NewBatchExecutor(mockClient, 1)

	mockAccounts.On("Get", mock.Anything, "missing").Return(nil, errAccountNotFound)

	results, err := executor.Execute(context.Background(), fastspring.NewBatchBuilder().AddGetAccount("op1", "missing").Build())
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.False(t, results[0].Success)
	require.ErrorIs(t, results[0].Error, errAccountNotFound)
}

func TestBatchExecutor_Unsupported(t *testing.T) {
	t.Parallel()

	mockClient := &MockClient{}
	mockAccounts := &MockAccountsClient{}
	mockClient.On("Accounts").Return(mockAccounts)

	executor := fastspring.NewBatchExecutor(mockClient, 1)
	executor.SetTimeout(time.Second)

	operations := []fastspring.BatchOperation{
		{ID: "resource", Type: fastspring.OperationGet, Resource: "unknown", Data: "x"},
		{ID: "type", Type: fastspring.OperationDelete, Resource: fastspring.ResourceAccount, Data: "acct-1"},
		{ID: "data", Type: fastspring.OperationGet, Resource: fastspring.ResourceAccount, Data: 42},
	}

	results, err := executor.Execute(context.Background(), operations)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.ErrorIs(t, results[0].Error, fastspring.ErrUnsupportedResourceType)
	require.ErrorIs(t, results[1].Error, fastspring.ErrUnsupportedOperationType)
	require.ErrorIs(t, results[2].Error, fastspring.ErrInvalidDataType)

	mockAccounts.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestBatchBuilder(t *testing.T) {
	t.Parallel()

	operations := fastspring.NewBatchBuilder().
		AddCreateAccount("create-1", &fastspring.AccountCreateRequest{}).
		AddUpsertCoupon("coupon-1", &fastspring.CouponRequest{ID: "SPRING"}).
		AddDeleteProduct("delete-1", "old-product").
		AddCancelSubscription("cancel-1", "sub-1").
		Build()

	require.Len(t, operations, 4)

	assert.Equal(t, "create-1", operations[0].ID)
	assert.Equal(t, fastspring.OperationCreate, operations[0].Type)
	assert.Equal(t, fastspring.ResourceAccount, operations[0].Resource)

	assert.Equal(t, fastspring.ResourceCoupon, operations[1].Resource)

	assert.Equal(t, fastspring.OperationDelete, operations[2].Type)
	assert.Equal(t, "old-product", operations[2].Data)

	assert.Equal(t, fastspring.ResourceSubscription, operations[3].Resource)
}

func TestBatchTransaction_RollsBackCreatedCoupons(t *testing.T) {
	t.Parallel()

	mockClient := &MockClient{}
	mockAccounts := &MockAccountsClient{}
	mockCoupons := &MockCouponsClient{}
	mockClient.On("Accounts").Return(mockAccounts)
	mockClient.On("Coupons").Return(mockCoupons)

	coupon := &fastspring.CouponRequest{ID: "SPRING"}
	mockCoupons.On("Upsert", mock.Anything, coupon).Return(&fastspring.Coupon{ID: "SPRING"}, nil)
	mockCoupons.On("Delete", mock.Anything, "SPRING").Return(&fastspring.CouponDeleteResult{ID: "SPRING"}, nil)
	mockAccounts.On("Get", mock.Anything, "missing").Return(nil, errAccountNotFound)

	transaction := fastspring.NewBatchTransaction(fastspring.NewBatchExecutor(mockClient, 1))

	for _, operation := range fastspring.NewBatchBuilder().
		AddUpsertCoupon("coupon", coupon).
		AddGetAccount("account", "missing").
		Build() {
		transaction.Add(operation)
	}

	_, err := transaction.Execute(context.Background())
	require.ErrorIs(t, err, fastspring.ErrTransactionFailed)

	rollback := transaction.RollbackOperations()
	require.Len(t, rollback, 1)
	assert.Equal(t, "SPRING", rollback[0].Data)

	mockCoupons.AssertCalled(t, "Delete", mock.Anything, "SPRING")
}
