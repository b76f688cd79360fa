package fastspring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedResourceType  = errors.New("unsupported resource type")
	ErrUnsupportedOperationType = errors.New("unsupported operation type")
	ErrInvalidDataType          = errors.New("invalid data type")
	ErrTransactionFailed        = errors.New("transaction failed")
)

// Batch operation types.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationGet    = "get"
)

// Batch resource names.
const (
	ResourceAccount      = "account"
	ResourceCoupon       = "coupon"
	ResourceProduct      = "product"
	ResourceQuote        = "quote"
	ResourceSubscription = "subscription"
	ResourceWebhook      = "webhook"
)

// UpdateDataWrapper pairs an update request with the id it applies to.
type UpdateDataWrapper[T any] struct {
	ID      string
	Request *T
}

type operationFunc func(ctx context.Context, operation BatchOperation) (interface{}, error)

// CRUDOperationConfig maps operation types to resource client calls. A nil
// entry means the resource does not support that operation.
type CRUDOperationConfig struct {
	Create operationFunc
	Update operationFunc
	Delete operationFunc
	Get    operationFunc
}

func (c CRUDOperationConfig) lookup(operationType string) operationFunc {
	switch operationType {
	case OperationCreate:
		return c.Create
	case OperationUpdate:
		return c.Update
	case OperationDelete:
		return c.Delete
	case OperationGet:
		return c.Get
	default:
		return nil
	}
}

// handleCrudOperation runs the function config maps operation.Type to.
func handleCrudOperation(ctx context.Context, operation BatchOperation, config CRUDOperationConfig) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	run := config.lookup(operation.Type)
	if run == nil {
		result.Error = fmt.Errorf("%w: %s %s", ErrUnsupportedOperationType, operation.Resource, operation.Type)

		return result
	}

	data, err := run(ctx, operation)
	result.Success = err == nil
	result.Data = data
	result.Error = err

	return result
}

// typed adapts a call taking a typed request to an operationFunc.
func typed[T any, R any](resource, operationType string, call func(ctx context.Context, request T) (R, error)) operationFunc {
	return func(ctx context.Context, operation BatchOperation) (interface{}, error) {
		request, ok := operation.Data.(T)
		if !ok {
			return nil, fmt.Errorf("%w for %s %s: %T", ErrInvalidDataType, resource, operationType, operation.Data)
		}

		return call(ctx, request)
	}
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	ID       string
	Type     string // "create", "update", "delete", "get"
	Resource string // "account", "coupon", "product", ...
	Data     interface{}
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// BatchExecutor runs independent operations with bounded concurrency.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the timeout for each operation of a batch.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations. Results are in operation order.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()

			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			if operation.Callback != nil {
				operation.Callback(result)
			}
		}(index, operation)
	}

	waitGroup.Wait()

	return results, nil
}

func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	config, ok := b.operationConfig(operation.Resource)
	if !ok {
		return &BatchResult{
			ID:    operation.ID,
			Error: fmt.Errorf("%w: %s", ErrUnsupportedResourceType, operation.Resource),
		}
	}

	return handleCrudOperation(ctx, operation, config)
}

//nolint:funlen
func (b *BatchExecutor) operationConfig(resource string) (CRUDOperationConfig, bool) {
	switch resource {
	case ResourceAccount:
		accounts := b.client.Accounts()

		return CRUDOperationConfig{
			Create: typed(resource, OperationCreate, accounts.Create),
			Update: typed(resource, OperationUpdate,
				func(ctx context.Context, data *UpdateDataWrapper[AccountUpdateRequest]) (*AccountResult, error) {
					return accounts.Update(ctx, data.ID, data.Request)
				}),
			Get: typed(resource, OperationGet, accounts.Get),
		}, true
	case ResourceCoupon:
		coupons := b.client.Coupons()

		return CRUDOperationConfig{
			Create: typed(resource, OperationCreate, coupons.Upsert),
			Update: typed(resource, OperationUpdate, coupons.Upsert),
			Delete: typed(resource, OperationDelete, coupons.Delete),
			Get:    typed(resource, OperationGet, coupons.Get),
		}, true
	case ResourceProduct:
		products := b.client.Products()

		return CRUDOperationConfig{
			Create: typed(resource, OperationCreate, products.Upsert),
			Update: typed(resource, OperationUpdate, products.Upsert),
			Delete: typed(resource, OperationDelete, products.Delete),
			Get:    typed(resource, OperationGet, products.Get),
		}, true
	case ResourceQuote:
		quotes := b.client.Quotes()

		return CRUDOperationConfig{
			Create: typed(resource, OperationCreate, quotes.Create),
			Update: typed(resource, OperationUpdate,
				func(ctx context.Context, data *UpdateDataWrapper[QuoteRequest]) (*Quote, error) {
					return quotes.Update(ctx, data.ID, data.Request)
				}),
			Delete: typed(resource, OperationDelete, func(ctx context.Context, quoteID string) (*Quote, error) {
				return quotes.Cancel(ctx, quoteID, nil)
			}),
			Get: typed(resource, OperationGet, quotes.Get),
		}, true
	case ResourceSubscription:
		subscriptions := b.client.Subscriptions()

		return CRUDOperationConfig{
			Update: typed(resource, OperationUpdate, subscriptions.Update),
			Delete: typed(resource, OperationDelete, func(ctx context.Context, subscriptionID string) (*SubscriptionsResult, error) {
				return subscriptions.Cancel(ctx, subscriptionID, nil)
			}),
			Get: typed(resource, OperationGet, subscriptions.Get),
		}, true
	case ResourceWebhook:
		webhooks := b.client.Webhooks()

		return CRUDOperationConfig{
			Create: typed(resource, OperationCreate, webhooks.Upsert),
			Update: typed(resource, OperationUpdate, webhooks.Upsert),
			Delete: typed(resource, OperationDelete, webhooks.Delete),
			Get:    typed(resource, OperationGet, webhooks.Get),
		}, true
	default:
		return CRUDOperationConfig{}, false
	}
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddCreateAccount adds an account creation operation.
func (b *BatchBuilder) AddCreateAccount(id string, request *AccountCreateRequest) *BatchBuilder {
	return b.add(id, OperationCreate, ResourceAccount, request)
}

// AddUpdateAccount adds an account update operation.
func (b *BatchBuilder) AddUpdateAccount(id, accountID string, request *AccountUpdateRequest) *BatchBuilder {
	return b.add(id, OperationUpdate, ResourceAccount, &UpdateDataWrapper[AccountUpdateRequest]{
		ID:      accountID,
		Request: request,
	})
}

// AddGetAccount adds an account lookup operation.
func (b *BatchBuilder) AddGetAccount(id, accountID string) *BatchBuilder {
	return b.add(id, OperationGet, ResourceAccount, accountID)
}

// AddUpsertCoupon adds a coupon creation operation.
func (b *BatchBuilder) AddUpsertCoupon(id string, request *CouponRequest) *BatchBuilder {
	return b.add(id, OperationCreate, ResourceCoupon, request)
}

// AddDeleteCoupon adds a coupon deletion operation.
func (b *BatchBuilder) AddDeleteCoupon(id, couponID string) *BatchBuilder {
	return b.add(id, OperationDelete, ResourceCoupon, couponID)
}

// AddUpsertProducts adds a product creation operation.
func (b *BatchBuilder) AddUpsertProducts(id string, request *ProductsRequest) *BatchBuilder {
	return b.add(id, OperationCreate, ResourceProduct, request)
}

// AddDeleteProduct adds a product deletion operation.
func (b *BatchBuilder) AddDeleteProduct(id, productPath string) *BatchBuilder {
	return b.add(id, OperationDelete, ResourceProduct, productPath)
}

// AddCreateQuote adds a quote creation operation.
func (b *BatchBuilder) AddCreateQuote(id string, request *QuoteRequest) *BatchBuilder {
	return b.add(id, OperationCreate, ResourceQuote, request)
}

// AddCancelSubscription adds a subscription cancellation operation.
func (b *BatchBuilder) AddCancelSubscription(id, subscriptionID string) *BatchBuilder {
	return b.add(id, OperationDelete, ResourceSubscription, subscriptionID)
}

// AddOperation adds a custom operation.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the built operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}

func (b *BatchBuilder) add(id, operationType, resource string, data interface{}) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     operationType,
		Resource: resource,
		Data:     data,
	})

	return b
}

// BatchTransaction runs a batch and undoes successful creations when any
// operation fails.
type BatchTransaction struct {
	operations []BatchOperation
	results    []BatchResult
	executor   *BatchExecutor
	rollback   bool
}

// NewBatchTransaction creates a new batch transaction.
func NewBatchTransaction(executor *BatchExecutor) *BatchTransaction {
	return &BatchTransaction{
		executor:   executor,
		operations: make([]BatchOperation, 0),
		rollback:   true,
	}
}

// Add adds an operation to the transaction.
func (t *BatchTransaction) Add(operation BatchOperation) *BatchTransaction {
	t.operations = append(t.operations, operation)

	return t
}

// SetRollback sets whether to rollback on failure.
func (t *BatchTransaction) SetRollback(rollback bool) *BatchTransaction {
	t.rollback = rollback

	return t
}

// Execute executes the transaction.
func (t *BatchTransaction) Execute(ctx context.Context) ([]BatchResult, error) {
	results, err := t.executor.Execute(ctx, t.operations)
	t.results = results

	var failedOps []string

	for _, result := range results {
		if !result.Success {
			failedOps = append(failedOps, result.ID)
		}
	}

	if len(failedOps) > 0 && t.rollback {
		t.performRollback(ctx)

		return results, fmt.Errorf("%w, %d operations failed: %v", ErrTransactionFailed, len(failedOps), failedOps)
	}

	return results, err
}

// RollbackOperations returns the inverse operations of the successful
// creations. Updates and deletions cannot be undone.
func (t *BatchTransaction) RollbackOperations() []BatchOperation {
	var rollbackOps []BatchOperation

	for i, result := range t.results {
		if !result.Success || t.operations[i].Type != OperationCreate {
			continue
		}

		original := t.operations[i]

		for n, target := range createdIDs(original, result) {
			rollbackOps = append(rollbackOps, BatchOperation{
				ID:       fmt.Sprintf("rollback_%s_%d", original.ID, n),
				Type:     OperationDelete,
				Resource: original.Resource,
				Data:     target,
			})
		}
	}

	return rollbackOps
}

func (t *BatchTransaction) performRollback(ctx context.Context) {
	rollbackOps := t.RollbackOperations()
	if len(rollbackOps) > 0 {
		_, _ = t.executor.Execute(ctx, rollbackOps)
	}
}

// createdIDs extracts the ids a create operation produced.
func createdIDs(operation BatchOperation, result BatchResult) []string {
	switch operation.Resource {
	case ResourceCoupon:
		if request, ok := operation.Data.(*CouponRequest); ok {
			return []string{request.ID}
		}
	case ResourceProduct:
		if request, ok := operation.Data.(*ProductsRequest); ok {
			paths := make([]string, 0, len(request.Products))
			for _, product := range request.Products {
				paths = append(paths, product.Product)
			}

			return paths
		}
	case ResourceQuote:
		if quote, ok := result.Data.(*Quote); ok && quote != nil {
			return []string{quote.ID}
		}
	case ResourceWebhook:
		if list, ok := result.Data.(*WebhookList); ok && list != nil {
			ids := make([]string, 0, len(list.Webhooks))
			for _, webhook := range list.Webhooks {
				ids = append(ids, webhook.ID)
			}

			return ids
		}
	}

	return nil
}
