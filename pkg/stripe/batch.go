package stripe

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fivetwenty-io/stripekit/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrEmptyOperation = errors.New("batch operation has nothing to run")
)

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	ID       string
	Run      func(ctx context.Context) (interface{}, error)
	Callback func(result *BatchResult)
}

// Op wraps a typed call as a BatchOperation.
func Op[T any](id string, call func(ctx context.Context) (*T, error)) BatchOperation {
	return BatchOperation{
		ID: id,
		Run: func(ctx context.Context) (interface{}, error) {
			value, err := call(ctx)
			if err != nil {
				return nil, err
			}

			return value, nil
		},
	}
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// BatchExecutor runs independent calls concurrently. A failing operation
// never cancels the others.
type BatchExecutor struct {
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultBatchConcurrency
	}

	return &BatchExecutor{
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the timeout of each operation. Zero or a negative value
// disables the per-operation timeout; ctx still applies.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations. Results are returned in input order.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) []BatchResult {
	results := make([]BatchResult, len(operations))

	var group errgroup.Group

	group.SetLimit(b.concurrency)

	for index, operation := range operations {
		group.Go(func() error {
			opCtx, cancel := b.operationContext(ctx)
			defer cancel()

			start := time.Now()
			result := BatchResult{ID: operation.ID}

			if operation.Run != nil {
				result.Data, result.Error = operation.Run(opCtx)
			} else {
				result.Error = ErrEmptyOperation
			}

			result.Success = result.Error == nil
			result.Duration = time.Since(start)
			results[index] = result

			if operation.Callback != nil {
				operation.Callback(&results[index])
			}

			return nil
		})
	}

	_ = group.Wait()

	return results
}

func (b *BatchExecutor) operationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, b.timeout)
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

// AddOperation adds an operation to the batch.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the batch operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}

// Failed returns the results that carry an error.
func Failed(results []BatchResult) []BatchResult {
	var failed []BatchResult

	for _, result := range results {
		if !result.Success {
			failed = append(failed, result)
		}
	}

	return failed
}
