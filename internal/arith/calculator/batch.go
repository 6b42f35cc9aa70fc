package calculator

import (
	"context"
	"fmt"

	"github.com/moorts/bird/internal/log/semconv"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one expression of a batch. Exactly one of Result
// and Err is set.
type Outcome struct {
	Expression string
	Result     *Result
	Err        error
}

// EvaluateAll evaluates every expression with at most workers running at
// once. Failing expressions are reported in their Outcome and do not stop
// the batch; only a cancelled context does. Outcomes keep input order.
func (c *Calculator) EvaluateAll(ctx context.Context, exprs []string, workers int) ([]Outcome, error) {
	ctx, span := c.tracer.Start(ctx, "evaluate batch")
	defer span.End()

	span.SetAttributes(attribute.Int(semconv.BatchSize, len(exprs)))

	if workers < 1 {
		workers = 1
	}

	outcomes := make([]Outcome, len(exprs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for index, expr := range exprs {
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			result, err := c.Evaluate(groupCtx, expr)

			outcomes[index] = Outcome{
				Expression: expr,
				Result:     result,
				Err:        err,
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fail(span, fmt.Errorf("evaluate batch: %w", err))
	}

	// the group context is done once Wait returns, check the caller's instead
	if err := ctx.Err(); err != nil {
		return nil, fail(span, fmt.Errorf("evaluate batch: %w", err))
	}

	return outcomes, nil
}
