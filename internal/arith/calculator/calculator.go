package calculator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/moorts/bird/internal/arith/ast"
	"github.com/moorts/bird/internal/arith/builder"
	"github.com/moorts/bird/internal/arith/evaluate"
	"github.com/moorts/bird/internal/arith/lexer"
	"github.com/moorts/bird/internal/defaults"
	"github.com/moorts/bird/internal/log/semconv"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/moorts/bird/internal/arith/calculator"
)

// Result holds every stage of a single evaluation. Tree and Value are only
// set by the stages that produce them.
type Result struct {
	ID         string
	Expression string
	Tokens     []*lexer.Token
	Tree       ast.Node
	Value      int64
}

// Calculator runs the tokenize, build and evaluate stages with a span and a
// log line per stage. It holds no per-call state and is safe for concurrent
// use.
type Calculator struct {
	tracer       trace.Tracer
	lexerOptions []func(*lexer.Lexer)
}

func New(options ...func(*Calculator)) *Calculator {
	calculator := Calculator{
		tracer:       defaults.TracerProvider.Tracer(tracerName),
		lexerOptions: make([]func(*lexer.Lexer), 0),
	}

	for _, apply := range options {
		apply(&calculator)
	}

	return &calculator
}

// Tokenize runs the lexer only.
func (c *Calculator) Tokenize(ctx context.Context, expr string) (*Result, error) {
	ctx, span, result := c.start(ctx, "tokenize expression", expr)
	defer span.End()

	if err := c.tokenize(ctx, result); err != nil {
		return nil, fail(span, err)
	}

	return result, nil
}

// Parse runs the lexer and the tree builder.
func (c *Calculator) Parse(ctx context.Context, expr string) (*Result, error) {
	ctx, span, result := c.start(ctx, "parse expression", expr)
	defer span.End()

	if err := c.tokenize(ctx, result); err != nil {
		return nil, fail(span, err)
	}

	if err := c.build(ctx, result); err != nil {
		return nil, fail(span, err)
	}

	return result, nil
}

// Evaluate runs the whole pipeline.
func (c *Calculator) Evaluate(ctx context.Context, expr string) (*Result, error) {
	ctx, span, result := c.start(ctx, "evaluate expression", expr)
	defer span.End()

	if err := c.tokenize(ctx, result); err != nil {
		return nil, fail(span, err)
	}

	if err := c.build(ctx, result); err != nil {
		return nil, fail(span, err)
	}

	if err := c.evaluate(ctx, result); err != nil {
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.Int64(semconv.Value, result.Value))

	return result, nil
}

func (c *Calculator) start(ctx context.Context, name, expr string) (context.Context, trace.Span, *Result) {
	id := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String(semconv.EvaluationID, id),
		attribute.String(semconv.Expression, expr),
	))

	logger := zerolog.Ctx(ctx).With().Str(semconv.EvaluationID, id).Logger()
	ctx = logger.WithContext(ctx)

	result := Result{
		ID:         id,
		Expression: expr,
	}

	return ctx, span, &result
}

func (c *Calculator) tokenize(ctx context.Context, result *Result) error {
	_, span := c.tracer.Start(ctx, "tokenize")
	defer span.End()

	tokens, err := lexer.Tokenize(result.Expression, c.lexerOptions...)
	if err != nil {
		return fail(span, fmt.Errorf("tokenize: %w", err))
	}

	span.SetAttributes(attribute.Int(semconv.TokenCount, len(tokens)))

	zerolog.Ctx(ctx).Debug().
		Str(semconv.Expression, result.Expression).
		Int(semconv.TokenCount, len(tokens)).
		Msg("tokenized expression")

	result.Tokens = tokens

	return nil
}

func (c *Calculator) build(ctx context.Context, result *Result) error {
	_, span := c.tracer.Start(ctx, "build tree")
	defer span.End()

	tree, err := builder.Build(result.Tokens)
	if err != nil {
		return fail(span, fmt.Errorf("build tree: %w", err))
	}

	leaves, internal := ast.Count(tree)
	span.SetAttributes(
		attribute.Int(semconv.LeafCount, leaves),
		attribute.Int(semconv.InternalNodeCount, internal),
	)

	zerolog.Ctx(ctx).Debug().
		Int(semconv.LeafCount, leaves).
		Int(semconv.InternalNodeCount, internal).
		Msg("built tree")

	result.Tree = tree

	return nil
}

func (c *Calculator) evaluate(ctx context.Context, result *Result) error {
	_, span := c.tracer.Start(ctx, "evaluate tree")
	defer span.End()

	value, err := evaluate.Evaluate(result.Tree)
	if err != nil {
		return fail(span, fmt.Errorf("evaluate tree: %w", err))
	}

	zerolog.Ctx(ctx).Debug().Int64(semconv.Value, value).Msg("evaluated tree")

	result.Value = value

	return nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}

func WithTracerProvider(tp trace.TracerProvider) func(*Calculator) {
	return func(c *Calculator) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// WithPowerOperator enables '^' in parsed expressions.
func WithPowerOperator() func(*Calculator) {
	return func(c *Calculator) {
		c.lexerOptions = append(c.lexerOptions, lexer.WithPowerOperator())
	}
}
