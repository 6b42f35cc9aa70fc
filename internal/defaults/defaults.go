package defaults

import (
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	TracerProvider = noop.NewTracerProvider()

	// Expression evaluated when no --expr is given.
	Expression = "3 + 4 * (4 + 2)"
)
