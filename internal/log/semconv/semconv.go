package semconv

// Command
const (
	// Name of the CLI subcommand being run.
	Command = "command"
)

// Evaluation
const (
	// Random ID generated for every pipeline run. Shared by the log lines and
	// spans of a single expression.
	EvaluationID = "evaluation_id"

	// Raw expression text as given by the user.
	Expression = "expression"

	// Final integer value of an expression.
	Value = "value"
)

// Pipeline stages
const (
	TokenCount        = "token_count"
	LeafCount         = "leaf_count"
	InternalNodeCount = "internal_node_count"

	// Number of expressions in a batch.
	BatchSize = "batch_size"
)

// Errors
const (
	// Class of a failed expression: lex, structural or arithmetic.
	ErrorKind = "error_kind"

	// Byte offset (lex) or token index (structural) of the failure.
	ErrorOffset = "error_offset"
)
