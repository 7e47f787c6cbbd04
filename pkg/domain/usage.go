package domain

// Usage is the token-count record for a single model invocation.
// TotalTokens is always the sum of the two directions.
type Usage struct {
	Model        string
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// NewUsage builds a usage report, computing the total.
func NewUsage(model string, input, output int) Usage {
	return Usage{
		Model:        model,
		InputTokens:  input,
		OutputTokens: output,
		TotalTokens:  input + output,
	}
}
