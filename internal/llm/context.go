package llm

import "context"

type purposeKey struct{}

// PurposeBankGen labels requests that author item banks.
const PurposeBankGen = "bank-gen"

// WithPurpose tags ctx with what the request is for. The tag ends up in
// the request log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
