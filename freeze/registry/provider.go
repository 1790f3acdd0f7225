package registry

import "context"

// Pattern: Strategy -- swap git platform without
// changing PR creation logic.

// Provider creates pull requests on a git hosting
// platform.
type Provider interface {
	CreatePR(
		ctx context.Context,
		from string,
		to string,
		title string,
		body string,
	) error
}

// ProviderFunc adapts a plain function to the
// Provider interface. When body is empty the title
// is used as body.
type ProviderFunc func(
	ctx context.Context,
	from string,
	to string,
	title string,
	body string,
) error

// CreatePR delegates to the wrapped function. If body
// is empty, title is substituted.
func (f ProviderFunc) CreatePR(
	ctx context.Context,
	from string,
	to string,
	title string,
	body string,
) error {
	if body == "" {
		body = title
	}

	return f(ctx, from, to, title, body)
}
