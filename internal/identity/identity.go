// Package identity resolves the ambient caller identity used to populate the
// audit columns. The built-in provider returns the literal "system"; a real
// deployment swaps in one backed by the authenticated principal.
package identity

import "context"

type Provider interface {
	CurrentUser(c context.Context) string
}

type SystemProvider struct{}

func (SystemProvider) CurrentUser(context.Context) string { return "system" }
