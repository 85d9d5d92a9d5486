package render

import "github.com/goliatone/go-profileform/pkg/submit"

// RenderOptions carry per-request data that renderers use without touching
// the controller state.
type RenderOptions struct {
	// Action is the URL the HTML form posts to. Empty posts to the current URL.
	Action string
	// Method is the HTTP method of the form. Defaults to POST.
	Method string
	// Hidden adds hidden inputs (CSRF tokens, request ids) to the form.
	Hidden map[string]string
	// Receipt, when set, is presented as the acknowledgment of an accepted
	// submission above the form.
	Receipt *submit.Receipt
}
