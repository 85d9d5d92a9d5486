package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassField       ChromeClass = "pf-field"
	ClassLabel       ChromeClass = "pf-label"
	ClassDescription ChromeClass = "pf-description"
	ClassError       ChromeClass = "pf-error"
)
