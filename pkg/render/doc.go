// Package render defines the renderer contract shared by the HTML and
// terminal front ends, the registry the server and CLI resolve renderers
// from, and helpers for hidden inputs.
package render
