// Package render defines the Renderer contract for inspected layouts and a
// registry to look renderers up by name.
package render
