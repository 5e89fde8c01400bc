// Package template defines the engine seam the HTML renderer renders
// through. The pongo subpackage provides the pongo2 implementation.
package template
