// Package expr parses and formats the textual rule syntax used by rule files,
// the CLI and the HTTP API.
package expr
