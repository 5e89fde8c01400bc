// Package inspector turns an object and its ShowIf rules into a Layout: one
// row per field in tree order, with the verdict, the height the row occupies,
// and any warning banner to draw above it.
//
// Hidden rows contribute no height and their children are not visited.
// Error rows are never hidden; they are drawn with a banner and the field is
// still shown underneath.
package inspector
