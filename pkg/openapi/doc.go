// Package openapi builds inspected objects from OpenAPI component schemas.
//
// Property schemas map onto field types (boolean, integer, number, string,
// string enums, nested objects and arrays). Vendor extensions carry the
// inspector specific bits:
//
//	x-showif: "mode:enum == Burst"   # a single rule, or a list of rules
//	x-order:  2                      # display order among siblings
//
// kin-openapi types never leak out of this package.
package openapi
