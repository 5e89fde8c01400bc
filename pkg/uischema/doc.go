// Package uischema loads inspected objects and rule overlays from JSON or
// YAML. Object files describe a field tree with values and ShowIf rules;
// overlay files attach labels, ordering and rules to an existing object by
// field path without touching its source. Overlays are applied through a
// model.Decorator so the loaders that build objects stay unaware of them.
package uischema
