// Package template provides the notification template registry and renderer.
//
// Templates carry a subject and body with literal {name} placeholders plus the
// authoritative list of required variables. Rendering validates input data
// against that list and fails hard on a missing variable rather than shipping
// placeholder text to a recipient. Substitution is a single literal pass: no
// code execution, no recursive expansion.
//
// Catalogs of templates can be loaded from YAML files with LoadFile or
// Registry.RegisterFile.
package template
