// Package numeric holds the generic scalar-conversion helper
// interp's E.12 assignment coercion (spec.md §4.E.12) is built on, wiring
// golang.org/x/exp/constraints the way the teacher's go.mod pulls it in
// without ever using generics for it itself.
package numeric

import "golang.org/x/exp/constraints"

// Scalar is any numeric kind E.12 coerces between: the language only has
// int32 and float32 scalars, but keeping this a constraint (rather than a
// plain float32(x)/int32(x) cast at each call site) is what lets Convert
// serve both directions from one definition.
type Scalar interface {
	constraints.Integer | constraints.Float
}

// Convert narrows/widens a Scalar value of type From to type To with a
// single explicit conversion. interp/coerce.go calls this for both the
// int-to-float and float-to-int halves of §4.E.12's coercion table instead
// of duplicating the conversion inline for each direction.
func Convert[To, From Scalar](v From) To {
	return To(v)
}
