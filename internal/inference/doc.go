// Package inference infers the type arguments of a generic call from its
// arguments.
//
// A run has two phases. The first collects exact, lower and upper bounds
// from every argument that does not depend on the variables being
// inferred. The second repeatedly fixes variables whose bounds are
// complete, using the types produced by lambdas and method groups once
// their inputs are known, until every variable is fixed or no progress is
// possible.
package inference
