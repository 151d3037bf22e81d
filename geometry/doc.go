// Package geometry provides the polytopic-geometry primitives the rest of
// the module treats as a given collaborator: pre, preR, attr, attrR, post,
// intersect, remove, covers, volume, sample, and vertices over convex
// polytopes and their unions.
//
// It is deliberately NOT a general convex-polytope library: Region here is
// a finite union of axis-aligned hyper-rectangles (Box). This lets the
// rest of the module (abstraction, controller, refinement) be exercised
// end to end without pulling in half-space intersection / V-to-H
// representation conversion.
//
// Simplification, stated plainly: Post and PreR under a general matrix A
// map a box to a parallelepiped, not a box. Where an exact box result
// isn't available we return the tightest enclosing bounding box of the
// exact image (computed from the transformed vertices), matching the
// "bounding-box over-approximation" technique used throughout abstraction
// refinement tools. This can make PreR mildly optimistic (admit a few
// points that aren't truly robust) when A is not diagonal; it is exact
// whenever A is a diagonal or permutation matrix.
package geometry
