// Package flatsurf provides exact computations on translation surfaces:
// surfaces glued from euclidean triangles, as they arise in the study of
// billiards in rational polygons and of flat geometries with trivial
// holonomy. All geometric decisions are made exactly; floating point is only
// ever used to certify a sign faster, never to approximate one.
//
// # Surfaces
//
// A surface is described by a [Triangulation]: a [Combinatorial]
// triangulation, i.e. a pair of permutations of signed half-edge ids
// describing how triangles are glued, together with one exact [Vector] per
// half edge. The reverse of a half edge is its negation, faces are cycles of
// three half edges whose vectors sum to zero, and the half edges leaving a
// vertex form a counterclockwise fan.
//
// Build surfaces with [NewTriangulation] by listing the outgoing half edges
// of every vertex and one vector per edge; [NewCombinatorial] and
// [NewTriangulationFromCombinatorial] split the same construction into its
// combinatorial and geometric halves.
//
// # Exact arithmetic
//
// All geometry is generic over a [Scalar] type. [Rat] implements arbitrary
// precision rationals on top of math/big; [Int] restricts to integers with
// partial division. Types implementing the optional [Quotient] interface
// unlock the operations that require exact division, such as normalizing
// equivalence codes or inverting matrices; over other types those operations
// report failure instead of approximating.
//
// Predicates such as [Vector.CCW] and the in-circle test behind
// [Triangulation.DelaunayCondition] first evaluate a float64 interval
// enclosure and fall back to the exact scalars only when the enclosure
// cannot certify a sign.
//
// # Points, connections and paths
//
// A [Point] is a location on a surface in barycentric coordinates with
// respect to one of its faces; points compare equal across the faces
// containing them. A [SaddleConnection] is a straight segment between two
// vertices with no vertex in its interior, recorded by its holonomy vector
// and the angular sectors it leaves and enters through; a [Path] is a chain
// of saddle connections. [Ray] and [Segment] describe germs of straight
// trajectories based at arbitrary points, normalized so that geometrically
// equal objects compare equal no matter which face they were constructed
// against. [Vertical] fixes a direction and decomposes vectors into their
// components along and across it; [Lengths] labels edges with the widths of
// saddle connections across a vertical, as interval exchange constructions
// consume them.
//
// # Deformations
//
// Surfaces are deformed by [Triangulation.Flip], [Triangulation.Delaunay],
// [Triangulation.Add] (shifting each half edge by a vector, flipping where
// triangles would degenerate), [Triangulation.InsertAt] and
// [Triangulation.Slit] (marked points and slits), and
// [Triangulation.EliminateMarkedPoints], [Triangulation.Scale],
// [Triangulation.ApplyMatrix].
//
// Mutating operations return a [Deformation], a partial map that carries
// points and paths from the surface before the mutation to the surface after
// it. Deformations compose with [Deformation.Compose], invert where possible
// with [Deformation.Section], and report unmappable paths explicitly rather
// than guessing. [Triangulation.Isomorphism] searches for a deformation
// between two surfaces realized by a linear transformation and a relabeling.
//
// # Equivalence
//
// [CombinatorialEquivalence], [UnlabeledEquivalence],
// [AreaPreservingEquivalence] and [LinearEquivalence] declare when two
// surfaces count as the same: up to relabeling, or up to a linear
// transformation from a chosen subgroup of GL(2). [NewEquivalenceClass]
// computes a canonical code for a surface by walking its half-edge graph
// from every start and keeping the lexicographically minimal description;
// classes compare and hash cheaply, and [EquivalenceClass.Automorphisms]
// counts the symmetries of the surface. By default codes ignore edges whose
// Delaunay condition is ambiguous, so Delaunay triangulations are identified
// up to their Delaunay cell decomposition.
//
// # Drawing
//
// [Draw] unfolds a triangulation face by face into the plane and renders it
// through github.com/fogleman/gg, labeling every half edge. This is the only
// place where exact coordinates are flattened to float64.
//
// # Logging
//
// The package is silent by default. [SetLogger] routes debug traces of
// flips, shifts and equivalence walks to a zap logger.
//
// # Literature
//
// This package makes use of the following ideas:
//   - [Flat surfaces] by Anton Zorich, for the geometry of translation
//     surfaces, their saddle connections and their Delaunay decompositions
//   - [Adaptive Precision Floating-Point Arithmetic and Fast Robust
//     Geometric Predicates] by Jonathan Shewchuk, for the
//     filter-then-exact evaluation strategy of the orientation and
//     in-circle predicates
//   - Transforming triangulations by Charles Lawson, for the edge flip as
//     the elementary retriangulation move
//
// [Flat surfaces]: https://arxiv.org/abs/math/0609392
// [Adaptive Precision Floating-Point Arithmetic and Fast Robust Geometric Predicates]: https://www.cs.cmu.edu/~quake/robust.html
package flatsurf
