// Package twisty folds chains of triangular prisms into rigid 3-D shapes.
//
// A Shape starts as a straight chain of pieceCount prisms that alternate
// between downward-facing (even index) and upward-facing (odd index). A fold
// notation such as "1R2-2L2-2R2" twists one side of the chain by quarter
// turns around the slope edge of a downward-facing prism. The folded chain is
// then placed in world space as a list of Prism values whose base faces and
// triangular faces are linked when they touch. Several folded shapes can be
// welded together with MergePrisms and GeneratePatternPrisms.
//
// Prism lists are flat arenas: every link (Prev, Next, Mid, Front, Back) is an
// index into the same slice, or NoLink.
package twisty
