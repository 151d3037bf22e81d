package refinement

import "errors"

// ErrNoCandidateCell is returned when a refinement round finds no
// non-outer cell to split (every "maybe" cell has already collapsed to a
// point, or there were never any "maybe" cells to begin with).
var ErrNoCandidateCell = errors.New("refinement: no splittable cell carries maybe volume")
