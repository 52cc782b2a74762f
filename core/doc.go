// Package core holds the value model shared by the sandbox, tools and the
// agent loop. Scripts and host tools exchange data as a closed Value variant
// (Nil, Bool, Number, String, List, Map) instead of relying on reflection over
// arbitrary Go types, so every boundary crossing is explicit and total.
//
// The package has no dependency on the Lua runtime; the sandbox package owns
// the Lua side of the marshaling.
package core
