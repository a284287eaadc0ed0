// Package grid provides the character surface the simulation is drawn onto.
//
// A [Grid] is a fixed-size, column-major array of [Cell] values. Two grids
// exist per rendered frame: the one last shown and the one being built.
// Ownership of a grid moves to the presenter once it is handed off, so a
// grid is never mutated after it has been queued.
//
//	g := grid.New(240, 135)
//	g.Set(10, 4, grid.Cell{Glyph: '*', Fg: grid.Yellow, Bg: grid.Black})
package grid
