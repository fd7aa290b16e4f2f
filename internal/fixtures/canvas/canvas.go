// Package canvas is a scan fixture referencing palette constants through an import.
package canvas

import (
	pal "github.com/pablor21/annomodel/internal/fixtures/palette"
)

// @paint(pal.Blue, finish: pal.Glossy)
type Canvas struct {
	Layers int
}

// Prime primes the canvas.
// @paint(colors: [pal.Red, pal.Green], unknown: pal.Missing, plain: Default)
func (c *Canvas) Prime() {}

// Background is the default background color.
// @paint(pal.Blue)
var Background = pal.Blue
