// Package palette is a scan fixture: a stringer-style enum and an
// annotated type referencing it.
package palette

// Color is a paint color.
type Color int

const (
	Red Color = iota
	Green
	Blue
)

func (c Color) String() string {
	switch c {
	case Red:
		return "Red"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	}
	return "Color(?)"
}

// Finish is a surface finish.
type Finish string

const (
	Matte  Finish = "matte"
	Glossy Finish = "glossy"
)

func (f Finish) String() string {
	switch f {
	case Matte:
		return "Matte"
	case Glossy:
		return "Glossy"
	}
	return string(f)
}

// Swatch is a sample card.
// @paint(color: Red, finish: Matte)
type Swatch struct {
	// @paint(Green)
	Accent string
	Name   string // @label(text: "Red")
}

// Untyped constants are not enum values.
const Default = 3
