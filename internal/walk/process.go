package walk

// Process describes one stochastic update rule and its expected MSD.
type Process[P any] interface {
	Name() string
	Dim() int
	Origin() P
	Move(from P, src Source) P
	SquaredDisplacement(p P) float64
	// Theoretical is the expected squared displacement after step moves.
	Theoretical(step int) float64
	// Coord maps a position at a given step to plotting space.
	Coord(step int, p P) Coord
}

// Line is the symmetric ±1 walk on the integers.
type Line struct{}

func (Line) Name() string { return "line" }
func (Line) Dim() int     { return 1 }
func (Line) Origin() int  { return 0 }

func (Line) Move(from int, src Source) int {
	if src.Float64() < 0.5 {
		return from + 1
	}
	return from - 1
}

func (Line) SquaredDisplacement(p int) float64 {
	return float64(p * p)
}

func (Line) Theoretical(step int) float64 { return float64(step) }

// Coord puts time on the horizontal axis.
func (Line) Coord(step int, p int) Coord {
	return Coord{X: float64(step), Y: float64(p)}
}

// Lattice is the nearest-neighbour walk on Z². Each tick moves exactly one
// unit along one axis, so E[dx²+dy²] grows by 1 per step.
type Lattice struct{}

func (Lattice) Name() string  { return "lattice" }
func (Lattice) Dim() int      { return 2 }
func (Lattice) Origin() Point { return Point{} }

func (Lattice) Move(from Point, src Source) Point {
	r := src.Float64()
	switch {
	case r < 0.25:
		from.X++
	case r < 0.5:
		from.X--
	case r < 0.75:
		from.Y++
	default:
		from.Y--
	}
	return from
}

func (Lattice) SquaredDisplacement(p Point) float64 {
	return float64(p.X*p.X + p.Y*p.Y)
}

func (Lattice) Theoretical(step int) float64 { return float64(step) }

func (Lattice) Coord(_ int, p Point) Coord {
	return Coord{X: float64(p.X), Y: float64(p.Y)}
}
