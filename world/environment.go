package world

import "github.com/pthm-cable/fauna/vec"

// Environment answers the refuge predicates used by flight decisions:
// overhead cover and nearby water. The host owns terrain; this is a
// cell-coarse view of just the two properties steering reads.
type Environment struct {
	cellSize float64
	cover    map[[3]int]bool
	water    map[[3]int]bool
}

// NewEnvironment creates an empty environment with the given cell size.
func NewEnvironment(cellSize float64) *Environment {
	return &Environment{
		cellSize: cellSize,
		cover:    make(map[[3]int]bool),
		water:    make(map[[3]int]bool),
	}
}

// SetCover marks the cell containing p as providing overhead cover.
func (e *Environment) SetCover(p vec.V) {
	e.cover[e.cell(p)] = true
}

// SetWater marks the cell containing p as water.
func (e *Environment) SetWater(p vec.V) {
	e.water[e.cell(p)] = true
}

// HasOverheadCover reports whether the cell containing p is covered.
func (e *Environment) HasOverheadCover(p vec.V) bool {
	if e == nil {
		return false
	}
	return e.cover[e.cell(p)]
}

// WaterWithin reports whether any water cell lies within radius of p.
func (e *Environment) WaterWithin(p vec.V, radius float64) bool {
	if e == nil {
		return false
	}
	r := int(radius/e.cellSize) + 1
	c := e.cell(p)
	rSq := radius * radius
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			for dz := -r; dz <= r; dz++ {
				k := [3]int{c[0] + dx, c[1] + dy, c[2] + dz}
				if !e.water[k] {
					continue
				}
				// Distance from p to the cell center.
				center := vec.New(
					(float64(k[0])+0.5)*e.cellSize,
					(float64(k[1])+0.5)*e.cellSize,
					(float64(k[2])+0.5)*e.cellSize,
				)
				if center.DistSq(p) <= rSq {
					return true
				}
			}
		}
	}
	return false
}

// HasRefugeNear reports whether either refuge type (overhead cover at p, or
// water within radius) is available. Avoidance uses this to scale its
// flight initiation distance.
func (e *Environment) HasRefugeNear(p vec.V, radius float64) bool {
	if e == nil {
		return false
	}
	return e.HasOverheadCover(p) || e.WaterWithin(p, radius)
}

func (e *Environment) cell(p vec.V) [3]int {
	return [3]int{
		int(floorDiv(p.X, e.cellSize)),
		int(floorDiv(p.Y, e.cellSize)),
		int(floorDiv(p.Z, e.cellSize)),
	}
}

func floorDiv(v, size float64) float64 {
	q := v / size
	f := float64(int(q))
	if q < 0 && q != f {
		f--
	}
	return f
}
