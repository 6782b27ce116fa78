package steering

import (
	"math"
	"sort"
)

// speedEpsilon is the velocity magnitude below which perception is treated
// as omnidirectional: a near-stationary animal has no meaningful heading.
const speedEpsilon = 1e-3

// NeighborSelector implements topological neighbor selection: instead of
// tracking everyone within a fixed radius, it keeps the N nearest flockmates
// inside the perception radius and field of view. Capping at N bounds the
// per-tick cost independent of local density and matches observed
// neighbor-tracking counts in animal flocks (5-7).
type NeighborSelector struct {
	Radius float64 // perception radius R
	Angle  float64 // field of view in radians; candidates must be within Angle/2 of heading
	Count  int     // topological cap N
}

// Select runs the coarse box query, refines by exact distance and field of
// view, and keeps the Count nearest candidates sorted ascending by distance.
// Only living conspecifics of the agent are considered; a non-animal agent
// flocks with nothing.
func (s *NeighborSelector) Select(ctx *Context) []Neighbor {
	self, ok := ctx.World.Animal(ctx.Agent)
	if !ok {
		return nil
	}

	heading := ctx.Vel.Normalize()
	omni := ctx.Vel.Mag() < speedEpsilon

	candidates := ctx.World.QueryBox(nil, ctx.Pos, s.Radius, ctx.Agent)
	rSq := s.Radius * s.Radius

	found := make([]Neighbor, 0, len(candidates))
	for _, c := range candidates {
		if c.DistSq > rSq {
			continue
		}
		a, ok := ctx.World.Animal(c.E)
		if !ok || a.Species != self.Species {
			continue
		}
		if !ctx.World.Alive(c.E) {
			continue
		}

		if !omni {
			toC := c.Pos.Sub(ctx.Pos).Normalize()
			if toC.IsZero() {
				// Coincident position, direction undefined: admit it.
			} else {
				d := heading.Dot(toC)
				if d > 1 {
					d = 1
				} else if d < -1 {
					d = -1
				}
				if math.Acos(d) > s.Angle/2 {
					continue
				}
			}
		}

		found = append(found, Neighbor{
			E:    c.E,
			Pos:  c.Pos,
			Vel:  ctx.World.Velocity(c.E),
			Dist: math.Sqrt(c.DistSq),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Dist < found[j].Dist
	})

	if len(found) > s.Count {
		found = found[:s.Count]
	}
	return found
}
