// Package funnel turns a corridor of portals into the shortest path through it, using the
// Simple Stupid Funnel Algorithm.
//
// The funnel is an apex plus two legs (left and right) that follow the portal endpoints.
// Each portal either tightens a leg, leaves it alone when the leg would widen, or makes it
// cross the other leg. A crossing collapses the funnel: the other leg's vertex becomes a
// corner of the path and the next apex, and the scan resumes right after the portal that
// produced that vertex.
//
// Comparisons are made on the XZ plane with geometry.SignedArea2D. Portals are expected to
// be oriented the way surface.GetSharedPortalVertices returns them:
// SignedArea2D(c, Left, Right) > 0 with c inside the triangle being left.
//
// The apex starts on the first portal's left vertex, not on the start position. Corridors
// built by the corridor package start with a degenerate (start, start) portal, so the two
// coincide there.
//
// References:
//   - Mononen: "Simple Stupid Funnel Algorithm" (2010)
//   - Lee, Preparata: "Euclidean shortest paths in the presence of rectilinear barriers" (1984)
package funnel

import (
	"sync"

	"github.com/akmonengine/navfunnel/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// state drives the scan; a collapse is handled outside of the portal loop.
type state int

const (
	scanning state = iota
	// collapsedRight: the right leg crossed the left one, left becomes the apex
	collapsedRight
	// collapsedLeft: the left leg crossed the right one, right becomes the apex
	collapsedLeft
	done
)

// Stats describes one funnel run.
type Stats struct {
	// ApexIndices lists, in commit order, the portal index each committed apex came from.
	ApexIndices []int
	// Steps counts portal examinations, rescans included.
	Steps int
	// Restarts counts how many times the scan was rewound after a collapse.
	Restarts int
}

type funnel struct {
	portals []geometry.Portal
	start   mgl64.Vec3

	apex, left, right                mgl64.Vec3
	apexIndex, leftIndex, rightIndex int

	i int
	// resumed is the index the last restart resumed at; restarts must move it forward
	resumed int

	out   []mgl64.Vec3
	base  int
	stats *Stats
}

var funnelPool = sync.Pool{
	New: func() interface{} {
		return &funnel{}
	},
}

// Build clears dst and fills it with the path from start to end through portals.
//
// With no portal the result is exactly [start, end]: start and end see each other.
// Otherwise start is left out (the caller owns it) and the result ends with end.
func Build(dst []mgl64.Vec3, start, end mgl64.Vec3, portals []geometry.Portal) []mgl64.Vec3 {
	return run(dst[:0], start, end, portals, nil)
}

// Append is Build without clearing dst: the path is appended after its current content.
// Consecutive duplicates are only looked for among the appended points.
func Append(dst []mgl64.Vec3, start, end mgl64.Vec3, portals []geometry.Portal) []mgl64.Vec3 {
	return run(dst, start, end, portals, nil)
}

// BuildWithStats is Build, also reporting how the scan went.
func BuildWithStats(dst []mgl64.Vec3, start, end mgl64.Vec3, portals []geometry.Portal) ([]mgl64.Vec3, Stats) {
	var stats Stats
	dst = run(dst[:0], start, end, portals, &stats)
	return dst, stats
}

func run(dst []mgl64.Vec3, start, end mgl64.Vec3, portals []geometry.Portal, stats *Stats) []mgl64.Vec3 {
	if len(portals) == 0 {
		return append(dst, start, end)
	}

	f := funnelPool.Get().(*funnel)
	f.reset(dst, start, portals, stats)

	st := scanning
	for st != done {
		switch st {
		case scanning:
			st = f.step()
		case collapsedRight:
			f.restart(f.left, f.leftIndex)
			st = scanning
		case collapsedLeft:
			f.restart(f.right, f.rightIndex)
			st = scanning
		}
	}

	f.finish(end)
	dst = f.out

	f.portals = nil
	f.out = nil
	f.stats = nil
	funnelPool.Put(f)

	return dst
}

func (f *funnel) reset(dst []mgl64.Vec3, start mgl64.Vec3, portals []geometry.Portal, stats *Stats) {
	f.portals = portals
	f.start = start
	f.out = dst
	f.base = len(dst)
	f.stats = stats

	f.apex = portals[0].Left
	f.left = portals[0].Left
	f.right = portals[0].Right
	f.apexIndex, f.leftIndex, f.rightIndex = 0, 0, 0

	f.i = 1
	f.resumed = 0
}

// step examines portal i, right leg first.
func (f *funnel) step() state {
	if f.i >= len(f.portals) {
		return done
	}
	if f.stats != nil {
		f.stats.Steps++
	}

	p := f.portals[f.i]

	if geometry.SignedArea2D(f.apex, f.right, p.Right) <= 0 {
		if geometry.Equal(f.right, f.apex) || geometry.SignedArea2D(f.apex, f.left, p.Right) > 0 {
			f.right = p.Right
			f.rightIndex = f.i
		} else {
			return collapsedRight
		}
	}

	if geometry.SignedArea2D(f.apex, f.left, p.Left) >= 0 {
		if geometry.Equal(f.left, f.apex) || geometry.SignedArea2D(f.apex, f.right, p.Left) < 0 {
			f.left = p.Left
			f.leftIndex = f.i
		} else {
			return collapsedLeft
		}
	}

	f.i++
	return scanning
}

// restart commits point as the new apex and rescans from the portal after index.
//
// After a restart both legs tighten on the first portal examined, so with finite
// coordinates every later commit comes from a larger index. Portals that cannot be compared
// (NaN, Inf) break that; a collapse that would resume where the last restart already did is
// then dropped and the scan moves on.
func (f *funnel) restart(point mgl64.Vec3, index int) {
	next := index + 1
	if next <= f.resumed {
		f.i++
		return
	}

	f.commit(point)
	if f.stats != nil {
		f.stats.ApexIndices = append(f.stats.ApexIndices, index)
		f.stats.Restarts++
	}

	f.apex = point
	f.apexIndex = index
	f.left, f.right = point, point
	f.leftIndex, f.rightIndex = index, index

	f.resumed = next
	f.i = next
}

// commit appends a corner unless it repeats the previous point (start when nothing was
// appended yet).
func (f *funnel) commit(point mgl64.Vec3) {
	last := f.start
	if len(f.out) > f.base {
		last = f.out[len(f.out)-1]
	}
	if geometry.Equal(point, last) {
		return
	}
	f.out = append(f.out, point)
}

// finish terminates the path on end exactly.
func (f *funnel) finish(end mgl64.Vec3) {
	if n := len(f.out); n > f.base && geometry.Equal(f.out[n-1], end) {
		f.out[n-1] = end
		return
	}
	f.out = append(f.out, end)
}
