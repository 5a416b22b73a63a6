package funnel

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/akmonengine/navfunnel/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Test helper functions

func vec(x, z float64) mgl64.Vec3 {
	return mgl64.Vec3{x, 0, z}
}

func portal(left, right mgl64.Vec3) geometry.Portal {
	return geometry.Portal{Left: left, Right: right}
}

// stripPortals is the corridor through a 3x1 strip of unit squares along +X, two triangles
// per square, wrapped with the start and end portals.
func stripPortals(start, end mgl64.Vec3) []geometry.Portal {
	return []geometry.Portal{
		portal(start, start),
		portal(vec(0, 1), vec(1, 0)),
		portal(vec(1, 1), vec(1, 0)),
		portal(vec(1, 1), vec(2, 0)),
		portal(vec(2, 1), vec(2, 0)),
		portal(vec(2, 1), vec(3, 0)),
		portal(end, end),
	}
}

// cornerPortals turns around the corner (1, 1): three squares [0,1]x[0,1], [1,2]x[0,1]
// and [1,2]x[1,2], two triangles each.
func cornerPortals(start, end mgl64.Vec3) []geometry.Portal {
	return []geometry.Portal{
		portal(start, start),
		portal(vec(0, 1), vec(1, 0)),
		portal(vec(1, 1), vec(1, 0)),
		portal(vec(1, 1), vec(2, 0)),
		portal(vec(1, 1), vec(2, 1)),
		portal(vec(1, 2), vec(2, 1)),
		portal(end, end),
	}
}

func assertPath(t *testing.T, got, want []mgl64.Vec3) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("path = %v, want %v", got, want)
	}
	for i := range want {
		if !geometry.Equal(got[i], want[i]) {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// =============================================================================
// Direct path
// =============================================================================

func TestBuild_DirectPath(t *testing.T) {
	tests := []struct {
		name       string
		start, end mgl64.Vec3
	}{
		{"origin to x", vec(0, 0), vec(5, 0)},
		{"same point", vec(3, 3), vec(3, 3)},
		{"with height", mgl64.Vec3{1, 4, 1}, mgl64.Vec3{-2, -1, 7}},
		{"far away", vec(-1e6, 1e6), vec(1e6, -1e6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := Build(nil, tt.start, tt.end, nil)
			if len(path) != 2 || path[0] != tt.start || path[1] != tt.end {
				t.Errorf("Build = %v, want [%v %v]", path, tt.start, tt.end)
			}
		})
	}
}

func TestBuild_ReusesBuffer(t *testing.T) {
	dst := make([]mgl64.Vec3, 5, 16)
	for i := range dst {
		dst[i] = vec(float64(i), 42)
	}

	path := Build(dst, vec(0, 0), vec(1, 1), nil)
	if len(path) != 2 {
		t.Fatalf("stale points kept: %v", path)
	}
	if &path[0] != &dst[0] {
		t.Errorf("buffer was not reused")
	}
}

// =============================================================================
// Corridors
// =============================================================================

func TestBuild_StraightCorridor(t *testing.T) {
	start := vec(0.2, 0.5)
	end := vec(2.8, 0.5)

	path, stats := BuildWithStats(nil, start, end, stripPortals(start, end))

	assertPath(t, path, []mgl64.Vec3{end})
	if path[0] != end {
		t.Errorf("last point must be end exactly")
	}
	if stats.Steps == 0 {
		t.Errorf("portals were not scanned")
	}
}

func TestBuild_Corner(t *testing.T) {
	start := vec(0.3, 0.3)
	end := vec(1.4, 1.8)

	path := Build(nil, start, end, cornerPortals(start, end))

	assertPath(t, path, []mgl64.Vec3{vec(1, 1), end})
}

func TestBuild_CornerNotNeeded(t *testing.T) {
	// The straight line from start to end stays inside the corridor
	start := vec(0.6, 0.1)
	end := vec(1.9, 1.9)

	path := Build(nil, start, end, cornerPortals(start, end))

	assertPath(t, path, []mgl64.Vec3{end})
}

func TestBuild_SinglePortal(t *testing.T) {
	start := vec(0, 0)
	end := vec(4, 4)

	path := Build(nil, start, end, []geometry.Portal{portal(vec(1, 1), vec(2, 0))})
	assertPath(t, path, []mgl64.Vec3{end})
}

func TestAppend_KeepsPrefix(t *testing.T) {
	start := vec(0.3, 0.3)
	end := vec(1.4, 1.8)

	dst := []mgl64.Vec3{start}
	path := Append(dst, start, end, cornerPortals(start, end))

	assertPath(t, path, []mgl64.Vec3{start, vec(1, 1), end})
}

// =============================================================================
// Properties
// =============================================================================

func randomPortals(r *rand.Rand, n int) []geometry.Portal {
	portals := make([]geometry.Portal, n)
	for i := range portals {
		// A coarse lattice makes collinear and duplicate portals frequent
		portals[i] = portal(
			vec(float64(r.Intn(7)-3), float64(r.Intn(7)-3)),
			vec(float64(r.Intn(7)-3), float64(r.Intn(7)-3)),
		)
	}
	return portals
}

func TestBuild_Termination(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for run := 0; run < 2000; run++ {
		n := 1 + r.Intn(24)
		portals := randomPortals(r, n)
		start := vec(-10, -10)
		end := vec(10, 10)

		path, stats := BuildWithStats(nil, start, end, portals)

		// The caller prepends start
		if count := len(path) + 1; count < 2 || count > n+2 {
			t.Fatalf("run %d: %d points for %d portals", run, count, n)
		}
		if path[len(path)-1] != end {
			t.Fatalf("run %d: last point %v is not end", run, path[len(path)-1])
		}
		if geometry.Equal(path[0], start) {
			t.Fatalf("run %d: path starts with start", run)
		}
		if stats.Steps > (n+1)*n {
			t.Fatalf("run %d: %d steps for %d portals", run, stats.Steps, n)
		}
	}
}

func TestBuild_MonotonicApex(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for run := 0; run < 2000; run++ {
		portals := randomPortals(r, 2+r.Intn(16))

		_, stats := BuildWithStats(nil, vec(0, 0), vec(3, 3), portals)

		for i := 1; i < len(stats.ApexIndices); i++ {
			if stats.ApexIndices[i] <= stats.ApexIndices[i-1] {
				t.Fatalf("run %d: apex index went from %d to %d", run, stats.ApexIndices[i-1], stats.ApexIndices[i])
			}
		}
		if stats.Restarts != len(stats.ApexIndices) {
			t.Fatalf("run %d: %d restarts for %d commits", run, stats.Restarts, len(stats.ApexIndices))
		}
	}
}

func TestBuild_DegeneratePortals(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	tests := []struct {
		name    string
		portals []geometry.Portal
	}{
		{"all identical", []geometry.Portal{
			portal(vec(1, 1), vec(1, 1)),
			portal(vec(1, 1), vec(1, 1)),
			portal(vec(1, 1), vec(1, 1)),
		}},
		{"collinear", []geometry.Portal{
			portal(vec(0, 0), vec(1, 0)),
			portal(vec(2, 0), vec(3, 0)),
			portal(vec(4, 0), vec(5, 0)),
			portal(vec(6, 0), vec(7, 0)),
		}},
		{"swapped orientation", []geometry.Portal{
			portal(vec(1, 0), vec(0, 1)),
			portal(vec(1, 0), vec(1, 1)),
			portal(vec(2, 0), vec(1, 1)),
		}},
		{"nan vertices", []geometry.Portal{
			portal(vec(0, 0), vec(0, 0)),
			portal(vec(nan, 1), vec(1, 0)),
			portal(vec(1, 1), vec(nan, nan)),
			portal(vec(2, 1), vec(2, 0)),
		}},
		{"infinite vertices", []geometry.Portal{
			portal(vec(0, 0), vec(0, 0)),
			portal(vec(inf, 1), vec(1, -inf)),
			portal(vec(1, 1), vec(2, 0)),
			portal(vec(-inf, inf), vec(2, 0)),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end := vec(9, 9)
			path := Build(nil, vec(0, 0), end, tt.portals)

			if len(path) < 1 || len(path) > len(tt.portals)+1 {
				t.Errorf("got %d points for %d portals", len(path), len(tt.portals))
			}
			if path[len(path)-1] != end {
				t.Errorf("last point %v is not end", path[len(path)-1])
			}
		})
	}
}

func TestBuild_TrailingCommitReplacedByEnd(t *testing.T) {
	// The corner vertex lies within tolerance of end
	start := vec(0.3, 0.3)
	end := vec(1.0002, 1.0001)

	path := Build(nil, start, end, cornerPortals(start, end))

	if len(path) != 1 || path[0] != end {
		t.Errorf("path = %v, want [%v]", path, end)
	}
}

func TestBuild_Concurrent(t *testing.T) {
	start := vec(0.3, 0.3)
	end := vec(1.4, 1.8)
	portals := cornerPortals(start, end)
	expected := Build(nil, start, end, portals)

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf []mgl64.Vec3
			for i := 0; i < 200; i++ {
				buf = Build(buf, start, end, portals)
				if len(buf) != len(expected) || buf[0] != expected[0] || buf[1] != expected[1] {
					errs <- "concurrent build diverged"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}

func BenchmarkBuild(b *testing.B) {
	r := rand.New(rand.NewSource(3))
	portals := randomPortals(r, 64)
	var buf []mgl64.Vec3

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = Build(buf, vec(0, 0), vec(9, 9), portals)
	}
}
