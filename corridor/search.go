package corridor

import (
	"container/heap"
	"fmt"

	"github.com/akmonengine/navfunnel/surface"
	"github.com/go-gl/mathgl/mgl64"
)

// heuristicScale keeps the distance estimate slightly under the true cost.
const heuristicScale = 0.999

const (
	nodeOpen uint8 = 1 << iota
	nodeClosed
)

// node is one triangle reached by the search. Its position is the midpoint of the edge it
// was first entered through.
type node struct {
	triangle int
	parent   *node
	pos      mgl64.Vec3
	cost     float64
	total    float64
	flags    uint8
	index    int
}

type nodeQueue []*node

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool { return q[i].total < q[j].total }

func (q nodeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *nodeQueue) Push(x interface{}) {
	n := x.(*node)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.index = -1
	*q = old[:len(old)-1]
	return n
}

// Search runs A* over the triangle adjacency of s, from triangle `from` (holding start) to
// triangle `to` (holding end). Moving between triangles costs the distance between the
// midpoints of the edges crossed; the last step also pays the distance to end.
//
// The returned corridor starts with `from` and ends with `to`.
func Search(s *surface.Surface, from, to int, start, end mgl64.Vec3) ([]int, error) {
	if _, err := s.GetTriangleByIndex(from); err != nil {
		return nil, fmt.Errorf("search start: %w", err)
	}
	if _, err := s.GetTriangleByIndex(to); err != nil {
		return nil, fmt.Errorf("search goal: %w", err)
	}
	if from == to {
		return []int{from}, nil
	}

	nodes := make(map[int]*node)
	open := make(nodeQueue, 0, 16)

	startNode := &node{
		triangle: from,
		pos:      start,
		total:    start.Sub(end).Len() * heuristicScale,
		flags:    nodeOpen,
	}
	nodes[from] = startNode
	heap.Push(&open, startNode)

	for open.Len() > 0 {
		best := heap.Pop(&open).(*node)
		best.flags &^= nodeOpen
		best.flags |= nodeClosed

		if best.triangle == to {
			return unwind(best), nil
		}

		for _, neighbour := range s.Neighbors(best.triangle) {
			if best.parent != nil && neighbour == best.parent.triangle {
				continue
			}

			n, seen := nodes[neighbour]
			if !seen {
				portal, ok := s.Portal(best.triangle, neighbour)
				if !ok {
					continue
				}
				n = &node{triangle: neighbour, pos: portal.Left.Add(portal.Right).Mul(0.5), index: -1}
				nodes[neighbour] = n
			}

			cost := best.cost + best.pos.Sub(n.pos).Len()
			heuristic := 0.0
			if neighbour == to {
				cost += n.pos.Sub(end).Len()
			} else {
				heuristic = n.pos.Sub(end).Len() * heuristicScale
			}
			total := cost + heuristic

			if n.flags&(nodeOpen|nodeClosed) != 0 && total >= n.total {
				continue
			}

			n.parent = best
			n.cost = cost
			n.total = total
			n.flags &^= nodeClosed

			if n.flags&nodeOpen != 0 {
				heap.Fix(&open, n.index)
			} else {
				n.flags |= nodeOpen
				heap.Push(&open, n)
			}
		}
	}

	return nil, fmt.Errorf("triangles %d -> %d: %w", from, to, ErrNoCorridor)
}

func unwind(n *node) []int {
	count := 0
	for it := n; it != nil; it = it.parent {
		count++
	}

	path := make([]int, count)
	for it := n; it != nil; it = it.parent {
		count--
		path[count] = it.triangle
	}
	return path
}
