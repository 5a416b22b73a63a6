package navfunnel

import (
	"github.com/akmonengine/navfunnel/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Agent is a walker steered along the surface. The planner only touches an agent during
// Plan and Update, and every buffer below belongs to that agent alone.
type Agent struct {
	Id interface{}

	Position    mgl64.Vec3
	Destination mgl64.Vec3

	// Corridor is the triangle chain from the start triangle to the destination triangle
	Corridor []int
	// Portals crossed along Corridor, wrapped by the start and destination points
	Portals []geometry.Portal

	// Path starts with the position the agent had when it was funneled
	Path             []mgl64.Vec3
	PathLength       int
	CurrentPathIndex int

	// HasCorridorPath is set by Plan and cleared once the corridor has been funneled
	HasCorridorPath bool

	pending bool
	outcome outcome
}

// outcome is what the last Update did to the agent, turned into an event on flush.
type outcome struct {
	set       bool
	eventType EventType
	err       error
}

func NewAgent(id interface{}, position mgl64.Vec3) *Agent {
	return &Agent{
		Id:       id,
		Position: position,
	}
}

// SetDestination asks for a new path; the corridor is searched on the next Update.
func (a *Agent) SetDestination(destination mgl64.Vec3) {
	a.Destination = destination
	a.pending = true
}

// NextWaypoint returns the path point the agent is heading to.
func (a *Agent) NextWaypoint() (mgl64.Vec3, bool) {
	if a.CurrentPathIndex < 0 || a.CurrentPathIndex >= a.PathLength {
		return mgl64.Vec3{}, false
	}
	return a.Path[a.CurrentPathIndex], true
}

// AdvanceWaypoint moves the cursor to the next path point and reports whether one is left.
func (a *Agent) AdvanceWaypoint() bool {
	if a.CurrentPathIndex < a.PathLength {
		a.CurrentPathIndex++
	}
	return a.CurrentPathIndex < a.PathLength
}

// Arrived reports whether every point of the path has been consumed.
func (a *Agent) Arrived() bool {
	return a.CurrentPathIndex >= a.PathLength
}

func (a *Agent) setOutcome(eventType EventType, err error) {
	a.outcome = outcome{set: true, eventType: eventType, err: err}
}
