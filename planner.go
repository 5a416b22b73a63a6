package navfunnel

import (
	"errors"
	"fmt"

	"github.com/akmonengine/navfunnel/corridor"
	"github.com/akmonengine/navfunnel/funnel"
	"github.com/akmonengine/navfunnel/geometry"
	"github.com/akmonengine/navfunnel/surface"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

var (
	ErrCorridorTooLong = errors.New("corridor exceeds the portal limit")
	ErrOffSurface      = errors.New("point cannot be placed on the surface")
)

type Planner struct {
	// Read-only while Plan or Update run
	Surface *surface.Surface
	// List of all agents moved by Update
	Agents  []*Agent
	Workers int
	// MaxPortals bounds the funnel cost of a single agent; 0 means unbounded
	MaxPortals     int
	CheckCorridors bool
	Logger         *zap.SugaredLogger

	Events Events

	locator *surface.Locator
}

// NewPlanner creates a planner over s. A configured cell size gives the planner its own
// point location grid; s itself is never modified.
func NewPlanner(s *surface.Surface, cfg Config, logger *zap.SugaredLogger) *Planner {
	if logger == nil {
		logger = nopLogger
	}

	return &Planner{
		locator:        surface.NewLocator(s, cfg.CellSize),
		Surface:        s,
		Workers:        cfg.Workers,
		MaxPortals:     cfg.MaxPortals,
		CheckCorridors: cfg.CheckCorridors,
		Logger:         logger,
		Events:         NewEvents(),
	}
}

// AddAgent adds an agent to the planner
func (p *Planner) AddAgent(agent *Agent) {
	p.Agents = append(p.Agents, agent)
}

// RemoveAgent removes an agent from the planner
func (p *Planner) RemoveAgent(agent *Agent) {
	k := -1
	for i, a := range p.Agents {
		if a == agent {
			k = i
			break
		}
	}

	if k != -1 {
		p.Agents = append(p.Agents[:k], p.Agents[k+1:]...)
	}
}

// Plan searches the corridor from the agent position to its destination and stores its
// portals on the agent. The path itself is built by the next Update.
func (p *Planner) Plan(agent *Agent) error {
	agent.pending = false

	from, err := p.place(agent.Position)
	if err != nil {
		return fmt.Errorf("position %v: %w", agent.Position, err)
	}
	to, err := p.place(agent.Destination)
	if err != nil {
		return fmt.Errorf("destination %v: %w", agent.Destination, err)
	}

	path, err := corridor.Search(p.Surface, from, to, agent.Position, agent.Destination)
	if err != nil {
		return err
	}
	if p.CheckCorridors {
		if err = corridor.Validate(p.Surface, path); err != nil {
			return err
		}
	}
	if p.MaxPortals > 0 && len(path)-1 > p.MaxPortals {
		return fmt.Errorf("%d portals, limit %d: %w", len(path)-1, p.MaxPortals, ErrCorridorTooLong)
	}

	agent.Portals, err = corridor.Portals(p.Surface, path, agent.Position, agent.Destination, agent.Portals)
	if err != nil {
		return err
	}
	agent.Corridor = append(agent.Corridor[:0], path...)
	agent.HasCorridorPath = true

	return nil
}

// place returns the triangle under point, or the closest one when point is off the mesh.
func (p *Planner) place(point mgl64.Vec3) (int, error) {
	if i, ok := p.locate(point); ok {
		return i, nil
	}
	if i, ok := p.Surface.FindClosestTriangle(point); ok {
		p.log().Debugf("point %v is off the surface, using closest triangle %d", point, i)
		return i, nil
	}
	return surface.NoTriangle, ErrOffSurface
}

// Update plans the agents that received a destination, then funnels every agent holding a
// fresh corridor. Both phases run on Workers goroutines; listeners are called afterwards,
// in agent order.
func (p *Planner) Update() {
	workers := max(DEFAULT_WORKERS, p.Workers)

	// Phase 1: corridor search
	task(workers, p.Agents, func(agent *Agent) {
		if !agent.pending {
			return
		}
		if err := p.Plan(agent); err != nil {
			p.log().Warnf("agent %v: no path to %v: %v", agent.Id, agent.Destination, err)
			agent.HasCorridorPath = false
			agent.setOutcome(PATH_FAILED, err)
		}
	})

	// Phase 2: funnel
	task(workers, p.Agents, func(agent *Agent) {
		if !agent.HasCorridorPath {
			return
		}
		p.funnel(agent)
	})

	// A funneled corridor needs no more funneling
	for _, agent := range p.Agents {
		if agent.outcome.set && agent.outcome.eventType == PATH_FUNNELED {
			agent.HasCorridorPath = false
		}
	}

	p.Events.recordOutcomes(p.Agents)
	p.Events.flush()
}

// funnel rebuilds the agent path from its portals. Only the direct case clears
// HasCorridorPath here; Update clears it for funneled corridors.
func (p *Planner) funnel(agent *Agent) {
	if len(agent.Portals) == 0 {
		agent.Path = funnel.Build(agent.Path, agent.Position, agent.Destination, nil)
		agent.PathLength = len(agent.Path)
		agent.CurrentPathIndex = 0
		agent.HasCorridorPath = false
		agent.setOutcome(PATH_DIRECT, nil)
		return
	}

	// The wrapping portals follow the agent
	agent.Portals[0] = geometry.Portal{Left: agent.Position, Right: agent.Position}
	agent.Portals[len(agent.Portals)-1] = geometry.Portal{Left: agent.Destination, Right: agent.Destination}

	agent.Path = append(agent.Path[:0], agent.Position)
	agent.Path = funnel.Append(agent.Path, agent.Position, agent.Destination, agent.Portals)
	agent.PathLength = len(agent.Path)
	agent.CurrentPathIndex = 0
	agent.setOutcome(PATH_FUNNELED, nil)

	p.log().Debugf("agent %v: %d portals funneled into %d points", agent.Id, len(agent.Portals), agent.PathLength)
}

func (p *Planner) locate(point mgl64.Vec3) (int, bool) {
	if p.locator == nil {
		return p.Surface.Locate(point)
	}
	return p.locator.Locate(point)
}

func (p *Planner) log() *zap.SugaredLogger {
	if p.Logger == nil {
		return nopLogger
	}
	return p.Logger
}
