package navfunnel

const (
	PATH_DIRECT EventType = iota
	PATH_FUNNELED
	PATH_FAILED
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// PathDirectEvent - the destination is in line of sight, the path is [position, destination]
type PathDirectEvent struct {
	Agent *Agent
}

func (e PathDirectEvent) Type() EventType { return PATH_DIRECT }

// PathFunneledEvent - a corridor was funneled into a path of Points points
type PathFunneledEvent struct {
	Agent  *Agent
	Points int
}

func (e PathFunneledEvent) Type() EventType { return PATH_FUNNELED }

// PathFailedEvent - no path could be planned toward the destination
type PathFailedEvent struct {
	Agent *Agent
	Err   error
}

func (e PathFailedEvent) Type() EventType { return PATH_FAILED }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 256),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordOutcomes turns what the parallel phase left on each agent into events, in agent
// order. Outcomes are consumed.
func (e *Events) recordOutcomes(agents []*Agent) {
	for _, agent := range agents {
		if !agent.outcome.set {
			continue
		}

		switch agent.outcome.eventType {
		case PATH_DIRECT:
			e.buffer = append(e.buffer, PathDirectEvent{Agent: agent})
		case PATH_FUNNELED:
			e.buffer = append(e.buffer, PathFunneledEvent{Agent: agent, Points: agent.PathLength})
		case PATH_FAILED:
			e.buffer = append(e.buffer, PathFailedEvent{Agent: agent, Err: agent.outcome.err})
		}
		agent.outcome = outcome{}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
