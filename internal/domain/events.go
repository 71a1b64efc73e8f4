package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventUsageObserved    EventType = "UsageObserved"
	EventUpdateDispatched EventType = "UpdateDispatched"
	EventQueryFailed      EventType = "QueryFailed"
	EventError            EventType = "Error"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventWatchStarted     EventType = "WatchStarted"
	EventWorkspaceAdded   EventType = "WorkspaceAdded"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// UsageObservedEvent is emitted when an event source sees an interaction
// with a path. The tracker decides whether it becomes an engine update.
type UsageObservedEvent struct {
	Event UsageEvent
}

func (e UsageObservedEvent) Type() EventType { return EventUsageObserved }

// UpdateDispatchedEvent is emitted after an update was handed to the engine,
// regardless of whether the engine accepted it.
type UpdateDispatchedEvent struct {
	Path     string
	Weight   float64
	Category Category
}

func (e UpdateDispatchedEvent) Type() EventType { return EventUpdateDispatched }

// QueryFailedEvent is emitted when a find invocation fails. The interactive
// session still receives an empty result list; this event is diagnostic only.
type QueryFailedEvent struct {
	Query string
	Err   error
}

func (e QueryFailedEvent) Type() EventType { return EventQueryFailed }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// WatchStartedEvent is emitted when filesystem watching begins
type WatchStartedEvent struct {
	Roots []string
}

func (e WatchStartedEvent) Type() EventType { return EventWatchStarted }

// WorkspaceAddedEvent is emitted when a new directory joins the watch set
type WorkspaceAddedEvent struct {
	Path string
}

func (e WorkspaceAddedEvent) Type() EventType { return EventWorkspaceAdded }
