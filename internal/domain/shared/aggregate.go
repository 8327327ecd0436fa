package shared

// AggregateRoot is an entity that owns a consistency boundary. Mutations
// bump the version and queue domain events; the application layer pulls the
// events once the transaction has committed.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot is embedded by Product and Order
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion bumps the version and stamps UpdatedAt
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
	a.Touch()
}

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the queued events without clearing them
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// PullDomainEvents returns the queued events and clears the queue
func PullDomainEvents(agg AggregateRoot) []DomainEvent {
	events := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	return events
}

// NewBaseAggregateRoot starts a new aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}
