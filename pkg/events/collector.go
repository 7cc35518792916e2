package events

// EventCollector is embedded in aggregates to buffer domain events raised by
// state transitions until the application layer publishes them.
type EventCollector struct {
	events []DomainEvent
}

// Record appends domain events in the order they were raised.
func (c *EventCollector) Record(evts ...DomainEvent) {
	c.events = append(c.events, evts...)
}

// Events returns the buffered events without clearing them.
func (c *EventCollector) Events() []DomainEvent {
	return c.events
}

// Pending reports how many events are buffered.
func (c *EventCollector) Pending() int {
	return len(c.events)
}

// ClearEvents returns the buffered events and empties the buffer.
func (c *EventCollector) ClearEvents() []DomainEvent {
	collected := c.events
	c.events = nil
	return collected
}
