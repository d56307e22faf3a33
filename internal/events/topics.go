package events

import "fmt"

// Source identifies this service in published events.
const Source = "service-transit"

// Change actions appended to the collection name to form an event type.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionCleared = "cleared"
)

// Topic returns the topic carrying change events for a collection,
// e.g. "transit.route.events".
func Topic(prefix, collection string) string {
	if prefix == "" {
		return collection + ".events"
	}
	return fmt.Sprintf("%s.%s.events", prefix, collection)
}

// EventType returns "<collection>.<action>", e.g. "vehicle.deleted".
func EventType(collection, action string) string {
	return collection + "." + action
}

// ChangeEvent is the payload of every change event. Entity is omitted for
// deletions.
type ChangeEvent struct {
	Collection string      `json:"collection"`
	Action     string      `json:"action"`
	ID         string      `json:"id,omitempty"`
	Entity     interface{} `json:"entity,omitempty"`
}
