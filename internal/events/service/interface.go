// Package service provides the stateless building blocks of the event pipeline:
// mapping packages to events and encoding events for the broker.
package service

import eventsDomain "github.com/startupheroes/package-events/internal/events/domain"

// Serializer encodes events into broker payloads.
type Serializer interface {
	// Serialize encodes the event. Nil fields are written as explicit nulls.
	Serialize(event *eventsDomain.PackageEvent) ([]byte, error)
	// ContentType names the encoding, used as a message header.
	ContentType() string
}
