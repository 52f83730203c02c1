// Package domain defines the event published for each delivery package.
package domain

import (
	"strconv"
	"time"
)

// TimestampLayout renders event timestamps with microsecond precision.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// PackageEvent is the outbound message derived from a package. A nil field means
// the value was not computed and is distinct from zero or false.
type PackageEvent struct {
	ID                 int64   `json:"id"                 msgpack:"id"`
	CreatedAt          *string `json:"createdAt"          msgpack:"createdAt"`
	LastUpdatedAt      *string `json:"lastUpdatedAt"      msgpack:"lastUpdatedAt"`
	CollectionDuration *int    `json:"collectionDuration" msgpack:"collectionDuration"`
	DeliveryDuration   *int    `json:"deliveryDuration"   msgpack:"deliveryDuration"`
	ETA                *int    `json:"eta"                msgpack:"eta"`
	LeadTime           *int    `json:"leadTime"           msgpack:"leadTime"`
	OrderInTime        *bool   `json:"orderInTime"        msgpack:"orderInTime"`
}

// Key returns the broker message key for the event.
func (e *PackageEvent) Key() string {
	return strconv.FormatInt(e.ID, 10)
}

// HasTimingMetrics reports whether any derived metric is present.
func (e *PackageEvent) HasTimingMetrics() bool {
	return e.CollectionDuration != nil || e.DeliveryDuration != nil || e.LeadTime != nil ||
		e.OrderInTime != nil
}

// FormatTimestamp renders t with TimestampLayout, or nil when t is nil.
func FormatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(TimestampLayout)
	return &formatted
}
