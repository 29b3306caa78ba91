package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Event         string      `json:"event"`         // e.g., "category.created"
	Version       string      `json:"version"`       // e.g., "v1"
	Timestamp     time.Time   `json:"timestamp"`     // Event occurrence time
	Payload       interface{} `json:"payload"`       // The actual event data
	TraceID       string      `json:"traceId"`       // For distributed tracing
	CorrelationID string      `json:"correlationId"` // For request correlation
}

type Headers struct {
	TraceID       string
	CorrelationID string
	Service       string
}

func NewEvent(eventName, version string, payload interface{}, headers Headers) *Event {
	return &Event{
		Event:         eventName,
		Version:       version,
		Timestamp:     time.Now().UTC(),
		Payload:       payload,
		TraceID:       headers.TraceID,
		CorrelationID: headers.CorrelationID,
	}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// DecodePayload re-encodes the generic payload into dst. Consumers receive
// Payload as a map after JSON decoding.
func (e *Event) DecodePayload(dst any) error {
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func (e *Event) GetRoutingKey() string {
	return e.Event + "." + e.Version
}

func GenerateTraceID() string {
	return uuid.New().String()
}

func GenerateCorrelationID() string {
	return uuid.New().String()
}
