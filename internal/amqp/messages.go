package amqp

import (
	"encoding/json"
	"time"
)

// EventSeeded is the event name carried by SeedCompletedMessage.
const EventSeeded = "transactions.seeded"

// SeedCompletedMessage announces that the transaction store was populated
// from the remote feed.
type SeedCompletedMessage struct {
	Event     string    `json:"event"`
	Count     int       `json:"count"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSeedCompletedMessage creates a seed event stamped with the current time
func NewSeedCompletedMessage(count int, source string) *SeedCompletedMessage {
	return &SeedCompletedMessage{
		Event:     EventSeeded,
		Count:     count,
		Source:    source,
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SeedCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SeedCompletedMessageFromJSON creates a message from JSON bytes
func SeedCompletedMessageFromJSON(data []byte) (*SeedCompletedMessage, error) {
	var msg SeedCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
