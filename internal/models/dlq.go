package models

import "time"

// DLQMessage wraps a message that could not be handled or delivered.
// Reason is set when the message was dead-lettered by the saga step itself.
type DLQMessage struct {
	OriginalTopic string    `json:"original_topic"`
	Key           string    `json:"key"`
	Value         string    `json:"value"`
	Reason        string    `json:"reason,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	Attempts      int       `json:"attempts"`
}
