package amqp

import (
	"encoding/json"
	"time"

	"pantrypal/internal/core"
)

// ActivityMessage mirrors one user_activity row for downstream audit
// consumers. The row itself is already persisted by the web process; the
// message is a best-effort fan-out.
type ActivityMessage struct {
	UserID    int64     `json:"user_id"`
	Type      string    `json:"activity_type"`
	Details   string    `json:"activity_details"`
	Timestamp time.Time `json:"timestamp"`
}

func NewActivityMessage(userID int64, typ core.ActivityType, details string) *ActivityMessage {
	return &ActivityMessage{
		UserID:    userID,
		Type:      string(typ),
		Details:   details,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ActivityMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ActivityMessageFromJSON creates a message from JSON bytes
func ActivityMessageFromJSON(data []byte) (*ActivityMessage, error) {
	var msg ActivityMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
