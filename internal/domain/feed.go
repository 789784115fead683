// internal/domain/feed.go
package domain

// EventType тип сущности, к которой относится событие ленты
type EventType string

const (
	EventLike   EventType = "LIKE"
	EventReview EventType = "REVIEW"
	EventFriend EventType = "FRIEND"
)

// Operation действие над сущностью
type Operation string

const (
	OperationAdd    Operation = "ADD"
	OperationRemove Operation = "REMOVE"
	OperationUpdate Operation = "UPDATE"
)

// FeedEvent запись журнала действий пользователя. Timestamp в миллисекундах.
type FeedEvent struct {
	EventID   int64     `json:"eventId" db:"event_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	EntityID  int64     `json:"entityId" db:"entity_id"`
	EventType EventType `json:"eventType" db:"event_type"`
	Operation Operation `json:"operation" db:"operation"`
	Timestamp int64     `json:"timestamp" db:"created_at"`
}
