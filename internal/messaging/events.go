package messaging

const (
	EventUserCreated     = "USER_CREATED"
	EventUserDeactivated = "USER_DEACTIVATED"

	RoutingKeyUserCreated     = "user.created"
	RoutingKeyUserDeactivated = "user.deactivated"

	DefaultExchange = "user.exchange"
)

// UserCreatedEvent is the body sent on user.created.
type UserCreatedEvent struct {
	EventType string `json:"eventType"`
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Timestamp int64  `json:"timestamp"`
}

// UserDeactivatedEvent is the body sent on user.deactivated.
type UserDeactivatedEvent struct {
	EventType string `json:"eventType"`
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	Timestamp int64  `json:"timestamp"`
}
