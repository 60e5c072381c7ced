package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации для события.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации доменных событий.
const (
	RoutingKeyAccountDeleted      = "account.deleted"
	RoutingKeyEnrollmentConfirmed = "enrollment.confirmed"
)

// GetEventQueues возвращает очереди доменных событий маркетплейса.
func GetEventQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "events.account-deleted", RoutingKey: RoutingKeyAccountDeleted},
		{QueueName: "events.enrollment-confirmed", RoutingKey: RoutingKeyEnrollmentConfirmed},
	}
}
