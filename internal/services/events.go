package services

import "github.com/sirupsen/logrus"

// Routing keys of the published domain events.
const (
	EventUserRegistered     = "user.registered"
	EventUserProfileUpdated = "user.profile_updated"
	EventUserDeleted        = "user.deleted"
	EventProductCreated     = "product.created"
	EventProductUpdated     = "product.updated"
	EventProductDeleted     = "product.deleted"
)

// EventPublisher publishes domain events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	PublishEvent(routingKey string, payload interface{}) error
}

// userEvent is the payload of the user.* events.
type userEvent struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// publish sends an event after the store mutation has been committed. A
// failure is logged and never undoes the mutation.
func publish(events EventPublisher, logger *logrus.Logger, routingKey string, payload interface{}) {
	if events == nil {
		return
	}
	if err := events.PublishEvent(routingKey, payload); err != nil {
		logger.WithError(err).WithField("routing_key", routingKey).Warn("failed to publish event")
	}
}

func orStandard(logger *logrus.Logger) *logrus.Logger {
	if logger == nil {
		return logrus.StandardLogger()
	}
	return logger
}
