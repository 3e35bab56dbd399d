package rabbitmq_test

import (
	"encoding/json"
	"io"
	"testing"

	"akun/pkg/rabbitmq"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	ev := rabbitmq.NewEvent("product.created", map[string]string{"id": "p-1"})

	assert.Equal(t, "product.created", ev.Type)
	assert.False(t, ev.OccurredAt.IsZero())

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"product.created"`)
	assert.Contains(t, string(b), `"data":{"id":"p-1"}`)
}

func TestLogEvent(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	handle := rabbitmq.LogEvent(logger)

	body, _ := json.Marshal(rabbitmq.NewEvent("user.deleted", map[string]string{"id": "u-1"}))
	assert.NoError(t, handle(amqp.Delivery{Body: body}))
	assert.Error(t, handle(amqp.Delivery{Body: []byte("not json")}))
}
