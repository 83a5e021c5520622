package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arasfeld/rent-app/internal/infrastructure/config"
)

func TestEventTopic(t *testing.T) {
	assert.Equal(t, "rentapp/owner-1/lease.created", EventTopic("rentapp", "owner-1", EventLeaseCreated))
	assert.Equal(t, "prod/rentapp/o/payment.recorded", EventTopic("prod/rentapp", "o", EventPaymentRecorded))
}

func TestNewEventServiceDisabled(t *testing.T) {
	events := NewEventService(&config.Config{MQTTEnabled: false})
	assert.IsType(t, NoopEventService{}, events)
	assert.NoError(t, events.Connect())
	events.Publish("o", EventLeaseCreated, nil)
	events.Disconnect()
}

func TestPublishWithoutConnectionIsDropped(t *testing.T) {
	events := &MQTTEventService{Config: &config.Config{MQTTTopicPrefix: "rentapp"}}
	assert.NotPanics(t, func() {
		events.Publish("owner-1", EventPaymentCreated, map[string]string{"id": "p1"})
	})
}

func TestEventMessageEnvelope(t *testing.T) {
	raw, err := json.Marshal(EventMessage{
		Type:      EventLeaseRemoved,
		OwnerID:   "owner-1",
		Timestamp: 1700000000000,
		Payload:   map[string]string{"id": "l1"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"lease.removed","ownerId":"owner-1","timestamp":1700000000000,"payload":{"id":"l1"}}`, string(raw))
}
