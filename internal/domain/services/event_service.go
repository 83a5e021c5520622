package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/arasfeld/rent-app/internal/infrastructure/config"
	"github.com/arasfeld/rent-app/pkg/logger"
)

// Domain events published to <prefix>/<ownerId>/<event>
const (
	EventLeaseCreated    = "lease.created"
	EventLeaseUpdated    = "lease.updated"
	EventLeaseRemoved    = "lease.removed"
	EventPaymentCreated  = "payment.created"
	EventPaymentRecorded = "payment.recorded"
)

// InterfaceEventService publishes domain events for other consumers
// (notification workers, portals). Publishing is best effort.
type InterfaceEventService interface {
	Connect() error
	Disconnect()
	Publish(ownerID, event string, payload interface{})
}

// EventMessage is the envelope written to the broker
type EventMessage struct {
	Type      string      `json:"type"`
	OwnerID   string      `json:"ownerId"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// MQTTEventService publishes events over MQTT
type MQTTEventService struct {
	Config         *config.Config
	Client         mqtt.Client
	isConnected    bool
	connectedMutex sync.RWMutex
}

// NewEventService returns an MQTT publisher, or a no-op one when MQTT is disabled
func NewEventService(cfg *config.Config) InterfaceEventService {
	if !cfg.MQTTEnabled {
		return NoopEventService{}
	}

	s := &MQTTEventService{Config: cfg}
	s.initClient()
	return s
}

func (s *MQTTEventService) initClient() {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.Config.MQTTBrokerURL)
	opts.SetClientID(s.Config.MQTTClientID)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetConnectTimeout(5 * time.Second)
	opts.SetCleanSession(true)

	if s.Config.MQTTUsername != "" {
		opts.SetUsername(s.Config.MQTTUsername)
		opts.SetPassword(s.Config.MQTTPassword)
	}

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		logger.Warning("[MQTT] connection lost: %v", err)
		s.setConnected(false)
	})
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		logger.Info("[MQTT] connected to %s", s.Config.MQTTBrokerURL)
		s.setConnected(true)
	})
	opts.SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
		logger.Info("[MQTT] reconnecting...")
	})

	s.Client = mqtt.NewClient(opts)
}

func (s *MQTTEventService) setConnected(v bool) {
	s.connectedMutex.Lock()
	s.isConnected = v
	s.connectedMutex.Unlock()
}

func (s *MQTTEventService) connected() bool {
	s.connectedMutex.RLock()
	defer s.connectedMutex.RUnlock()
	return s.isConnected && s.Client.IsConnected()
}

// Connect retries with exponential backoff: 1s, 2s, 4s
func (s *MQTTEventService) Connect() error {
	if s.connected() {
		return nil
	}

	const maxRetries = 3
	var err error
	for i := 0; i < maxRetries; i++ {
		token := s.Client.Connect()
		if token.WaitTimeout(5*time.Second) && token.Error() == nil {
			s.setConnected(true)
			return nil
		}
		err = token.Error()
		backoff := time.Duration(1<<uint(i)) * time.Second
		logger.Warning("[MQTT] connect attempt %d/%d failed: %v, retrying in %v", i+1, maxRetries, err, backoff)
		time.Sleep(backoff)
	}
	return fmt.Errorf("mqtt connect failed after %d attempts: %v", maxRetries, err)
}

func (s *MQTTEventService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
	s.setConnected(false)
}

// Publish never blocks the caller on a dead broker for longer than the publish timeout
// and never returns an error; failures are logged
func (s *MQTTEventService) Publish(ownerID, event string, payload interface{}) {
	if !s.connected() {
		logger.Warning("[MQTT] not connected, dropping %s for owner %s", event, ownerID)
		return
	}

	data, err := json.Marshal(EventMessage{
		Type:      event,
		OwnerID:   ownerID,
		Timestamp: time.Now().UnixMilli(),
		Payload:   payload,
	})
	if err != nil {
		logger.Error("[MQTT] marshal %s failed: %v", event, err)
		return
	}

	topic := EventTopic(s.Config.MQTTTopicPrefix, ownerID, event)
	token := s.Client.Publish(topic, byte(s.Config.MQTTQoS), false, data)
	if !token.WaitTimeout(3 * time.Second) {
		logger.Warning("[MQTT] publish to %s timed out", topic)
		return
	}
	if token.Error() != nil {
		logger.Warning("[MQTT] publish to %s failed: %v", topic, token.Error())
		return
	}
	logger.Debug("[MQTT] published %s", topic)
}

// EventTopic builds <prefix>/<ownerId>/<event>
func EventTopic(prefix, ownerID, event string) string {
	return fmt.Sprintf("%s/%s/%s", prefix, ownerID, event)
}

// NoopEventService drops every event
type NoopEventService struct{}

func (NoopEventService) Connect() error { return nil }
func (NoopEventService) Disconnect() {}
func (NoopEventService) Publish(string, string, interface{}) {}
