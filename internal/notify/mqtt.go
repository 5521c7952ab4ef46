// Package notify publishes change events so other sessions can refresh
// without waiting for their next sync tick. Delivery is best-effort;
// consumers that miss a message still converge through the merge loop.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// DefaultTopic is where change events are published.
const DefaultTopic = "cinco/billing/changes"

// ChangeEvent is the payload published on every data change.
type ChangeEvent struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
}

// MQTTPublisher publishes change events to an MQTT broker.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// NewMQTTPublisher connects to the broker and returns a publisher.
func NewMQTTPublisher(broker, clientID, topic string) (*MQTTPublisher, error) {
	if topic == "" {
		topic = DefaultTopic
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &MQTTPublisher{client: client, topic: topic}, nil
}

// PublishChange publishes a change event of the given kind.
func (p *MQTTPublisher) PublishChange(kind string) error {
	payload, err := json.Marshal(ChangeEvent{Type: kind, At: time.Now()})
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, 0, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", p.topic, token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

// PublishChange does nothing.
func (NopPublisher) PublishChange(string) error { return nil }

// Close does nothing.
func (NopPublisher) Close() {}
