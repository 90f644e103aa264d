package mqtt

import (
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const timeout = 5 * time.Second

// Options identifies a broker and the credentials used to reach it.
type Options struct {
	Broker   string
	ClientID string // empty generates "deskshell-<uuid>"
	Username string
	Password string
	QoS      byte
	Retain   bool
}

// clientID returns o.ClientID or a fresh random one.
func (o Options) clientID() string {
	if o.ClientID != "" {
		return o.ClientID
	}
	return "deskshell-" + uuid.NewString()
}

// Publish connects to an MQTT broker, publishes a message to the given
// topic, and disconnects. Each invocation creates a fresh connection.
func Publish(o Options, topic string, payload []byte) error {
	opts := pahomqtt.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.clientID()).
		SetConnectTimeout(timeout).
		SetAutoReconnect(false)

	if o.Username != "" {
		opts.SetUsername(o.Username)
	}
	if o.Password != "" {
		opts.SetPassword(o.Password)
	}

	client := pahomqtt.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt: connect timeout")
	}
	if tok.Error() != nil {
		return fmt.Errorf("mqtt: connect: %w", tok.Error())
	}
	defer client.Disconnect(250)

	pub := client.Publish(topic, o.QoS, o.Retain, payload)
	if !pub.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt: publish timeout")
	}
	if pub.Error() != nil {
		return fmt.Errorf("mqtt: publish: %w", pub.Error())
	}
	return nil
}

// Publisher adapts Publish to a fixed broker and topic.
type Publisher struct {
	Options Options
	Topic   string
}

// Publish sends payload to p.Topic.
func (p Publisher) Publish(payload []byte) error {
	return Publish(p.Options, p.Topic, payload)
}
