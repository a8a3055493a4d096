package notify

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	corenotify "github.com/solgrid/fieldmatch/core/notify"
	"github.com/solgrid/fieldmatch/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT notifier.
type Config struct {
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
	TimeoutMS   int    `json:"timeout_ms"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "fieldmatch-notifier"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "fieldmatch"
	}
	if c.TimeoutMS == 0 {
		c.TimeoutMS = 5000
	}
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// PahoNotifier publishes notices to per-installer MQTT topics
// (<prefix>/installer/<id>/notice).
type PahoNotifier struct {
	cli     pahoClient
	prefix  string
	qos     byte
	timeout time.Duration
	log     logger.Logger
}

// NewPahoNotifier connects to the MQTT broker.
func NewPahoNotifier(cfg Config) (*PahoNotifier, error) {
	cfg.SetDefaults()
	log := logger.New("mqtt_notifier")

	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected") }
	opts.OnConnectionLost = func(_ paho.Client, err error) { log.Errorf("connection lost: %v", err) }

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &PahoNotifier{
		cli:     c,
		prefix:  cfg.TopicPrefix,
		qos:     cfg.QoS,
		timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		log:     log,
	}, nil
}

// NotifyInstaller publishes the notice as JSON on the installer's topic.
func (p *PahoNotifier) NotifyInstaller(installerID string, n corenotify.Notice) error {
	if n.SentAt.IsZero() {
		n.SentAt = time.Now().UTC()
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/installer/%s/notice", p.prefix, installerID)
	token := p.cli.Publish(topic, p.qos, false, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return err
	}
	p.log.Debugw("notice published", map[string]any{"topic": topic, "kind": n.Kind, "job_id": n.JobID})
	return nil
}

// Close disconnects from the broker.
func (p *PahoNotifier) Close() {
	p.cli.Disconnect(250)
}
