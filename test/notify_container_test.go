package test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	corenotify "github.com/solgrid/fieldmatch/core/notify"
	"github.com/solgrid/fieldmatch/infra/notify"
)

func waitForMQTTReady(broker string, timeout time.Duration) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("probe")
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		cli := paho.NewClient(opts)
		token := cli.Connect()
		token.Wait()
		if token.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		lastErr = token.Error()
		time.Sleep(100 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for broker")
	}
	return lastErr
}

func startMosquitto(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	conf := `listener 1883
allow_anonymous true
persistence false
log_dest stdout
log_type error
log_type warning
log_type notice
`
	dir := t.TempDir()
	path := filepath.Join(dir, "mosquitto.conf")
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		t.Fatalf("write conf: %v", err)
	}

	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{
			{
				HostFilePath:      path,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0644,
			},
		},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}
	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())
	if err := waitForMQTTReady(broker, 5*time.Second); err != nil {
		t.Logf("mosquitto not ready at %s: %v", broker, err)
		t.Skip("Mosquitto not ready after retries")
	}
	return cont, broker
}

func TestInstallerNoticeWithMQTTContainer(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx := context.Background()

	cont, broker := startMosquitto(ctx, t)
	defer func() { _ = cont.Terminate(ctx) }()

	subOpts := paho.NewClientOptions().AddBroker(broker).SetClientID("installer-sim")
	sub := paho.NewClient(subOpts)
	if token := sub.Connect(); token.Wait() && token.Error() != nil {
		t.Skipf("subscriber connect: %v", token.Error())
	}
	defer sub.Disconnect(100)

	received := make(chan corenotify.Notice, 1)
	if token := sub.Subscribe("fieldmatch/installer/inst-a/notice", 1, func(_ paho.Client, m paho.Message) {
		var n corenotify.Notice
		if err := json.Unmarshal(m.Payload(), &n); err != nil {
			t.Errorf("unmarshal notice: %v", err)
			return
		}
		select {
		case received <- n:
		default:
		}
	}); token.Wait() && token.Error() != nil {
		t.Fatalf("subscribe: %v", token.Error())
	}

	notifier, err := notify.NewPahoNotifier(notify.Config{
		Broker:   broker,
		ClientID: "fieldmatch-test",
		QoS:      1,
	})
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	defer notifier.Close()

	want := corenotify.Notice{
		Kind:    "award",
		JobID:   "job-delhi-1",
		Message: "bid bid-1 awarded",
		Amount:  90000,
	}
	if err := notifier.NotifyInstaller("inst-a", want); err != nil {
		t.Fatalf("notify: %v", err)
	}

	select {
	case got := <-received:
		if got.Kind != want.Kind || got.JobID != want.JobID || got.Message != want.Message || got.Amount != want.Amount {
			t.Errorf("notice mismatch: got %+v want %+v", got, want)
		}
		if got.SentAt.IsZero() {
			t.Error("sent_at not stamped")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("notice not delivered")
	}
}
