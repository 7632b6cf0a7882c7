package mqtt

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ComNetsHH/FlowEmu/internal/pubsub"
	"github.com/ComNetsHH/FlowEmu/internal/registry"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t doneToken) Error() error { return t.err }

// pendingToken never completes, like an operation sent to a stalled broker.
type pendingToken struct{ done chan struct{} }

func (t pendingToken) Wait() bool { <-t.done; return true }
func (t pendingToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}
func (t pendingToken) Done() <-chan struct{} { return t.done }
func (t pendingToken) Error() error          { return nil }

type fakeMessage struct {
	paho.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

// fakeClient records the calls the transport makes. Methods it does not
// override panic through the nil embedded interface.
type fakeClient struct {
	paho.Client
	mu           sync.Mutex
	opts         *paho.ClientOptions
	subscribed   []string
	unsubscribed []string
	published    map[string][]byte
	disconnected bool
	publishErr   error
	stalled      bool
}

func (c *fakeClient) token(err error) paho.Token {
	if c.stalled {
		return pendingToken{done: make(chan struct{})}
	}
	return doneToken{err: err}
}

func (c *fakeClient) Connect() paho.Token { return doneToken{} }
func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected = true
}
func (c *fakeClient) Subscribe(topic string, _ byte, _ paho.MessageHandler) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribed = append(c.subscribed, topic)
	return c.token(nil)
}
func (c *fakeClient) Unsubscribe(topics ...string) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unsubscribed = append(c.unsubscribed, topics...)
	return c.token(nil)
}
func (c *fakeClient) Publish(topic string, _ byte, _ bool, payload any) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published[topic] = payload.([]byte)
	return c.token(c.publishErr)
}

func newTestTransport(t *testing.T, rawURL string) (*Transport, *fakeClient) {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	fake := &fakeClient{published: map[string][]byte{}}
	tr := New(registry.TransportConfig{URL: u})
	tr.newClient = func(o *paho.ClientOptions) paho.Client {
		fake.opts = o
		return fake
	}
	return tr, fake
}

func TestClientOptions(t *testing.T) {
	t.Parallel()
	// Arrange
	tr, fake := newTestTransport(t, "ws://user:secret@broker.local:9001/mqtt")

	// Act
	err := tr.Connect(context.Background(), pubsub.ConnectOptions{KeepAlive: 10 * time.Second, CleanSession: true}, pubsub.Events{})

	// Assert
	require.NoError(t, err)
	o := fake.opts
	require.Len(t, o.Servers, 1)
	assert.Equal(t, "ws://broker.local:9001/mqtt", o.Servers[0].String())
	assert.True(t, strings.HasPrefix(o.ClientID, ClientIDPrefix))
	assert.Equal(t, "user", o.Username)
	assert.Equal(t, "secret", o.Password)
	assert.Equal(t, int64(10), o.KeepAlive)
	assert.True(t, o.CleanSession)
	assert.False(t, o.ResumeSubs)
	assert.True(t, o.AutoReconnect)
	assert.True(t, o.ConnectRetry)
	assert.False(t, o.Order)
}

func TestClientID(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "fixed", ClientID("fixed"))
	assert.NotEqual(t, ClientID(""), ClientID(""))
}

func TestCallbacksReachEvents(t *testing.T) {
	t.Parallel()
	// Arrange
	tr, fake := newTestTransport(t, "tcp://localhost:1883")
	var got []string
	ev := pubsub.Events{
		OnConnect:        func() { got = append(got, "connect") },
		OnConnectionLost: func(err error) { got = append(got, "lost:"+err.Error()) },
		OnMessage:        func(topic string, payload []byte) { got = append(got, topic+"="+string(payload)) },
	}
	require.NoError(t, tr.Connect(context.Background(), pubsub.ConnectOptions{}, ev))

	// Act
	fake.opts.OnConnect(fake)
	fake.opts.DefaultPublishHandler(fake, fakeMessage{topic: "get/paths", payload: []byte("[]")})
	fake.opts.OnConnectionLost(fake, errors.New("eof"))

	// Assert
	assert.Equal(t, []string{"connect", "get/paths=[]", "lost:eof"}, got)
	assert.Equal(t, int64(pubsub.DefaultKeepAlive/time.Second), fake.opts.KeepAlive)
}

func TestOperations(t *testing.T) {
	t.Parallel()
	tr, fake := newTestTransport(t, "tcp://localhost:1883")

	assert.Error(t, tr.Publish("x", nil), "publish before connect")

	require.NoError(t, tr.Connect(context.Background(), pubsub.ConnectOptions{}, pubsub.Events{}))
	assert.Error(t, tr.Connect(context.Background(), pubsub.ConnectOptions{}, pubsub.Events{}))
	require.NoError(t, tr.Subscribe("get/module/+"))
	require.NoError(t, tr.Unsubscribe("get/module/+"))
	require.NoError(t, tr.Publish("set/paths", []byte("[]")))

	fake.publishErr = errors.New("not connected")
	err := tr.Publish("set/paths", []byte("[]"))
	assert.ErrorContains(t, err, "mqtt publish")

	require.NoError(t, tr.Close())
	assert.Equal(t, []string{"get/module/+"}, fake.subscribed)
	assert.Equal(t, []string{"get/module/+"}, fake.unsubscribed)
	assert.Equal(t, []byte("[]"), fake.published["set/paths"])
	assert.True(t, fake.disconnected)
	assert.Error(t, tr.Subscribe("x"), "subscribe after close")
}

func TestOperations_DoNotWaitForBroker(t *testing.T) {
	t.Parallel()
	// Arrange
	tr, fake := newTestTransport(t, "tcp://localhost:1883")
	fake.stalled = true
	require.NoError(t, tr.Connect(context.Background(), pubsub.ConnectOptions{}, pubsub.Events{}))

	// Act
	returned := make(chan []error, 1)
	go func() {
		returned <- []error{
			tr.Subscribe("get/module/+"),
			tr.Publish("set/paths", []byte("[]")),
			tr.Unsubscribe("get/module/+"),
		}
	}()

	// Assert
	select {
	case errs := <-returned:
		assert.Equal(t, []error{nil, nil, nil}, errs)
	case <-time.After(time.Second):
		t.Fatal("transport operations blocked on unacknowledged tokens")
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []string{"get/module/+"}, fake.subscribed)
	assert.Equal(t, []string{"get/module/+"}, fake.unsubscribed)
	assert.Equal(t, []byte("[]"), fake.published["set/paths"])
}

func TestRegister(t *testing.T) {
	t.Parallel()
	r := registry.New()
	(&Module{}).Register(r)

	u, err := r.ValidateBroker(context.Background(), "mqtts://broker:8883")
	require.NoError(t, err)
	tr, err := r.NewTransport(context.Background(), registry.TransportConfig{URL: u})
	require.NoError(t, err)
	assert.IsType(t, &Transport{}, tr)
}
