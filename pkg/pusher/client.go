package pusher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/kabili207/asakusa-tools/pkg/metrics"
	"github.com/kabili207/asakusa-tools/pkg/models"
)

const (
	EventConnect       = "connect"
	EventSubscribe     = "subscribe"
	EventMessageCreate = "message_create"

	writeTimeout = 10 * time.Second
)

var (
	ErrNotConnected     = errors.New("message pusher is not connected")
	ErrAlreadyConnected = errors.New("message pusher was already connected")
)

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

type Option func(*Client)

func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithPingInterval overrides the ping interval announced by the server.
func WithPingInterval(d time.Duration) Option {
	return func(c *Client) { c.pingInterval = d }
}

// Client follows the messages of one room through the message pusher.
// A Client connects once; following another pusher, or reconnecting,
// takes a new Client.
type Client struct {
	engine       Engine
	roomID       string
	dialer       *websocket.Dialer
	logger       logrus.FieldLogger
	metrics      *metrics.Metrics
	pingInterval time.Duration

	mu              sync.Mutex
	state           State
	used            bool
	closing         bool
	conn            *websocket.Conn
	onMessageCreate func(models.Message)
	err             error

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

func New(engine Engine, roomID string, opts ...Option) *Client {
	c := &Client{
		engine: engine,
		roomID: roomID,
		dialer: websocket.DefaultDialer,
		logger: logrus.StandardLogger(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithFields(logrus.Fields{
		"engine":  engine.Kind.String(),
		"room_id": roomID,
	})
	return c
}

func (c *Client) String() string {
	return fmt.Sprintf("MessagePusherClient(%s, roomID: %s)", c.engine, c.roomID)
}

func (c *Client) Engine() Engine { return c.engine }

func (c *Client) RoomID() string { return c.roomID }

// OnMessageCreate registers the callback for new messages. Callbacks run
// one at a time on the connection's reader goroutine.
func (c *Client) OnMessageCreate(fn func(models.Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessageCreate = fn
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the connection has ended.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns why the connection ended, or nil when it was closed by Close
// or is still open.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Connect opens the socket and completes the Engine.IO handshake. The room
// subscription is sent as soon as the server confirms the connection.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		return ErrNotConnected
	}
	if c.used {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.used = true
	c.state = StateConnecting
	c.mu.Unlock()

	conn, h, err := c.dial(ctx)
	if err != nil {
		c.shutdown(err)
		return err
	}

	c.mu.Lock()
	if c.closing {
		// Close ran while dialing
		c.mu.Unlock()
		conn.Close()
		return ErrNotConnected
	}
	c.conn = conn
	c.mu.Unlock()

	interval := c.pingInterval
	if interval <= 0 {
		interval = h.interval()
	}

	c.logger.WithField("sid", h.SID).Debug("Message pusher handshake complete")

	go c.readLoop(conn, interval+h.timeout())
	if interval > 0 {
		go c.pingLoop(interval)
	}
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, handshake, error) {
	target, err := socketURL(c.engine)
	if err != nil {
		return nil, handshake{}, errors.Wrap(err, "unable to build message pusher url")
	}

	conn, _, err := c.dialer.DialContext(ctx, target, nil)
	if err != nil {
		return nil, handshake{}, errors.Wrap(err, "unable to connect to message pusher")
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}
	_, frame, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, handshake{}, errors.Wrap(err, "unable to read message pusher handshake")
	}
	_ = conn.SetReadDeadline(time.Time{})

	h, err := parseHandshake(frame)
	if err != nil {
		conn.Close()
		return nil, handshake{}, err
	}
	return conn, h, nil
}

// Subscribe asks the server for the messages of the client's room.
func (c *Client) Subscribe() error {
	frame, err := eventFrame(EventSubscribe, "as-"+c.roomID)
	if err != nil {
		return err
	}
	return c.write(frame)
}

// Close ends the connection. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.closing = true
	c.mu.Unlock()

	if conn != nil {
		_ = c.write([]byte{eioMessage, sioDisconnect})
		c.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeTimeout))
		c.writeMu.Unlock()
	}
	c.shutdown(nil)
	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *Client) write(frame []byte) error {
	c.mu.Lock()
	conn := c.conn
	state := c.state
	c.mu.Unlock()
	if conn == nil || state == StateDisconnected {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, frame)
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	prev := c.state
	c.state = s
	c.mu.Unlock()

	if prev != StateConnected && s == StateConnected {
		c.metrics.ObservePusherConnected(true)
	}
	if prev == StateConnected && s != StateConnected {
		c.metrics.ObservePusherConnected(false)
	}
}

func (c *Client) shutdown(err error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		c.setState(StateDisconnected)
		if err != nil {
			c.logger.WithError(err).Warn("Message pusher disconnected")
		} else {
			c.logger.Debug("Message pusher closed")
		}
		close(c.done)
	})
}

func (c *Client) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.write([]byte{eioPing}); err != nil {
				c.logger.WithError(err).Debug("Unable to ping message pusher")
				return
			}
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn, idle time.Duration) {
	for {
		if idle > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(idle))
		}
		_, frame, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closing := c.closing
			c.mu.Unlock()
			if closing {
				c.shutdown(nil)
			} else {
				c.shutdown(errors.Wrap(err, "message pusher connection lost"))
			}
			return
		}
		if !c.handleFrame(frame) {
			conn.Close()
			return
		}
	}
}

// handleFrame processes one Engine.IO packet and reports whether the
// connection is still open.
func (c *Client) handleFrame(frame []byte) bool {
	if len(frame) == 0 {
		return true
	}

	switch frame[0] {
	case eioPing:
		_ = c.write(append([]byte{eioPong}, frame[1:]...))
	case eioPong, eioNoop, eioUpgrade:
	case eioClose:
		c.shutdown(errors.New("message pusher closed the connection"))
		return false
	case eioMessage:
		return c.handlePacket(string(frame[1:]))
	default:
		c.logger.WithField("frame", string(frame)).Debug("Ignoring unknown message pusher frame")
	}
	return true
}

func (c *Client) handlePacket(p string) bool {
	pkt, err := parseSocketPacket(p)
	if err != nil {
		c.logger.WithError(err).Warn("Unable to parse message pusher packet")
		return true
	}

	switch pkt.Type {
	case sioConnect:
		c.setState(StateConnected)
		if err := c.Subscribe(); err != nil {
			c.logger.WithError(err).Warn("Unable to subscribe to room")
		}
	case sioDisconnect:
		c.shutdown(errors.New("message pusher disconnected the socket"))
		return false
	case sioEvent:
		if pkt.AckID >= 0 {
			if err := c.write(ackFrame(pkt.AckID)); err != nil {
				c.logger.WithError(err).Debug("Unable to ack message pusher event")
			}
		}
		c.handleEvent(pkt.Data)
	case sioError:
		c.logger.WithField("error", string(pkt.Data)).Warn("Message pusher reported an error")
	case sioAck:
	}
	return true
}

func (c *Client) handleEvent(data json.RawMessage) {
	name, args, err := splitEvent(data)
	if err != nil {
		c.logger.WithError(err).Warn("Unable to parse message pusher event")
		return
	}

	switch name {
	case EventMessageCreate:
		c.handleMessageCreate(args)
	default:
		c.logger.WithField("event", name).Debug("Ignoring message pusher event")
	}
}

type messageEnvelope struct {
	Content *models.Message `json:"content"`
}

// handleMessageCreate decodes a message_create event. Its arguments follow
// the Pusher convention: the event id, then the content as a JSON string.
func (c *Client) handleMessageCreate(args []json.RawMessage) {
	strs := make([]string, 0, len(args))
	for _, a := range args {
		var s string
		if err := json.Unmarshal(a, &s); err != nil {
			c.logger.WithField("args", fmt.Sprintf("%s", args)).Warn("Unexpected message_create arguments")
			c.metrics.ObservePusherEvent(EventMessageCreate, metrics.DiscardedReasonBadPayload)
			return
		}
		strs = append(strs, s)
	}
	if len(strs) < 2 {
		c.logger.WithField("args", strs).Warn("Unexpected message_create arguments")
		c.metrics.ObservePusherEvent(EventMessageCreate, metrics.DiscardedReasonBadPayload)
		return
	}

	env, err := models.Decode[messageEnvelope]([]byte(strs[1]))
	if err == nil && env.Content == nil {
		err = errors.Wrap(models.ErrMalformedResponse, "message_create has no content")
	}
	if err != nil {
		c.logger.WithError(err).WithField("event_id", strs[0]).Warn("Cannot parse message_create content")
		c.metrics.ObservePusherEvent(EventMessageCreate, metrics.DiscardedReasonDecodeFailed)
		return
	}

	c.metrics.ObservePusherEvent(EventMessageCreate, metrics.DiscardedReasonNone)

	c.mu.Lock()
	fn := c.onMessageCreate
	c.mu.Unlock()
	if fn != nil {
		fn(*env.Content)
	}
}
