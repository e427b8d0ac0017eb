package pusher

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Engine.IO packet types.
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'
	eioUpgrade = '5'
	eioNoop    = '6'
)

// Socket.IO packet types, carried inside Engine.IO messages.
const (
	sioConnect    = '0'
	sioDisconnect = '1'
	sioEvent      = '2'
	sioAck        = '3'
	sioError      = '4'
)

const engineIOVersion = "3"

type handshake struct {
	SID          string `json:"sid"`
	PingInterval int64  `json:"pingInterval"`
	PingTimeout  int64  `json:"pingTimeout"`
}

func (h handshake) interval() time.Duration {
	return time.Duration(h.PingInterval) * time.Millisecond
}

func (h handshake) timeout() time.Duration {
	return time.Duration(h.PingTimeout) * time.Millisecond
}

// socketURL turns the pusher URL into the websocket endpoint of its
// Socket.IO server.
func socketURL(e Engine) (string, error) {
	if e.URL == nil {
		return "", errors.New("engine has no url")
	}
	u := *e.URL
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", errors.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/socket.io/"

	q := u.Query()
	for k, vs := range e.connectParams() {
		q[k] = vs
	}
	q.Set("EIO", engineIOVersion)
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func parseHandshake(frame []byte) (handshake, error) {
	var h handshake
	if len(frame) == 0 || frame[0] != eioOpen {
		return h, errors.Errorf("expected open packet, got %q", frame)
	}
	if err := json.Unmarshal(frame[1:], &h); err != nil {
		return h, errors.Wrap(err, "unable to parse open packet")
	}
	return h, nil
}

// socketPacket is a decoded Socket.IO packet.
type socketPacket struct {
	Type      byte
	Namespace string
	AckID     int // -1 when no ack is requested
	Data      json.RawMessage
}

func parseSocketPacket(p string) (socketPacket, error) {
	pkt := socketPacket{AckID: -1}
	if p == "" {
		return pkt, errors.New("empty packet")
	}
	pkt.Type = p[0]
	rest := p[1:]

	if strings.HasPrefix(rest, "/") {
		i := strings.IndexByte(rest, ',')
		if i < 0 {
			pkt.Namespace, rest = rest, ""
		} else {
			pkt.Namespace, rest = rest[:i], rest[i+1:]
		}
	}

	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i > 0 {
		id, err := strconv.Atoi(rest[:i])
		if err != nil {
			return pkt, errors.Wrap(err, "bad ack id")
		}
		pkt.AckID = id
		rest = rest[i:]
	}

	if rest != "" {
		pkt.Data = json.RawMessage(rest)
	}
	return pkt, nil
}

// eventFrame encodes an event as a websocket text frame.
func eventFrame(name string, args ...any) ([]byte, error) {
	payload, err := json.Marshal(append([]any{name}, args...))
	if err != nil {
		return nil, err
	}
	return append([]byte{eioMessage, sioEvent}, payload...), nil
}

func ackFrame(id int) []byte {
	return []byte(fmt.Sprintf("%c%c%d[]", eioMessage, sioAck, id))
}

// splitEvent separates the event name from its arguments.
func splitEvent(data json.RawMessage) (string, []json.RawMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return "", nil, errors.Wrap(err, "event is not an array")
	}
	if len(parts) == 0 {
		return "", nil, errors.New("event has no name")
	}
	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return "", nil, errors.Wrap(err, "event name is not a string")
	}
	return name, parts[1:], nil
}
