package pusher

import (
	"fmt"
	"net/url"

	"github.com/kabili207/asakusa-tools/pkg/models"
)

// KeimaEngineName is the only message pusher engine the client can talk to.
const KeimaEngineName = "asakusasatellite::messagepusher::keima"

type EngineKind int

const (
	EngineUnsupported EngineKind = iota
	EngineKeima
)

func (k EngineKind) String() string {
	switch k {
	case EngineKeima:
		return "keima"
	default:
		return "unsupported"
	}
}

// Engine is the realtime transport the service advertises, with the
// parameters needed to reach it.
type Engine struct {
	Kind EngineKind
	URL  *url.URL
	Key  string
}

// EngineFor picks the engine described by the service info. The second
// result is false when the engine is unknown or its parameters are
// incomplete.
func EngineFor(mp models.MessagePusher) (Engine, bool) {
	if mp.Name == nil {
		return Engine{Kind: EngineUnsupported}, false
	}

	switch *mp.Name {
	case KeimaEngineName:
		rawURL, ok := mp.URL()
		if !ok {
			return Engine{Kind: EngineUnsupported}, false
		}
		key, ok := mp.Key()
		if !ok {
			return Engine{Kind: EngineUnsupported}, false
		}
		u, err := url.Parse(rawURL)
		if err != nil || u.Host == "" {
			return Engine{Kind: EngineUnsupported}, false
		}
		return Engine{Kind: EngineKeima, URL: u, Key: key}, true
	default:
		return Engine{Kind: EngineUnsupported}, false
	}
}

func (e Engine) String() string {
	if e.URL == nil {
		return fmt.Sprintf("Engine(%s)", e.Kind)
	}
	return fmt.Sprintf("Engine(%s %s)", e.Kind, e.URL)
}

// connectParams are the query parameters sent when opening the socket.
func (e Engine) connectParams() url.Values {
	switch e.Kind {
	case EngineKeima:
		return url.Values{"app": []string{e.Key}}
	default:
		return url.Values{}
	}
}
