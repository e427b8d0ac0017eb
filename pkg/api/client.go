//go:generate mockery --name=AsakusaClient
package api

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"

	"github.com/kabili207/asakusa-tools/pkg/metrics"
	"github.com/kabili207/asakusa-tools/pkg/models"
	"github.com/kabili207/asakusa-tools/pkg/pusher"
)

const (
	DefaultRootURL = "https://asakusa-satellite.herokuapp.com/"

	apiPath = "api/v1"
)

// AsakusaClient is the set of operations the command line tools rely on.
type AsakusaClient interface {
	ServiceInfo(ctx context.Context) (models.ServiceInfo, error)
	User(ctx context.Context) (models.User, error)
	RoomList(ctx context.Context) (models.Many[models.Room], error)
	PostMessage(ctx context.Context, message, roomID string, files []string) (models.PostMessage, error)
	MessageList(ctx context.Context, params MessageListParams) (models.Many[models.Message], error)
	AddDevice(ctx context.Context, deviceToken []byte, name string) (models.Nothing, error)
	MessagePusher(ctx context.Context, roomID string) (*pusher.Client, error)
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Its cookie jar, if any,
// is still cleared for the root URL.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithPusherOptions are passed to every message pusher the client creates.
func WithPusherOptions(opts ...pusher.Option) Option {
	return func(c *Client) { c.pusherOptions = append(c.pusherOptions, opts...) }
}

type Client struct {
	rootURL       *url.URL
	apiBaseURL    *url.URL
	apiKey        string
	httpClient    *http.Client
	logger        logrus.FieldLogger
	metrics       *metrics.Metrics
	pusherOptions []pusher.Option

	mu         sync.Mutex
	lastPusher *pusher.Client
}

var _ AsakusaClient = (*Client)(nil)

// NewClient creates a client for the service at rootURL. An empty apiKey
// sends requests without one, which the server answers with an
// authentication error.
//
// Cookies held for rootURL are dropped first, so a session left over from
// another key cannot make an invalid key look valid.
func NewClient(rootURL, apiKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(rootURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid root url %q", rootURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid root url %q: scheme and host are required", rootURL)
	}

	c := &Client{
		rootURL:    u,
		apiBaseURL: u.JoinPath(apiPath),
		apiKey:     apiKey,
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, errors.Wrap(err, "unable to create cookie jar")
		}
		c.httpClient = &http.Client{Jar: jar, Timeout: 30 * time.Second}
	}
	clearCookies(c.httpClient.Jar, c.sessionURLs()...)

	return c, nil
}

// MustNewClient is like NewClient but panics on a malformed root URL.
func MustNewClient(rootURL, apiKey string, opts ...Option) *Client {
	c, err := NewClient(rootURL, apiKey, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Client) RootURL() *url.URL {
	u := *c.rootURL
	return &u
}

// ResolveURL resolves a possibly relative URL, such as an attachment's,
// against the root URL.
func (c *Client) ResolveURL(ref string) (*url.URL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	return c.rootURL.ResolveReference(r), nil
}

// clearCookies expires every cookie the jar would send to any of urls,
// whether it was stored host-only or for a parent domain, on every path
// leading to them. urls must share a host.
func clearCookies(jar http.CookieJar, urls ...*url.URL) {
	if jar == nil || len(urls) == 0 {
		return
	}

	var names []string
	seen := map[string]bool{}
	urlPaths := make([]string, 0, len(urls))
	for _, u := range urls {
		urlPaths = append(urlPaths, u.Path)
		for _, cookie := range jar.Cookies(u) {
			if !seen[cookie.Name] {
				seen[cookie.Name] = true
				names = append(names, cookie.Name)
			}
		}
	}
	if len(names) == 0 {
		return
	}

	paths := cookiePaths(urlPaths...)
	domains := cookieDomains(urls[0].Hostname())

	expired := make([]*http.Cookie, 0, len(names)*len(paths)*(len(domains)+1))
	for _, name := range names {
		for _, p := range paths {
			expired = append(expired, &http.Cookie{Name: name, Path: p, MaxAge: -1})
			for _, d := range domains {
				expired = append(expired, &http.Cookie{Name: name, Path: p, Domain: d, MaxAge: -1})
			}
		}
	}
	jar.SetCookies(urls[0], expired)
}

// sessionURLs are the URLs whose cookies are cleared when a client is built.
func (c *Client) sessionURLs() []*url.URL {
	endpoints := []Endpoint{
		ServiceInfoEndpoint(),
		UserEndpoint(),
		RoomListEndpoint(),
		PostMessageEndpoint("", "", nil),
		MessageListEndpoint(MessageListParams{}),
		AddDeviceEndpoint(nil, ""),
	}
	urls := []*url.URL{c.rootURL, c.apiBaseURL}
	for _, e := range endpoints {
		urls = append(urls, c.apiBaseURL.JoinPath(e.Path))
	}
	return urls
}

// cookiePaths lists every path prefix of the given URL paths, starting at "/".
// A cookie stored without a Path defaults to one of them.
func cookiePaths(urlPaths ...string) []string {
	paths := []string{"/"}
	seen := map[string]bool{"/": true}
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for _, up := range urlPaths {
		prefix := ""
		for _, seg := range strings.Split(strings.Trim(up, "/"), "/") {
			if seg == "" {
				continue
			}
			prefix += "/" + seg
			add(prefix)
		}
		add(up)
	}
	return paths
}

// cookieDomains returns host and each of its parent domains down to the
// registrable domain. Hosts without one, such as IPs or localhost, only
// get host-only cookies so the list is empty.
func cookieDomains(host string) []string {
	if net.ParseIP(host) != nil {
		return nil
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return nil
	}

	domains := []string{host}
	for d := host; d != registrable; {
		i := strings.IndexByte(d, '.')
		if i < 0 {
			break
		}
		d = d[i+1:]
		domains = append(domains, d)
	}
	return domains
}

func (c *Client) ServiceInfo(ctx context.Context) (models.ServiceInfo, error) {
	return request[models.ServiceInfo](ctx, c, ServiceInfoEndpoint(), acceptSuccess)
}

func (c *Client) User(ctx context.Context) (models.User, error) {
	return request[models.User](ctx, c, UserEndpoint(), acceptSuccess)
}

func (c *Client) RoomList(ctx context.Context) (models.Many[models.Room], error) {
	return request[models.Many[models.Room]](ctx, c, RoomListEndpoint(), acceptSuccess)
}

func (c *Client) PostMessage(ctx context.Context, message, roomID string, files []string) (models.PostMessage, error) {
	return request[models.PostMessage](ctx, c, PostMessageEndpoint(message, roomID, files), acceptSuccess)
}

func (c *Client) MessageList(ctx context.Context, params MessageListParams) (models.Many[models.Message], error) {
	return request[models.Many[models.Message]](ctx, c, MessageListEndpoint(params), acceptSuccess)
}

func (c *Client) AddDevice(ctx context.Context, deviceToken []byte, name string) (models.Nothing, error) {
	return request[models.Nothing](ctx, c, AddDeviceEndpoint(deviceToken, name), acceptOK)
}

// MessagePusher prepares a realtime client for roomID. It returns nil
// without an error when the service uses a pusher this client does not
// support. The returned client is not connected yet.
func (c *Client) MessagePusher(ctx context.Context, roomID string) (*pusher.Client, error) {
	info, err := c.ServiceInfo(ctx)
	if err != nil {
		return nil, err
	}

	logger := c.logger.WithField("room_id", roomID)
	engine, ok := pusher.EngineFor(info.MessagePusher)
	if !ok {
		name := "<none>"
		if info.MessagePusher.Name != nil {
			name = *info.MessagePusher.Name
		}
		logger.WithField("engine", name).Info("Message pusher is not supported")
		return nil, nil
	}

	opts := []pusher.Option{pusher.WithLogger(c.logger), pusher.WithMetrics(c.metrics)}
	p := pusher.New(engine, roomID, append(opts, c.pusherOptions...)...)

	c.mu.Lock()
	c.lastPusher = p
	c.mu.Unlock()

	logger.WithField("engine", engine.String()).Debug("Created message pusher")
	return p, nil
}

// LastPusher returns the most recent client created by MessagePusher.
func (c *Client) LastPusher() *pusher.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPusher
}

func request[T any](ctx context.Context, c *Client, e Endpoint, accept statusCheck) (T, error) {
	var zero T
	logger := c.logger.WithField("endpoint", e.Name)

	req, err := e.NewRequest(ctx, c.apiBaseURL, c.apiKey)
	if err != nil {
		c.metrics.IncrementAPIErrors(e.Name)
		return zero, errors.Wrapf(err, "unable to build %s request", e.Name)
	}

	c.metrics.IncrementAPIRequests(e.Name)
	start := time.Now()
	statusCode := 0
	defer func() {
		c.metrics.ObserveAPIRequestDuration(e.Name, strconv.Itoa(statusCode), time.Since(start).Seconds())
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.IncrementAPIErrors(e.Name)
		logger.WithError(err).Warn("Request failed")
		return zero, errors.Wrapf(err, "%s request failed", e.Name)
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncrementAPIErrors(e.Name)
		logger.WithError(err).Warn("Unable to read response")
		return zero, errors.Wrapf(err, "unable to read %s response", e.Name)
	}

	if !accept(resp.StatusCode) {
		c.metrics.IncrementAPIErrors(e.Name)
		statusErr := newStatusError(e.Name, resp.StatusCode, body)
		logger.WithField("status_code", resp.StatusCode).Warn("Unexpected response status")
		return zero, statusErr
	}

	body, err = e.ModifyJSON(body)
	if err != nil {
		c.metrics.IncrementAPIErrors(e.Name)
		return zero, errors.Wrapf(err, "unable to process %s response", e.Name)
	}

	v, err := models.Decode[T](body)
	if err != nil {
		c.metrics.IncrementAPIErrors(e.Name)
		logger.WithError(err).Warn("Unable to decode response")
		return zero, err
	}
	return v, nil
}
