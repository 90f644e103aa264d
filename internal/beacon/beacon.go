// Package beacon tells the server that this client is going away. The
// leave request is fire-and-forget: it never fails and never holds up
// shutdown longer than a fixed delay.
package beacon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Mavwarf/deskshell/internal/httputil"
)

// DefaultDelay is how long OnCloseRequested blocks after dispatching.
const DefaultDelay = 100 * time.Millisecond

// SessionSource supplies the current session. ok is false when either
// value is missing.
type SessionSource interface {
	Session() (token, server string, ok bool)
}

// Publisher fans the leave event out to a secondary channel.
type Publisher interface {
	Publish(payload []byte) error
}

// Recorder observes dispatched beacons.
type Recorder interface {
	LeaveSent(server string)
}

type leaveRequest struct {
	Token string `json:"token"`
}

type presenceEvent struct {
	Event  string `json:"event"`
	Server string `json:"server"`
	At     string `json:"at"`
}

// Notifier sends the leave beacon.
type Notifier struct {
	source    SessionSource
	client    *http.Client
	delay     time.Duration
	sleep     func(time.Duration)
	publisher Publisher
	recorder  Recorder
	log       *log.Entry

	wg sync.WaitGroup
}

// Option configures a Notifier.
type Option func(*Notifier)

func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) { n.client = c }
}

// WithDelay sets the post-dispatch delay. Negative values are treated as
// zero.
func WithDelay(d time.Duration) Option {
	return func(n *Notifier) {
		if d < 0 {
			d = 0
		}
		n.delay = d
	}
}

func WithSleep(sleep func(time.Duration)) Option {
	return func(n *Notifier) { n.sleep = sleep }
}

// WithPublisher adds a presence fan-out. The session token is never
// published.
func WithPublisher(p Publisher) Option {
	return func(n *Notifier) { n.publisher = p }
}

func WithRecorder(r Recorder) Option {
	return func(n *Notifier) { n.recorder = r }
}

func WithLogger(l *log.Entry) Option {
	return func(n *Notifier) { n.log = l }
}

// New returns a Notifier reading the session from source.
func New(source SessionSource, opts ...Option) *Notifier {
	n := &Notifier{
		source: source,
		client: httputil.Client,
		delay:  DefaultDelay,
		sleep:  time.Sleep,
		log:    log.WithField("component", "beacon"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// OnCloseRequested dispatches the beacon when a session exists, then
// blocks for the configured delay either way. It is called on the UI
// thread from the window close handler.
func (n *Notifier) OnCloseRequested() {
	n.Send()
	n.sleep(n.delay)
}

// Send starts the leave request in the background and reports whether one
// was started. Failures are logged at debug level and otherwise ignored.
func (n *Notifier) Send() bool {
	if n.source == nil {
		return false
	}
	token, server, ok := n.source.Session()
	if !ok {
		n.log.Debug("no session, skipping leave beacon")
		return false
	}
	endpoint, err := LeaveURL(server)
	if err != nil {
		n.log.Debugf("leave beacon: %v", err)
		return false
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout())
		defer cancel()
		if err := httputil.PostJSON(ctx, n.client, endpoint, leaveRequest{Token: token}); err != nil {
			n.log.Debugf("leave beacon: %v", err)
		}
		if n.recorder != nil {
			n.recorder.LeaveSent(server)
		}
	}()

	if n.publisher != nil {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			payload, _ := json.Marshal(presenceEvent{
				Event:  "leave",
				Server: server,
				At:     time.Now().UTC().Format(time.RFC3339),
			})
			if err := n.publisher.Publish(payload); err != nil {
				n.log.Debugf("presence publish: %v", err)
			}
		}()
	}
	return true
}

// Wait blocks until every dispatched beacon has finished. The close path
// never calls it.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) timeout() time.Duration {
	if n.client != nil && n.client.Timeout > 0 {
		return n.client.Timeout
	}
	return httputil.DefaultTimeout
}

// LeaveURL returns {server}/api/events/leave with trailing slashes
// stripped from server.
func LeaveURL(server string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(server), "/")
	u, err := url.Parse(base + "/api/events/leave")
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", server, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q", server)
	}
	return u.String(), nil
}
