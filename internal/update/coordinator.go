package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	goversion "github.com/hashicorp/go-version"
	log "github.com/sirupsen/logrus"

	"github.com/Mavwarf/deskshell/internal/httputil"
	"github.com/Mavwarf/deskshell/internal/version"
)

// maxManifestSize bounds the release manifest read from the server.
const maxManifestSize = 1 << 20

// Installer applies a downloaded, verified artifact.
type Installer interface {
	Install(ctx context.Context, a Artifact) error
}

// Verifier checks an artifact against the signature from the manifest.
type Verifier interface {
	Verify(data []byte, signature string) error
}

// Restarter replaces the running process. In production Restart does not
// return on success.
type Restarter interface {
	Restart() error
}

// Recorder observes check and install outcomes. An empty version with a
// nil error means no update was available.
type Recorder interface {
	CheckFinished(server, version string, err error)
	InstallFinished(version string, err error)
}

// Artifact is a downloaded release file.
type Artifact struct {
	Name string // base name taken from the download URL
	Data []byte
}

// Coordinator runs the check, confirm, install and restart flow.
type Coordinator struct {
	current    *goversion.Version
	currentRaw string

	client    *http.Client
	header    http.Header
	slot      *Slot
	installer Installer
	verifier  Verifier
	restarter Restarter
	recorder  Recorder
	log       *log.Entry

	target, arch string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithHTTPClient sets the client used for the check and the download.
func WithHTTPClient(c *http.Client) Option {
	return func(co *Coordinator) { co.client = c }
}

// WithSlot injects the pending-update slot.
func WithSlot(s *Slot) Option {
	return func(co *Coordinator) { co.slot = s }
}

// WithInstaller sets the installer. Default: BundleInstaller.
func WithInstaller(i Installer) Option {
	return func(co *Coordinator) { co.installer = i }
}

// WithVerifier sets the signature verifier. Without one, Install refuses
// to apply any artifact.
func WithVerifier(v Verifier) Option {
	return func(co *Coordinator) { co.verifier = v }
}

// WithRestarter sets the restarter. Default: ProcessRestarter.
func WithRestarter(r Restarter) Option {
	return func(co *Coordinator) { co.restarter = r }
}

// WithRecorder sets the history recorder.
func WithRecorder(r Recorder) Option {
	return func(co *Coordinator) {
		if r != nil {
			co.recorder = r
		}
	}
}

// WithLogger sets the log entry. Restart failures are logged at fatal
// level through it.
func WithLogger(l *log.Entry) Option {
	return func(co *Coordinator) { co.log = l }
}

// WithPlatform overrides the target and arch sent to the server.
func WithPlatform(target, arch string) Option {
	return func(co *Coordinator) {
		co.target = target
		co.arch = arch
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(co *Coordinator) { co.header.Add(key, value) }
}

// New returns a Coordinator for the running version current.
func New(current string, opts ...Option) (*Coordinator, error) {
	v, err := goversion.NewVersion(current)
	if err != nil {
		return nil, fmt.Errorf("update: current version %q: %w", current, err)
	}
	c := &Coordinator{
		current:    v,
		currentRaw: current,
		client:     httputil.Client,
		header:     http.Header{},
		slot:       &Slot{},
		installer:  NewBundleInstaller(),
		restarter:  ProcessRestarter{},
		recorder:   nopRecorder{},
		log:        log.WithField("component", "update"),
		target:     version.Target(),
		arch:       version.Arch(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Check asks server for a newer release. It returns nil, nil when the
// client is current; the pending slot is then left as it was. A newer
// release replaces whatever was pending.
func (c *Coordinator) Check(ctx context.Context, server string) (*UpdateInfo, error) {
	d, err := c.fetch(ctx, server)
	if err != nil {
		c.log.Warnf("update check against %s failed: %v", server, err)
		c.recorder.CheckFinished(server, "", err)
		return nil, err
	}
	if d == nil {
		c.log.Debugf("no update available (current %s)", c.currentRaw)
		c.recorder.CheckFinished(server, "", nil)
		return nil, nil
	}

	if c.slot.Store(d) {
		c.log.Infof("pending update replaced by %s", d.Version)
	} else {
		c.log.Infof("update %s available (current %s)", d.Version, c.currentRaw)
	}
	c.recorder.CheckFinished(server, d.Version, nil)
	return d.Info(), nil
}

func (c *Coordinator) fetch(ctx context.Context, server string) (*Descriptor, error) {
	endpoint, err := BuildEndpoint(server, c.target, c.arch, c.currentRaw)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	c.setHeaders(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkOrServer, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, nil
	case http.StatusOK:
	default:
		return nil, fmt.Errorf("%w: %v", ErrNetworkOrServer, httputil.CheckStatus(resp, "update check"))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest: %v", ErrNetworkOrServer, err)
	}
	d, err := parseManifest(data, c.target, c.arch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkOrServer, err)
	}

	remote, err := goversion.NewVersion(d.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: manifest version %q: %v", ErrNetworkOrServer, d.Version, err)
	}
	if !remote.GreaterThan(c.current) {
		return nil, nil
	}
	return d, nil
}

// Install takes the pending descriptor, downloads and verifies its
// artifact, installs it and restarts the process. The descriptor is
// consumed even when installation fails.
func (c *Coordinator) Install(ctx context.Context) error {
	d := c.slot.Take()
	if d == nil {
		return ErrNoPendingUpdate
	}

	c.log.Infof("installing update %s from %s", d.Version, d.handle.url)
	if err := c.apply(ctx, d); err != nil {
		c.log.Errorf("install %s failed: %v", d.Version, err)
		c.recorder.InstallFinished(d.Version, err)
		return fmt.Errorf("%w: %v", ErrDownloadOrInstall, err)
	}
	c.recorder.InstallFinished(d.Version, nil)

	c.log.Infof("update %s installed, restarting", d.Version)
	if err := c.restarter.Restart(); err != nil {
		c.log.Fatalf("restart after installing %s: %v", d.Version, err)
	}
	return nil
}

func (c *Coordinator) apply(ctx context.Context, d *Descriptor) error {
	if c.verifier == nil {
		return errors.New("no update signing key configured")
	}

	data, err := Download(ctx, c.client, d.handle.url, c.header, nil, nil)
	if err != nil {
		return err
	}
	if err := c.verifier.Verify(data, d.handle.signature); err != nil {
		return err
	}
	return c.installer.Install(ctx, Artifact{Name: artifactName(d.handle.url), Data: data})
}

// Pending returns the staged update, if any, without consuming it.
func (c *Coordinator) Pending() (*UpdateInfo, bool) {
	return c.slot.Peek()
}

// Current returns the running version.
func (c *Coordinator) Current() string {
	return c.currentRaw
}

func (c *Coordinator) setHeaders(req *http.Request) {
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", httputil.UserAgent())
}

func artifactName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return path.Base(rawURL)
	}
	return path.Base(u.Path)
}

type nopRecorder struct{}

func (nopRecorder) CheckFinished(string, string, error) {}
func (nopRecorder) InstallFinished(string, error)       {}
