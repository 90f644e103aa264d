package main

import (
	"context"
	"os"
	"sync"

	"github.com/energye/systray"
	log "github.com/sirupsen/logrus"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/Mavwarf/deskshell/internal/config"
	"github.com/Mavwarf/deskshell/internal/cooldown"
	"github.com/Mavwarf/deskshell/internal/opener"
	"github.com/Mavwarf/deskshell/internal/services"
	"github.com/Mavwarf/deskshell/internal/session"
	"github.com/Mavwarf/deskshell/internal/toast"
	"github.com/Mavwarf/deskshell/internal/update"
	"github.com/Mavwarf/deskshell/internal/version"
	"github.com/Mavwarf/deskshell/internal/winstate"
)

// EventUpdateAvailable is emitted to the web UI with an *update.UpdateInfo.
const EventUpdateAvailable = "update-available"

// App is the Wails application: lifecycle hooks plus the methods bound
// into the web UI.
type App struct {
	ctx   context.Context
	cfg   config.Config
	svc   *services.Services
	ready chan struct{} // closed when Wails startup completes

	closeOnce sync.Once
	pendingFn func(bool) // tray hook, set once the tray is ready
	mu        sync.Mutex
}

func newApp(cfg config.Config) *App {
	return &App{cfg: cfg, ready: make(chan struct{})}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	if a.cfg.Window.RememberState {
		if st, ok := winstate.Load(winstate.Path()); ok {
			wailsRuntime.WindowSetSize(ctx, st.Width, st.Height)
			wailsRuntime.WindowSetPosition(ctx, st.X, st.Y)
			if st.Maximised {
				wailsRuntime.WindowMaximise(ctx)
			}
		}
	}
	close(a.ready)
}

func (a *App) domReady(ctx context.Context) {
	if a.cfg.Update.CheckOnStartup {
		go a.backgroundCheck()
	}
}

func (a *App) shutdown(ctx context.Context) {
	systray.Quit()
}

// beforeClose saves the window geometry and fires the leave beacon, then
// lets the window close.
func (a *App) beforeClose(ctx context.Context) bool {
	a.onClose()
	return false
}

func (a *App) onClose() {
	a.closeOnce.Do(func() {
		if a.cfg.Window.RememberState {
			a.saveWindowState()
		}
		a.svc.Beacon.OnCloseRequested()
	})
}

func (a *App) saveWindowState() {
	w, h := wailsRuntime.WindowGetSize(a.ctx)
	x, y := wailsRuntime.WindowGetPosition(a.ctx)
	st := winstate.State{X: x, Y: y, Width: w, Height: h, Maximised: wailsRuntime.WindowIsMaximised(a.ctx)}
	if err := winstate.Save(winstate.Path(), st); err != nil {
		log.Warnf("save window state: %v", err)
	}
}

// quit runs the close path and stops the application.
func (a *App) quit() {
	<-a.ready
	a.onClose()
	wailsRuntime.Quit(a.ctx)
}

// exit is used by the restarter after a successful install.
func (a *App) exit(code int) {
	systray.Quit()
	os.Exit(code)
}

// ShowWindow brings the main window to the front.
func (a *App) ShowWindow() {
	<-a.ready // wait for Wails to be initialized
	wailsRuntime.WindowShow(a.ctx)
	wailsRuntime.WindowUnminimise(a.ctx)
}

// CheckForUpdate asks server (or the configured server when empty) for a
// newer release. It returns nil when the app is current.
func (a *App) CheckForUpdate(server string) (*update.UpdateInfo, error) {
	info, err := a.svc.Updates.Check(a.context(), a.svc.UpdateServer(server))
	if err != nil {
		return nil, err
	}
	a.setPending(a.hasPending())
	return info, nil
}

// InstallUpdate installs the pending update and restarts. It only returns
// on failure.
func (a *App) InstallUpdate() error {
	err := a.svc.Updates.Install(a.context())
	a.setPending(a.hasPending())
	return err
}

// PendingUpdate returns the staged update, or nil.
func (a *App) PendingUpdate() *update.UpdateInfo {
	info, _ := a.svc.Updates.Pending()
	return info
}

// SetSession mirrors the web UI's session so the leave beacon can use it.
func (a *App) SetSession(token, server string) error {
	return a.svc.Sessions.Save(session.State{Token: token, Server: server})
}

// ClearSession forgets the mirrored session, e.g. on logout.
func (a *App) ClearSession() error {
	return a.svc.Sessions.Clear()
}

// OpenURL opens an http(s) or mailto link outside the app.
func (a *App) OpenURL(url string) error {
	return opener.OpenURL(url)
}

// Version returns the running version.
func (a *App) Version() string {
	return version.Version
}

func (a *App) backgroundCheck() {
	server := a.cfg.Update.Server
	if server == "" {
		return
	}
	key := cooldown.UpdateCheckKey(server)
	if !cooldown.Due(key, a.cfg.CheckInterval()) {
		log.Debugf("update check skipped (checked within %s)", a.cfg.CheckInterval())
		return
	}

	info, err := a.CheckForUpdate(server)
	if err != nil {
		return // logged by the coordinator
	}
	cooldown.Record(key)
	if info != nil {
		a.announce(info)
	}
}

// announce tells the user and the web UI about a staged update.
func (a *App) announce(info *update.UpdateInfo) {
	wailsRuntime.EventsEmit(a.ctx, EventUpdateAvailable, info)
	title, message := toast.UpdateAvailable(info.Version)
	if err := toast.Show(title, message); err != nil {
		log.Debugf("toast: %v", err)
	}
}

func (a *App) hasPending() bool {
	_, ok := a.svc.Updates.Pending()
	return ok
}

func (a *App) setPending(ok bool) {
	a.mu.Lock()
	fn := a.pendingFn
	a.mu.Unlock()
	if fn != nil {
		fn(ok)
	}
}

func (a *App) onPendingChange(fn func(bool)) {
	a.mu.Lock()
	a.pendingFn = fn
	a.mu.Unlock()
}

func (a *App) context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}
