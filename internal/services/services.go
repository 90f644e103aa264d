// Package services assembles the update coordinator, leave beacon,
// session store and history log from a Config. Both binaries use it.
package services

import (
	"fmt"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Mavwarf/deskshell/internal/beacon"
	"github.com/Mavwarf/deskshell/internal/config"
	"github.com/Mavwarf/deskshell/internal/eventlog"
	"github.com/Mavwarf/deskshell/internal/httputil"
	"github.com/Mavwarf/deskshell/internal/mqtt"
	"github.com/Mavwarf/deskshell/internal/paths"
	"github.com/Mavwarf/deskshell/internal/session"
	"github.com/Mavwarf/deskshell/internal/update"
	"github.com/Mavwarf/deskshell/internal/version"
)

// Services holds the wired components.
type Services struct {
	Config   config.Config
	Updates  *update.Coordinator
	Beacon   *beacon.Notifier
	Sessions *session.Store
	History  eventlog.Store
}

// Options tunes New. Zero values use production defaults.
type Options struct {
	DataDir       string // default paths.DataDir()
	Version       string // default version.Version
	UpdateOptions []update.Option
	BeaconOptions []beacon.Option
}

// New builds every component from cfg. The caller must Close the result.
func New(cfg config.Config, o Options) (*Services, error) {
	if o.DataDir == "" {
		o.DataDir = paths.DataDir()
	}
	if o.Version == "" {
		o.Version = version.Version
	}

	history, err := eventlog.Open(cfg.Storage, o.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	rec := eventlog.NewRecorder(history)
	client := httputil.NewClient(time.Duration(cfg.Update.TimeoutSeconds) * time.Second)

	uopts := []update.Option{
		update.WithHTTPClient(client),
		update.WithRecorder(rec),
	}
	if cfg.Update.PublicKey != "" {
		v, err := update.NewMinisignVerifier(cfg.Update.PublicKey)
		if err != nil {
			history.Close()
			return nil, fmt.Errorf("update public key: %w", err)
		}
		log.Debugf("update signatures checked against key %s", v.KeyID())
		uopts = append(uopts, update.WithVerifier(v))
	} else {
		log.Warn("no update public key configured; updates cannot be installed")
	}
	coord, err := update.New(o.Version, append(uopts, o.UpdateOptions...)...)
	if err != nil {
		history.Close()
		return nil, err
	}

	sessions := session.NewStore(filepath.Join(o.DataDir, paths.SessionFileName))
	bopts := []beacon.Option{
		beacon.WithHTTPClient(client),
		beacon.WithDelay(time.Duration(cfg.Leave.DelayMillis) * time.Millisecond),
		beacon.WithRecorder(rec),
	}
	if m := cfg.Leave.MQTT; m.Broker != "" {
		bopts = append(bopts, beacon.WithPublisher(mqtt.Publisher{
			Options: mqtt.Options{Broker: m.Broker, Username: m.Username, Password: m.Password, QoS: m.QoS},
			Topic:   m.Topic,
		}))
	}

	return &Services{
		Config:   cfg,
		Updates:  coord,
		Beacon:   beacon.New(sessions, append(bopts, o.BeaconOptions...)...),
		Sessions: sessions,
		History:  history,
	}, nil
}

// UpdateServer returns server, or the configured one when empty.
func (s *Services) UpdateServer(server string) string {
	if server != "" {
		return server
	}
	return s.Config.Update.Server
}

// Close releases the history store.
func (s *Services) Close() error {
	return s.History.Close()
}
