package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"

	"github.com/Mavwarf/deskshell/internal/config"
	"github.com/Mavwarf/deskshell/internal/logging"
	"github.com/Mavwarf/deskshell/internal/procwait"
	"github.com/Mavwarf/deskshell/internal/services"
	"github.com/Mavwarf/deskshell/internal/update"
	"github.com/Mavwarf/deskshell/internal/version"
)

//go:embed all:frontend
var assets embed.FS

// waitPIDTimeout bounds how long a relaunched app waits for its
// predecessor.
const waitPIDTimeout = 30 * time.Second

type appArgs struct {
	configPath string
	waitPID    int
	debug      bool
}

func parseArgs(args []string) (appArgs, error) {
	var a appArgs
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config", "-c":
			if i+1 >= len(args) {
				return a, fmt.Errorf("%s requires a path", args[i])
			}
			a.configPath = args[i+1]
			i++
		case update.WaitPIDFlag:
			if i+1 >= len(args) {
				return a, fmt.Errorf("%s requires a pid", args[i])
			}
			pid, err := strconv.Atoi(args[i+1])
			if err != nil {
				return a, fmt.Errorf("%s: %w", args[i], err)
			}
			a.waitPID = pid
			i++
		case "--debug":
			a.debug = true
		}
	}
	return a, nil
}

func main() {
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "deskshell-app: %v\n", err)
		os.Exit(1)
	}

	cfg, cfgPath, err := config.Load(args.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "deskshell-app: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "deskshell-app: %v\n", err)
		os.Exit(1)
	}
	if args.debug {
		cfg.Log.Level = "debug"
	}
	if err := logging.Init(cfg.Log.Level, cfg.LogFile()); err != nil {
		fmt.Fprintf(os.Stderr, "deskshell-app: %v\n", err)
		os.Exit(1)
	}
	log.Infof("deskshell-app %s starting (config %q)", version.Full(), cfgPath)

	if args.waitPID > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), waitPIDTimeout)
		if err := procwait.Wait(ctx, args.waitPID); err != nil && !errors.Is(err, procwait.ErrNotFound) {
			log.Warnf("waiting for previous instance %d: %v", args.waitPID, err)
		}
		cancel()
	}

	app := newApp(cfg)
	svc, err := services.New(cfg, services.Options{
		UpdateOptions: []update.Option{
			update.WithRestarter(update.ProcessRestarter{Exit: app.exit}),
		},
	})
	if err != nil {
		log.Fatalf("deskshell-app: %v", err)
	}
	defer svc.Close()
	app.svc = svc

	go runTray(app)

	frontend, err := fs.Sub(assets, "frontend")
	if err != nil {
		log.Fatalf("deskshell-app: %v", err)
	}

	err = wails.Run(&options.App{
		Title:     "deskshell",
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		MinWidth:  800,
		MinHeight: 600,
		AssetServer: &assetserver.Options{
			Assets: frontend,
		},
		BackgroundColour: &options.RGBA{R: 26, G: 27, B: 38, A: 255}, // #1a1b26
		OnStartup:        app.startup,
		OnDomReady:       app.domReady,
		OnBeforeClose:    app.beforeClose,
		OnShutdown:       app.shutdown,
		Bind:             []interface{}{app},
		Mac: &mac.Options{
			About: &mac.AboutInfo{
				Title:   "deskshell",
				Message: version.Full(),
			},
		},
	})
	if err != nil {
		log.Fatalf("deskshell-app: %v", err)
	}
}
