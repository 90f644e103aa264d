package main

import (
	"runtime"

	"github.com/energye/systray"
	log "github.com/sirupsen/logrus"

	"github.com/Mavwarf/deskshell/internal/icon"
	"github.com/Mavwarf/deskshell/internal/toast"
)

const trayIconSize = 64

// runTray starts the system tray icon. Must be called in a goroutine;
// systray.Run blocks until Quit is called.
func runTray(app *App) {
	// Lock this goroutine to an OS thread so that the hidden window created
	// by systray and the GetMessage loop share the same thread.
	runtime.LockOSThread()
	systray.Run(func() { onTrayReady(app) }, func() {})
}

func trayIcon() []byte {
	png := icon.PNG(trayIconSize)
	if runtime.GOOS == "windows" {
		return icon.ICO(png, trayIconSize)
	}
	return png
}

func onTrayReady(app *App) {
	systray.SetIcon(trayIcon())
	systray.SetTooltip("deskshell")
	systray.SetOnDClick(func(menu systray.IMenu) { app.ShowWindow() })

	mOpen := systray.AddMenuItem("Open", "Show the deskshell window")
	mOpen.Click(func() { app.ShowWindow() })

	systray.AddSeparator()

	mCheck := systray.AddMenuItem("Check for updates", "Ask the server for a newer version")
	mInstall := systray.AddMenuItem("Install update", "Install the pending update and restart")
	mInstall.Disable()

	app.onPendingChange(func(pending bool) {
		if pending {
			mInstall.Enable()
		} else {
			mInstall.Disable()
		}
	})

	mCheck.Click(func() {
		go func() {
			<-app.ready
			info, err := app.CheckForUpdate("")
			switch {
			case err != nil:
				toast.Show("Update check failed", err.Error())
			case info != nil:
				app.announce(info)
			default:
				toast.Show("deskshell", "You are running the latest version.")
			}
		}()
	})
	mInstall.Click(func() {
		go func() {
			<-app.ready
			if err := app.InstallUpdate(); err != nil {
				log.Errorf("install from tray: %v", err)
				toast.Show("Update failed", err.Error())
			}
		}()
	})

	systray.AddSeparator()

	mQuit := systray.AddMenuItem("Quit", "Exit deskshell")
	mQuit.Click(func() { go app.quit() })
}
