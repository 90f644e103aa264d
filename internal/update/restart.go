package update

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// WaitPIDFlag is passed to the relaunched process so it can wait for its
// predecessor to exit before touching shared state.
const WaitPIDFlag = "--wait-pid"

// ProcessRestarter relaunches the application and exits the current
// process.
type ProcessRestarter struct {
	// Exit terminates the process; nil means os.Exit.
	Exit func(code int)
}

// Restart starts a detached copy of the executable and exits with code 0.
// On Windows the installer relaunches the application, so it only exits.
func (r ProcessRestarter) Restart() error {
	if relaunchAfterInstall {
		exe, err := executablePath()
		if err != nil {
			return err
		}
		args := RestartArgs(os.Args[1:], os.Getpid())
		log.Infof("relaunching %s %v", exe, args)
		if err := startDetached(exe, args...); err != nil {
			return fmt.Errorf("relaunch %s: %w", exe, err)
		}
	}

	exit := r.Exit
	if exit == nil {
		exit = os.Exit
	}
	exit(0)
	return nil
}

// RestartArgs returns args with any previous wait-pid flag replaced by
// one for pid.
func RestartArgs(args []string, pid int) []string {
	out := make([]string, 0, len(args)+2)
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == WaitPIDFlag {
			i++ // skip value
			continue
		}
		if strings.HasPrefix(a, WaitPIDFlag+"=") {
			continue
		}
		out = append(out, a)
	}
	return append(out, WaitPIDFlag, strconv.Itoa(pid))
}

func executablePath() (string, error) {
	if appImage := os.Getenv("APPIMAGE"); appImage != "" {
		return appImage, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("get executable path: %w", err)
	}
	return exe, nil
}

// startDetached starts name in its own session or process group and
// releases it.
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = detachedProcAttr()
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
