//go:build !windows

package update

import "syscall"

const relaunchAfterInstall = true

func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
