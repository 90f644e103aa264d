package update

import (
	"syscall"

	"golang.org/x/sys/windows"
)

const relaunchAfterInstall = false

func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
		HideWindow:    true,
	}
}
