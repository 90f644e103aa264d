// Package toast shows native OS notifications.
package toast

// UpdateAvailable returns the title and message shown when a background
// check finds a newer version.
func UpdateAvailable(version string) (title, message string) {
	return "Update available", "deskshell " + version + " is ready to install."
}
