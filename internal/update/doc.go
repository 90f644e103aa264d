// Package update checks a release server for newer versions of the
// application, stages at most one pending update, and installs it on
// request before relaunching the process.
//
// The server protocol is a single GET to
//
//	{server}/api/updates/{target}/{arch}/{current_version}
//
// answered with 204 when the client is current, or 200 and a JSON release
// manifest. Artifacts are signed with minisign.
package update
