package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Mavwarf/deskshell/internal/update"
)

var errNoServer = errors.New("no update server: pass --server or set update.server in the config")

var stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

func newCheckCmd() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the update server for a newer release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			server := svc.UpdateServer(server)
			if server == "" {
				return errNoServer
			}
			info, err := svc.Updates.Check(cmd.Context(), server)
			if err != nil {
				return err
			}
			printUpdateInfo(cmd.OutOrStdout(), svc.Updates.Current(), info)
			return nil
		},
	}
	cmd.Flags().StringVarP(&server, "server", "s", "", "Update server base URL (default from config)")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var (
		server string
		yes    bool
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for a newer release and install it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			svc, err := openServices(update.WithRestarter(cliRestarter{out: out}))
			if err != nil {
				return err
			}
			defer svc.Close()

			server := svc.UpdateServer(server)
			if server == "" {
				return errNoServer
			}
			info, err := svc.Updates.Check(cmd.Context(), server)
			if err != nil {
				return err
			}
			printUpdateInfo(out, svc.Updates.Current(), info)
			if info == nil {
				return nil
			}

			if !yes {
				if !stdinIsTerminal() {
					return errors.New("stdin is not a terminal: pass --yes to install without prompting")
				}
				if !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Install %s now?", info.Version)) {
					fmt.Fprintln(out, "Update skipped.")
					return nil
				}
			}
			return install(cmd.Context(), svc.Updates, out)
		},
	}
	cmd.Flags().StringVarP(&server, "server", "s", "", "Update server base URL (default from config)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Install without asking")
	return cmd
}

func install(ctx context.Context, c *update.Coordinator, out io.Writer) error {
	fmt.Fprintln(out, "Downloading update...")
	return c.Install(ctx)
}

func printUpdateInfo(w io.Writer, current string, info *update.UpdateInfo) {
	if info == nil {
		fmt.Fprintf(w, "deskshell %s is up to date.\n", current)
		return
	}
	fmt.Fprintf(w, "Update available: %s %s\n", bold(info.Version), dim("(current "+current+")"))
	if info.Body != nil && strings.TrimSpace(*info.Body) != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.TrimSpace(*info.Body))
	}
}

// confirm asks question on out and reads a yes/no answer from in.
// Anything but an explicit yes declines.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	return parseAnswer(line)
}

func parseAnswer(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}

// cliRestarter ends an update run from the terminal. The installer has
// already replaced the binary on disk, so the next invocation runs the new
// release.
type cliRestarter struct {
	out io.Writer
}

func (r cliRestarter) Restart() error {
	fmt.Fprintln(r.out, green("Update installed.")+" Run deskshell again to use the new version.")
	return nil
}
