package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Mavwarf/deskshell/internal/beacon"
	"github.com/Mavwarf/deskshell/internal/session"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show or change the mirrored browser session",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices()
			if err != nil {
				return err
			}
			defer svc.Close()
			printSession(cmd.OutOrStdout(), svc.Sessions.Path(), svc.Sessions.Load())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <token> <server>",
		Short: "Store a session token and server URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := beacon.LeaveURL(args[1]); err != nil {
				return err
			}
			svc, err := openServices()
			if err != nil {
				return err
			}
			defer svc.Close()
			if err := svc.Sessions.Save(session.State{Token: args[0], Server: args[1]}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session saved.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices()
			if err != nil {
				return err
			}
			defer svc.Close()
			if err := svc.Sessions.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
			return nil
		},
	})

	return cmd
}

func newLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Send the leave beacon for the stored session and wait for it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices()
			if err != nil {
				return err
			}
			defer svc.Close()
			if !svc.Beacon.Send() {
				return errors.New("no complete session stored")
			}
			svc.Beacon.Wait()
			_, server, _ := svc.Sessions.Session()
			fmt.Fprintf(cmd.OutOrStdout(), "Leave beacon sent to %s.\n", server)
			return nil
		},
	}
}

func printSession(w io.Writer, path string, st session.State) {
	fmt.Fprintf(w, "%s %s\n", dim("file:"), path)
	if st.Token == "" && st.Server == "" {
		fmt.Fprintln(w, "No session stored.")
		return
	}
	fmt.Fprintf(w, "%s %s\n", dim("server:"), orNone(st.Server))
	fmt.Fprintf(w, "%s %s\n", dim("token: "), orNone(maskToken(st.Token)))
}

// maskToken keeps the first and last four characters of long tokens.
func maskToken(t string) string {
	if len(t) <= 12 {
		return t
	}
	return t[:4] + "..." + t[len(t)-4:]
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
