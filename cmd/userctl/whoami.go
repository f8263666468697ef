package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"frontuser/internal/domain/user"
)

type whoamiOutput struct {
	ContextHash string `json:"contextHash"`
	UserID      string `json:"userId,omitempty"`
	Label       string `json:"label,omitempty"`
	Email       string `json:"email,omitempty"`
}

func newWhoamiCmd() *cobra.Command {
	var (
		sessionID string
		token     string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Resolve the current user for a session id and/or bearer token",
		Long: `Builds a security context from the given credentials exactly as the API
does for a request, then prints the resolved current user or "anonymous".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, application, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			sc, err := application.AuthService.BuildSecurityContext(ctx, sessionID, token)
			if err != nil {
				return err
			}

			u, err := user.NewPatchedService(sc, application.PartyService).GetCurrentUser(ctx)
			if err != nil {
				return err
			}

			out := whoamiOutput{ContextHash: sc.ContextHash()}
			if u != nil {
				out.UserID = u.ID.String()
				out.Label = u.Label()
				out.Email = u.PrimaryEmail
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			if u == nil {
				_, err = fmt.Fprintln(w, "anonymous")
				return err
			}
			_, err = fmt.Fprintf(w, "%s <%s> (%s)\n", out.Label, out.Email, out.UserID)
			return err
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session id (value of the session cookie)")
	cmd.Flags().StringVar(&token, "token", "", "Bearer access token")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}
