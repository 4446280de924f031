package main

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"pkt.systems/pslog"
)

func newLoginCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the moderation server",
	}
	cmd.AddCommand(newLoginRequestCmd(cfgPath))
	cmd.AddCommand(newLoginTokenCmd(cfgPath))
	cmd.AddCommand(newLoginAccessKeyCmd(cfgPath))
	return cmd
}

func newLoginRequestCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "request <email>",
		Short: "Ask the server to mail a login link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := openClient(cmd, *cfgPath, nil)
			if err != nil {
				return err
			}
			defer closeClient(client)
			if err := client.Auth.RequestToken(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "login link requested for %s\n", args[0])
			return err
		},
	}
}

func newLoginTokenCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "token [token]",
		Short: "Exchange the token from a login link for a session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			} else {
				value, err := readSecret(cmd, "Login token: ")
				if err != nil {
					return err
				}
				token = value
			}
			client, _, err := openClient(cmd, *cfgPath, nil)
			if err != nil {
				return err
			}
			defer closeClient(client)
			if err := client.Auth.Authenticate(cmd.Context(), token); err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("login ok")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "logged in")
			return err
		},
	}
}

func newLoginAccessKeyCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "access-key",
		Short: "Log in with a configured access key read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readSecret(cmd, "Access key: ")
			if err != nil {
				return err
			}
			client, _, err := openClient(cmd, *cfgPath, nil)
			if err != nil {
				return err
			}
			defer closeClient(client)
			if err := client.Auth.AuthenticateAccessKey(cmd.Context(), key); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "logged in")
			return err
		},
	}
}

func newLogoutCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := openClient(cmd, *cfgPath, nil)
			if err != nil {
				return err
			}
			defer closeClient(client)
			client.Session.Logout()
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return err
		},
	}
}

func newSessionCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := openClient(cmd, *cfgPath, nil)
			if err != nil {
				return err
			}
			defer closeClient(client)
			out := cmd.OutOrStdout()
			if !client.Session.IsLoggedIn() {
				_, err = fmt.Fprintln(out, "logged out")
				return err
			}
			_, _ = fmt.Fprintln(out, "logged in")
			for _, line := range describeToken(client.Session.Token(), time.Now()) {
				_, _ = fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

// describeToken reads the claims of a session token without verifying its
// signature. Only the server can verify it; this is for display.
func describeToken(token string, now time.Time) []string {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return []string{"token: opaque"}
	}
	lines := []string{}
	if claims.Issuer != "" {
		lines = append(lines, "issuer: "+claims.Issuer)
	}
	if claims.Subject != "" {
		lines = append(lines, "subject: "+claims.Subject)
	}
	if claims.ExpiresAt != nil {
		expires := claims.ExpiresAt.Time
		state := "valid"
		if !expires.After(now) {
			state = "expired"
		}
		lines = append(lines, fmt.Sprintf("expires: %s (%s)", expires.UTC().Format(time.RFC3339), state))
	}
	return lines
}
