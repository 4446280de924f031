package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/webmentionctl"
)

func newConsoleCmd(cfgPath *string) *cobra.Command {
	var disableAudit bool
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive moderation console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := openClient(cmd, *cfgPath, func(cfg *webmentionctl.Config) {
				cfg.DisableAuditLogging = disableAudit
			})
			if err != nil {
				return err
			}
			defer closeClient(client)
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "connected to %s\n", client.BaseHref())
			if !client.Session.IsLoggedIn() {
				_, _ = fmt.Fprintln(out, "not logged in; run webmentionctl login first")
			}
			return client.Console(cmd.InOrStdin(), out).Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&disableAudit, "no-audit", false, "do not log each command at debug level")
	return cmd
}
