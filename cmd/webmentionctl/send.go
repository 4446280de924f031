package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/webmentionctl/internal/format"
	"pkt.systems/webmentionctl/schema"
)

func newSendCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "send <source-url>",
		Short: "Send webmentions for every link in a published page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := openClient(cmd, *cfgPath, nil)
			if err != nil {
				return err
			}
			defer closeClient(client)
			if !client.Session.IsLoggedIn() {
				return schema.ErrNotLoggedIn
			}
			report, err := client.Sender.Send(cmd.Context(), args[0])
			var sendErr *schema.SendError
			if err != nil && !errors.As(err, &sendErr) {
				return err
			}
			for _, line := range format.NewPlainRenderer().SendReport(report) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return err
		},
	}
}
