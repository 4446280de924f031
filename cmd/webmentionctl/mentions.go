package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/webmentionctl"
	"pkt.systems/webmentionctl/internal/format"
	"pkt.systems/webmentionctl/schema"
)

func newMentionsCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mentions",
		Aliases: []string{"m"},
		Short:   "List and moderate mentions",
	}
	cmd.AddCommand(newMentionsListCmd(cfgPath))
	cmd.AddCommand(newMentionsMutateCmd(cfgPath, "approve", "Approve a mention"))
	cmd.AddCommand(newMentionsMutateCmd(cfgPath, "reject", "Reject a mention"))
	cmd.AddCommand(newMentionsMutateCmd(cfgPath, "delete", "Delete a mention"))
	cmd.AddCommand(newMentionsSummaryCmd(cfgPath))
	return cmd
}

func newMentionsListCmd(cfgPath *string) *cobra.Command {
	var status string
	var offset int
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of mentions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter schema.MentionStatus
			if status != "" {
				normalized, err := schema.NormalizeMentionStatus(status)
				if err != nil {
					return err
				}
				filter = normalized
			}
			client, _, err := openClient(cmd, *cfgPath, func(cfg *webmentionctl.Config) {
				if filter != "" {
					cfg.Mentions.DefaultStatus = filter
				}
			})
			if err != nil {
				return err
			}
			defer closeClient(client)
			if !client.Session.IsLoggedIn() {
				return schema.ErrNotLoggedIn
			}
			if limit != 0 {
				if err := client.Mentions.SetLimit(limit); err != nil {
					return err
				}
			}
			if err := client.Mentions.SetOffset(offset); err != nil {
				return err
			}
			if err := client.Mentions.Fetch(cmd.Context()); err != nil {
				return err
			}
			snap := client.Mentions.Snapshot()
			for _, line := range format.NewPlainRenderer().Page(snap.Filter, snap.Paging, snap.Items) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "status filter (default from config)")
	cmd.Flags().IntVar(&offset, "offset", 0, "paging offset")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "page size (default from config)")
	return cmd
}

func newMentionsMutateCmd(cfgPath *string, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := openClient(cmd, *cfgPath, nil)
			if err != nil {
				return err
			}
			defer closeClient(client)
			if !client.Session.IsLoggedIn() {
				return schema.ErrNotLoggedIn
			}
			call := client.Mutations.Approve
			switch action {
			case "reject":
				call = client.Mutations.Reject
			case "delete":
				call = client.Mutations.Delete
			}
			for _, arg := range args {
				id := schema.MentionID(arg)
				if err := call(cmd.Context(), id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", id, pastTense(action))
			}
			return nil
		},
	}
}

func pastTense(action string) string {
	switch action {
	case "approve":
		return "approved"
	case "reject":
		return "rejected"
	case "delete":
		return "deleted"
	default:
		return action
	}
}

func newMentionsSummaryCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count mentions per status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := openClient(cmd, *cfgPath, nil)
			if err != nil {
				return err
			}
			defer closeClient(client)
			if !client.Session.IsLoggedIn() {
				return schema.ErrNotLoggedIn
			}
			summary, err := client.Summary.Load(cmd.Context())
			if err != nil {
				return err
			}
			for _, line := range format.NewPlainRenderer().Summary(summary) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
