package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/webmentionctl/internal/format"
	"pkt.systems/webmentionctl/schema"
)

func newPoliciesCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "Manage moderation policies",
	}
	cmd.AddCommand(newPoliciesListCmd(cfgPath))
	cmd.AddCommand(newPoliciesCreateCmd(cfgPath))
	cmd.AddCommand(newPoliciesDeleteCmd(cfgPath))
	return cmd
}

func newPoliciesListCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List policies",
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
			policies, err := client.Policies.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, line := range format.NewPlainRenderer().Policies(policies) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newPoliciesCreateCmd(cfgPath *string) *cobra.Command {
	var weight int
	var policy string
	cmd := &cobra.Command{
		Use:   "create <url-pattern>",
		Short: "Create a policy for sources matching a URL pattern",
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
			req := schema.CreatePolicyRequest{
				URLPattern: args[0],
				Weight:     weight,
				Policy:     schema.PolicyKind(policy),
			}
			if err := client.Policies.Create(cmd.Context(), req); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "policy created: %s\n", args[0])
			return err
		},
	}
	cmd.Flags().IntVarP(&weight, "weight", "w", 0, "policy weight, higher wins")
	cmd.Flags().StringVar(&policy, "policy", string(schema.PolicyApprove), "policy action")
	return cmd
}

func newPoliciesDeleteCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := schema.ParsePolicyID(args[0])
			if err != nil {
				return err
			}
			client, _, err := openClient(cmd, *cfgPath, nil)
			if err != nil {
				return err
			}
			defer closeClient(client)
			if !client.Session.IsLoggedIn() {
				return schema.ErrNotLoggedIn
			}
			if err := client.Policies.Delete(cmd.Context(), id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "policy %d deleted\n", id)
			return err
		},
	}
}
