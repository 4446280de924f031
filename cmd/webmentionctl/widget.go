package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"pkt.systems/webmentionctl/internal/format"
	"pkt.systems/webmentionctl/widget"
)

func newWidgetCmd(cfgPath *string) *cobra.Command {
	var endpoint string
	var title string
	var seedPath string
	var rsvp bool
	cmd := &cobra.Command{
		Use:   "widget <target-url>",
		Short: "Show the public mentions of a page as the widget would",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := openClient(cmd, *cfgPath, nil)
			if err != nil {
				return err
			}
			defer closeClient(client)
			dataset := map[string]string{
				"endpoint": cfg.Widget.Endpoint,
				"target":   args[0],
				"title":    cfg.Widget.Title,
			}
			if endpoint != "" {
				dataset["endpoint"] = endpoint
			}
			if title != "" {
				dataset["title"] = title
			}
			if rsvp || cfg.Widget.RSVPSummary {
				dataset["rsvp-summary"] = "yes"
			}
			seed := ""
			if seedPath != "" {
				data, err := readSeed(cmd, seedPath)
				if err != nil {
					return err
				}
				seed = data
			}
			source := client.Widget(widget.ConfigFromDataset(dataset))
			if err := source.Mount(cmd.Context(), seed); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			render := format.NewPlainRenderer()
			mentions := source.Mentions()
			_, _ = fmt.Fprintf(out, "%s (%d)\n", source.Config().Title, len(mentions))
			if source.Config().ShowRSVPSummary {
				counts := source.RSVPSummary()
				keys := make([]string, 0, len(counts))
				for key := range counts {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				for _, key := range keys {
					_, _ = fmt.Fprintf(out, "rsvp %s: %d\n", key, counts[key])
				}
			}
			for _, mention := range mentions {
				for _, line := range render.Mention(mention) {
					_, _ = fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "public widget endpoint (default from config)")
	cmd.Flags().StringVar(&title, "title", "", "widget title")
	cmd.Flags().StringVar(&seedPath, "seed", "", "read seed JSON from file ('-' for stdin) instead of fetching")
	cmd.Flags().BoolVar(&rsvp, "rsvp-summary", false, "show the RSVP summary")
	return cmd
}

func readSeed(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
