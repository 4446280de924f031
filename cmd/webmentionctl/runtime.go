package main

import (
	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/webmentionctl"
	"pkt.systems/webmentionctl/internal/appconfig"
)

// openClient loads the config and builds a client. tweak may adjust the
// config before the client is built.
func openClient(cmd *cobra.Command, cfgPath string, tweak func(*webmentionctl.Config)) (*webmentionctl.Client, appconfig.Config, error) {
	cfg, err := appconfig.Load(cfgPath)
	if err != nil {
		return nil, appconfig.Config{}, err
	}
	clientCfg := webmentionctl.ConfigFromApp(cfg)
	if tweak != nil {
		tweak(&clientCfg)
	}
	logger := pslog.Ctx(cmd.Context())
	client, err := webmentionctl.New(clientCfg, webmentionctl.WithLogger(logger))
	if err != nil {
		return nil, cfg, err
	}
	return client, cfg, nil
}

// closeClient flushes metrics; a failed flush is logged but does not fail
// the command.
func closeClient(client *webmentionctl.Client) {
	if client != nil {
		_ = client.Close()
	}
}
