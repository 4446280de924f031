package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("webmentionctl command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "webmentionctl",
		Short:         "Moderate webmentions from the command line",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	root.AddCommand(newLoginCmd(&cfgPath))
	root.AddCommand(newLogoutCmd(&cfgPath))
	root.AddCommand(newSessionCmd(&cfgPath))
	root.AddCommand(newMentionsCmd(&cfgPath))
	root.AddCommand(newSendCmd(&cfgPath))
	root.AddCommand(newPoliciesCmd(&cfgPath))
	root.AddCommand(newWidgetCmd(&cfgPath))
	root.AddCommand(newConsoleCmd(&cfgPath))
	root.AddCommand(newConfigCmd(&cfgPath))
	root.AddCommand(newVersionCmd())

	return root
}
