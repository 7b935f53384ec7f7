package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/moyoez/uploadkit/tool"
	"github.com/moyoez/uploadkit/types"
)

var flags types.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		tool.DefaultLogger.Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "uploadkit",
		Short:         "Validate files, acquire one-time destinations and upload them concurrently",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       tool.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			tool.InitLogger()
			tool.SetLogMode(flags.Log)
		},
	}
	tool.RegisterGlobalFlags(rootCmd.PersistentFlags(), &flags)

	rootCmd.AddCommand(newServeCmd(), newUploadCmd(), newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), tool.Version)
		},
	}
}

// loadConfig reads the config file then applies the command line overrides.
func loadConfig() (types.AppConfig, error) {
	cfg, err := tool.LoadConfig(flags.UseConfigPath)
	if err != nil {
		return cfg, err
	}
	if err := tool.ApplyFlags(&cfg, flags); err != nil {
		return cfg, err
	}
	return cfg, nil
}
