package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/moyoez/uploadkit/api"
	"github.com/moyoez/uploadkit/mint"
	"github.com/moyoez/uploadkit/tool"
	"github.com/moyoez/uploadkit/types"
	"github.com/moyoez/uploadkit/upstream"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the presign route, optionally with a local S3 destination service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg.Server)
		},
	}
	tool.RegisterServeFlags(cmd.Flags(), &flags)
	return cmd
}

func runServe(ctx context.Context, cfg types.ServerConfig) error {
	opts := api.Options{}
	if cfg.Mint.Enabled {
		presigner, err := mint.NewS3Presigner(ctx, cfg.Mint)
		if err != nil {
			return err
		}
		if cfg.APIKey == "" {
			cfg.APIKey = tool.GenerateRandomUUID()
			tool.DefaultLogger.Debugf("Generated API key for the local destination service")
		}
		svc := mint.NewService(presigner, cfg.APIKey, cfg.Mint.Expires)
		opts.Mint = svc.Handle
		// the route talks to the service in process
		opts.Upstream = svc
	} else {
		if cfg.APIKey == "" {
			return fmt.Errorf("server.apiKey is required when the local destination service is disabled")
		}
		client, err := upstream.New(cfg.APIKey, cfg.UpstreamURL, nil)
		if err != nil {
			return err
		}
		opts.Upstream = client
	}

	server, err := api.NewServer(cfg, opts)
	if err != nil {
		return err
	}

	tool.DefaultLogger.Infof("Presign route available at %s", tool.BuildEndpointURL("127.0.0.1", cfg.Port))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
