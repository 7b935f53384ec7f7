package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/moyoez/uploadkit/picker"
	"github.com/moyoez/uploadkit/progress"
	"github.com/moyoez/uploadkit/selection"
	"github.com/moyoez/uploadkit/tool"
	"github.com/moyoez/uploadkit/transfer"
	"github.com/moyoez/uploadkit/types"
)

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload [files...]",
		Short: "Select files, validate them and upload the accepted ones",
		Long: `Select files, validate them against the configured policy, request one
destination per accepted file and upload them concurrently.

Without arguments the files are read from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			var p picker.Picker
			if len(args) > 0 {
				p = picker.NewStaticPicker(args...)
			} else {
				p = picker.Detect(cfg.UseFsAccessApi, os.Stdin, cmd.ErrOrStderr())
			}
			return runUpload(cmd.Context(), cfg, p, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	tool.RegisterUploadFlags(cmd.Flags(), &flags)
	return cmd
}

func runUpload(ctx context.Context, cfg types.AppConfig, p picker.Picker, out, errOut io.Writer) error {
	var (
		tracker *progress.Tracker
		// set once the accepted files are known, before the upload starts
		uploadCallbacks transfer.Callbacks
		lastErr         error
	)
	policy := tool.PolicyFromConfig(cfg)
	session, err := selection.NewSession(selection.Options{
		Policy:       &policy,
		Folder:       cfg.Folder,
		FileAccess:   cfg.FileAccess,
		Picker:       p,
		Destinations: transfer.NewClient(cfg.Endpoint, tool.ControlHttpClient),
		Uploader:     transfer.NewOrchestrator(tool.TransferHttpClient, cfg.MaxConcurrent),
		Callbacks: selection.Callbacks{
			OnDialogCancel: func() {
				tool.DefaultLogger.Infof("No files selected")
			},
			OnError: func(err error) {
				lastErr = err
				tool.DefaultLogger.Errorf("%v", err)
			},
			OnUploadProgress: func(f types.FileDescriptor, sent, total int64) {
				uploadCallbacks.OnProgress(f, sent, total)
			},
			OnUploadSuccess: func(f types.FileDescriptor) {
				uploadCallbacks.OnSuccess(f)
			},
			OnUploadError: func(f types.FileDescriptor, err error) {
				uploadCallbacks.OnError(f, err)
			},
		},
	})
	if err != nil {
		return err
	}

	session.OpenDialog(ctx)
	select {
	case <-session.DialogClosed():
	case <-ctx.Done():
		return ctx.Err()
	}

	snap := session.Snapshot()
	for _, r := range snap.Rejections {
		for _, e := range r.Errors {
			fmt.Fprintf(errOut, "rejected %s: %s (%s)\n", r.File.Name, e.Message, e.Code)
		}
	}
	if len(snap.AcceptedFiles) == 0 {
		if len(snap.Rejections) > 0 {
			return fmt.Errorf("no file was accepted")
		}
		return nil
	}
	if snap.Destinations == nil {
		if lastErr != nil {
			return lastErr
		}
		return selection.ErrNoDestinations
	}

	tracker = progress.NewTracker(errOut, snap.AcceptedFiles)
	uploadCallbacks = tracker.Callbacks(transfer.Callbacks{
		OnSuccess: func(f types.FileDescriptor) {
			tool.DefaultLogger.Debugf("[Upload] %s sent", f.Name)
		},
	})
	uploadErr := session.Upload(ctx)
	tracker.Finish()

	for _, o := range tracker.Outcomes() {
		if o.Status != types.TransferSucceeded {
			fmt.Fprintf(errOut, "failed %s: %v\n", o.File.Name, o.Err)
			continue
		}
		rec, _ := snap.Destinations.Lookup(cfg.Folder, o.File.Name)
		fmt.Fprintf(out, "%s\t%s\n", o.File.Name, rec.Location)
		if flags.ShowQR {
			qr, err := tool.RenderQR(rec.Location)
			if err != nil {
				tool.DefaultLogger.Warnf("Failed to render QR code for %s: %v", o.File.Name, err)
				continue
			}
			fmt.Fprint(out, qr)
		}
	}
	if failed := tracker.Failed(); len(failed) > 0 {
		tool.DefaultLogger.Warnf("%d of %d files were not uploaded", len(failed), len(snap.AcceptedFiles))
	}
	return uploadErr
}
