package tool

import (
	"github.com/spf13/pflag"

	"github.com/moyoez/uploadkit/types"
)

// RegisterGlobalFlags binds the flags shared by every command.
func RegisterGlobalFlags(fs *pflag.FlagSet, cfg *types.Config) {
	fs.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	fs.StringVar(&cfg.UseConfigPath, "config", "", "override config file path")
}

// RegisterUploadFlags binds the selection and destination overrides.
func RegisterUploadFlags(fs *pflag.FlagSet, cfg *types.Config) {
	fs.StringVar(&cfg.UseEndpoint, "endpoint", "", "override destination endpoint URL")
	fs.StringVar(&cfg.UseFolder, "folder", "", "folder prefix for uploaded files, e.g. 'photos/'")
	fs.StringVar(&cfg.UseFileAccess, "access", "", "file access: public|private")
	fs.StringSliceVar(&cfg.UseAccept, "accept", nil, "accepted MIME types or extensions, e.g. image/*,.pdf")
	fs.IntVar(&cfg.UseMaxFiles, "max-files", 0, "maximum number of files per selection (0 = unbounded)")
	fs.Int64Var(&cfg.UseMinSize, "min-size", 0, "minimum file size in bytes")
	fs.Int64Var(&cfg.UseMaxSize, "max-size", 0, "maximum file size in bytes (0 = unbounded)")
	fs.BoolVar(&cfg.UseSingle, "single", false, "allow only one file per selection")
	fs.BoolVar(&cfg.ShowQR, "qr", false, "print a QR code of every uploaded location")
}

// RegisterServeFlags binds the route boundary overrides.
func RegisterServeFlags(fs *pflag.FlagSet, cfg *types.Config) {
	fs.IntVar(&cfg.UsePort, "port", 0, "override listen port")
	fs.BoolVar(&cfg.UseMint, "mint", false, "serve the S3-backed destination service locally")
}
