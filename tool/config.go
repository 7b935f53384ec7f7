package tool

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/moyoez/uploadkit/api/models"
	"github.com/moyoez/uploadkit/types"
	"github.com/moyoez/uploadkit/validate"
)

const EnvPrefix = "UPLOADKIT"

var ConfigPath = "config.yaml" // be aware that it can be changed, default to ./config.yaml

func DefaultConfig() types.AppConfig {
	return types.AppConfig{
		Endpoint:       BuildEndpointURL("127.0.0.1", 3000),
		Folder:         "",
		FileAccess:     types.FileAccessPrivate,
		Multiple:       true,
		MaxFiles:       0, // unbounded
		MinSize:        0,
		MaxSize:        0, // unbounded
		UseFsAccessApi: true,
		MaxConcurrent:  0, // no limit, every accepted file transfers at once
		Server: types.ServerConfig{
			Port:        3000,
			UpstreamURL: "https://uploadjoy.com/api/v2",
			RateLimit:   5,
			RateBurst:   10,
			NotifyWS:    true,
			Mint: types.MintConfig{
				Region:  "us-east-1",
				Expires: 15 * time.Minute,
			},
		},
	}
}

// LoadConfig reads the yaml config at path, writing the defaults when the
// file does not exist yet, then applies environment overrides.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := DefaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if writeErr := writeConfig(path, cfg); writeErr != nil {
			return cfg, fmt.Errorf("config file not found, and failed to generate default config: %w", writeErr)
		}
		DefaultLogger.Infof("Created new config file at %s", path)
	} else {
		if info.IsDir() {
			return cfg, fmt.Errorf("config file path is a directory: %s", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if !cfg.FileAccess.Valid() {
		return cfg, fmt.Errorf("invalid fileAccess %q in config", cfg.FileAccess)
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with UPLOADKIT_* environment variables.
func ApplyEnv(cfg *types.AppConfig) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}

// ApplyFlags merges CLI overrides into cfg. Zero values leave cfg untouched.
func ApplyFlags(cfg *types.AppConfig, flags types.Config) error {
	if flags.UseEndpoint != "" {
		cfg.Endpoint = flags.UseEndpoint
	}
	if flags.UseFolder != "" {
		cfg.Folder = flags.UseFolder
	}
	if flags.UseFileAccess != "" {
		access, err := types.ParseFileAccess(flags.UseFileAccess)
		if err != nil {
			return err
		}
		cfg.FileAccess = access
	}
	if len(flags.UseAccept) > 0 {
		cfg.Accept = flags.UseAccept
	}
	if flags.UseMaxFiles > 0 {
		cfg.MaxFiles = flags.UseMaxFiles
	}
	if flags.UseMinSize > 0 {
		cfg.MinSize = flags.UseMinSize
	}
	if flags.UseMaxSize > 0 {
		cfg.MaxSize = flags.UseMaxSize
	}
	if flags.UseSingle {
		cfg.Multiple = false
	}
	if flags.UsePort > 0 {
		cfg.Server.Port = flags.UsePort
	}
	if flags.UseMint {
		cfg.Server.Mint.Enabled = true
	}
	if !models.ValidFolder(cfg.Folder) {
		return fmt.Errorf("invalid folder %q: use slash separated [a-zA-Z0-9_-] segments ending with a slash", cfg.Folder)
	}
	return nil
}

// PolicyFromConfig builds the validation policy a session runs with. The
// accept list joins the comma separated patterns with the acceptTypes map.
func PolicyFromConfig(cfg types.AppConfig) types.ValidationPolicy {
	return types.ValidationPolicy{
		Accept:    append(validate.ParseAccept(cfg.Accept...), validate.AcceptFromMap(cfg.AcceptTypes)...),
		AcceptAll: cfg.AcceptAll,
		Multiple:  cfg.Multiple,
		MinSize:   cfg.MinSize,
		MaxSize:   cfg.MaxSize,
		MaxFiles:  cfg.MaxFiles,
	}
}

func writeConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
