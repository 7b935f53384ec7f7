package types

import "time"

// AppConfig represents the application configuration loaded from config file.
// Every field can be overridden from the environment (prefix UPLOADKIT).
type AppConfig struct {
	Endpoint       string       `yaml:"endpoint" envconfig:"ENDPOINT"`
	Folder         string       `yaml:"folder" envconfig:"FOLDER"`
	FileAccess     FileAccess   `yaml:"fileAccess" envconfig:"FILE_ACCESS"`
	Accept         []string     `yaml:"accept,omitempty" envconfig:"ACCEPT"`
	AcceptAll      bool         `yaml:"acceptAll" envconfig:"ACCEPT_ALL"`
	Multiple       bool         `yaml:"multiple" envconfig:"MULTIPLE"`
	MaxFiles       int          `yaml:"maxFiles" envconfig:"MAX_FILES"`
	MinSize        int64        `yaml:"minSize" envconfig:"MIN_SIZE"`
	MaxSize        int64        `yaml:"maxSize" envconfig:"MAX_SIZE"`
	UseFsAccessApi bool         `yaml:"useFsAccessApi" envconfig:"USE_FS_ACCESS_API"`
	MaxConcurrent  int          `yaml:"maxConcurrent" envconfig:"MAX_CONCURRENT"`
	Server         ServerConfig `yaml:"server" envconfig:"SERVER"`

	// AcceptTypes maps MIME types to extensions, {"image/png": [".png"]}.
	// It is only read from the config file.
	AcceptTypes map[string][]string `yaml:"acceptTypes,omitempty" ignored:"true"`
}

// ServerConfig configures the route boundary served by `serve`.
type ServerConfig struct {
	Port        int        `yaml:"port" envconfig:"PORT"`
	APIKey      string     `yaml:"apiKey,omitempty" envconfig:"API_KEY"`
	UpstreamURL string     `yaml:"upstreamUrl,omitempty" envconfig:"UPSTREAM_URL"`
	RateLimit   float64    `yaml:"rateLimit" envconfig:"RATE_LIMIT"`
	RateBurst   int        `yaml:"rateBurst" envconfig:"RATE_BURST"`
	NotifyWS    bool       `yaml:"notifyWs" envconfig:"NOTIFY_WS"`
	Mint        MintConfig `yaml:"mint" envconfig:"MINT"`
}

// MintConfig configures the bundled S3-backed destination service.
type MintConfig struct {
	Enabled       bool          `yaml:"enabled" envconfig:"ENABLED"`
	Bucket        string        `yaml:"bucket" envconfig:"BUCKET"`
	Region        string        `yaml:"region" envconfig:"REGION"`
	Endpoint      string        `yaml:"endpoint,omitempty" envconfig:"ENDPOINT"`
	AccessKey     string        `yaml:"accessKey,omitempty" envconfig:"ACCESS_KEY"`
	SecretKey     string        `yaml:"secretKey,omitempty" envconfig:"SECRET_KEY"`
	PublicBaseURL string        `yaml:"publicBaseUrl,omitempty" envconfig:"PUBLIC_BASE_URL"`
	Expires       time.Duration `yaml:"expires" envconfig:"EXPIRES"`
}

// Config holds runtime overrides from CLI flags.
type Config struct {
	Log           string
	UseConfigPath string
	UseEndpoint   string
	UseFolder     string
	UseFileAccess string
	UseAccept     []string
	UseMaxFiles   int
	UseMinSize    int64
	UseMaxSize    int64
	UseSingle     bool // if true, only one file may be selected per event.
	UsePort       int
	UseMint       bool
	ShowQR        bool // print a QR code of each uploaded location.
}
