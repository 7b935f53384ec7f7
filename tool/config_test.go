package tool

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/uploadkit/types"
)

func TestLoadConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(path)
	require.NoError(t, err, "defaults should be written on first run")

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
folder: photos/
fileAccess: public
accept: [image/*, .pdf]
multiple: false
server:
  port: 8080
  mint:
    bucket: uploads
    expires: 5m
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "photos/", cfg.Folder)
	assert.Equal(t, types.FileAccessPublic, cfg.FileAccess)
	assert.Equal(t, []string{"image/*", ".pdf"}, cfg.Accept)
	assert.False(t, cfg.Multiple)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "uploads", cfg.Server.Mint.Bucket)
	assert.Equal(t, 5*time.Minute, cfg.Server.Mint.Expires)
	// untouched keys keep their defaults
	assert.Equal(t, "us-east-1", cfg.Server.Mint.Region)
	assert.True(t, cfg.UseFsAccessApi)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("UPLOADKIT_FOLDER", "env/")
	t.Setenv("UPLOADKIT_MAX_FILES", "3")
	t.Setenv("UPLOADKIT_SERVER_PORT", "9999")
	t.Setenv("UPLOADKIT_SERVER_MINT_BUCKET", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env/", cfg.Folder)
	assert.Equal(t, 3, cfg.MaxFiles)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Server.Mint.Bucket)
}

func TestLoadConfigRejectsBadAccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fileAccess: world\n"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	cfg := DefaultConfig()
	err := ApplyFlags(&cfg, types.Config{
		UseEndpoint:   "http://example.com/presign",
		UseFolder:     "docs/",
		UseFileAccess: "public",
		UseAccept:     []string{".txt"},
		UseMaxFiles:   2,
		UseMaxSize:    1024,
		UseSingle:     true,
		UsePort:       4000,
		UseMint:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/presign", cfg.Endpoint)
	assert.Equal(t, "docs/", cfg.Folder)
	assert.Equal(t, types.FileAccessPublic, cfg.FileAccess)
	assert.False(t, cfg.Multiple)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.True(t, cfg.Server.Mint.Enabled)

	policy := PolicyFromConfig(cfg)
	assert.Equal(t, []string{".txt"}, policy.Accept)
	assert.Equal(t, 2, policy.MaxFiles)
	assert.Equal(t, int64(1024), policy.MaxSize)
	assert.False(t, policy.Multiple)

	assert.Error(t, ApplyFlags(&cfg, types.Config{UseFileAccess: "world"}))
}

func TestApplyFlagsRejectsBadFolder(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, ApplyFlags(&cfg, types.Config{UseFolder: "docs"}))
	assert.Error(t, ApplyFlags(&cfg, types.Config{UseFolder: "../etc/"}))

	cfg = DefaultConfig()
	cfg.Folder = "has space/"
	assert.Error(t, ApplyFlags(&cfg, types.Config{}), "a bad folder from the file is caught too")

	cfg = DefaultConfig()
	require.NoError(t, ApplyFlags(&cfg, types.Config{UseFolder: "a/b_c/"}))
	assert.Equal(t, "a/b_c/", cfg.Folder)
}

func TestPolicyFromConfigAcceptTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
accept: ["text/plain, .md"]
acceptTypes:
  image/png: [.png]
  application/pdf: [.pdf]
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	policy := PolicyFromConfig(cfg)
	assert.Equal(t, []string{"text/plain", ".md", "application/pdf", "image/png", ".pdf", ".png"}, policy.Accept)
	assert.True(t, policy.Multiple)
}
