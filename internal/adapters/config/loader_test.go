package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/frap129/trls-sub000/internal/adapters/config"
	"github.com/frap129/trls-sub000/internal/adapters/logger"
	"github.com/frap129/trls-sub000/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trellis.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Defaults(t *testing.T) {
	loader := config.NewLoader(logger.New())

	cfg, err := loader.Load(domain.Overrides{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultBuilderTag, cfg.BuilderTag)
	assert.Equal(t, domain.DefaultRootfsTag, cfg.RootfsTag)
	assert.Equal(t, domain.ScratchImage, cfg.RootfsBase)
	assert.Equal(t, domain.DefaultPacmanCache, cfg.PacmanCache)
	assert.Equal(t, domain.DefaultAurCache, cfg.AurCache)
	assert.Equal(t, domain.DefaultSrcDir, cfg.SrcDir)
	assert.False(t, cfg.PodmanBuildCache)
	assert.False(t, cfg.AutoClean)
	assert.Empty(t, cfg.BuilderStages)
	assert.Empty(t, cfg.RootfsStages)
}

func TestLoader_FileValues(t *testing.T) {
	path := writeConfig(t, `
[build]
builder_stages = ["pacstrap"]
rootfs_stages = ["base", "tools", "final"]
rootfs_base = "docker.io/library/archlinux"
builder_tag = "my-builder"
rootfs_tag = "my-rootfs"
podman_build_cache = true
auto_clean = true
extra_contexts = ["ctx=/srv/ctx"]

[environment]
pacman_cache = "/tmp/pacman"
aur_cache = "/tmp/aur"
src_dir = "/srv/src"
`)

	loader := config.NewLoader(logger.New())
	cfg, err := loader.Load(domain.Overrides{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, []string{"pacstrap"}, cfg.BuilderStages)
	assert.Equal(t, []string{"base", "tools", "final"}, cfg.RootfsStages)
	assert.Equal(t, "docker.io/library/archlinux", cfg.RootfsBase)
	assert.Equal(t, "my-builder", cfg.BuilderTag)
	assert.Equal(t, "my-rootfs", cfg.RootfsTag)
	assert.True(t, cfg.PodmanBuildCache)
	assert.True(t, cfg.AutoClean)
	assert.Equal(t, []string{"ctx=/srv/ctx"}, cfg.ExtraContexts)
	assert.Equal(t, "/tmp/pacman", cfg.PacmanCache)
	assert.Equal(t, "/tmp/aur", cfg.AurCache)
	assert.Equal(t, "/srv/src", cfg.SrcDir)
}

func TestLoader_FlagsWinOverFile(t *testing.T) {
	path := writeConfig(t, `
[build]
rootfs_stages = ["base"]
rootfs_tag = "file-rootfs"
podman_build_cache = true
`)

	tag := "flag-rootfs"
	cache := false
	loader := config.NewLoader(logger.New())
	cfg, err := loader.Load(domain.Overrides{
		ConfigPath:       path,
		RootfsStages:     []string{"base", "extra"},
		RootfsTag:        &tag,
		PodmanBuildCache: &cache,
		Quiet:            true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "extra"}, cfg.RootfsStages)
	assert.Equal(t, "flag-rootfs", cfg.RootfsTag)
	assert.False(t, cfg.PodmanBuildCache)
	assert.True(t, cfg.Quiet)
}

func TestLoader_AutoCleanFlagORsWithFile(t *testing.T) {
	path := writeConfig(t, `
[build]
auto_clean = false
`)

	loader := config.NewLoader(logger.New())
	cfg, err := loader.Load(domain.Overrides{ConfigPath: path, AutoClean: true})
	require.NoError(t, err)
	assert.True(t, cfg.AutoClean)
}

func TestLoader_EnvVarSelectsPath(t *testing.T) {
	path := writeConfig(t, `
[build]
rootfs_tag = "from-env-file"
`)
	t.Setenv(domain.EnvConfigPath, path)

	loader := config.NewLoader(logger.New())
	cfg, err := loader.Load(domain.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "from-env-file", cfg.RootfsTag)
}

func TestLoader_MalformedFile(t *testing.T) {
	path := writeConfig(t, "[build\nnot toml")

	loader := config.NewLoader(logger.New())
	_, err := loader.Load(domain.Overrides{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoader_HooksDirOnlyWhenPresent(t *testing.T) {
	hooks := t.TempDir()
	path := writeConfig(t, "[environment]\nhooks_dir = "+tomlString(hooks))

	loader := config.NewLoader(logger.New())
	cfg, err := loader.Load(domain.Overrides{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, hooks, cfg.HooksDir)

	missing := filepath.Join(hooks, "gone")
	path = writeConfig(t, "[environment]\nhooks_dir = "+tomlString(missing))
	cfg, err = loader.Load(domain.Overrides{ConfigPath: path})
	require.NoError(t, err)
	assert.Empty(t, cfg.HooksDir)
}

func tomlString(s string) string {
	return "\"" + s + "\""
}
