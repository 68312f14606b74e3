// Package config provides the configuration loader for trls.
package config

import (
	"os"

	"github.com/frap129/trls-sub000/internal/core/domain"
	"github.com/frap129/trls-sub000/internal/core/ports"
	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/zerr"
)

// Loader implements ports.ConfigLoader using a TOML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration file and merges CLI overrides onto it.
// Precedence is CLI flag over file value over built-in default. A missing
// file is not an error; a file that exists but cannot be read or parsed is.
func (l *Loader) Load(overrides domain.Overrides) (*domain.Config, error) {
	file, err := l.readFile(resolveConfigPath(overrides.ConfigPath))
	if err != nil {
		return nil, err
	}

	build := file.Build
	env := file.Environment
	if build == nil {
		build = &BuildSection{}
	}
	if env == nil {
		env = &EnvironmentSection{}
	}

	cfg := &domain.Config{
		BuilderStages:    mergeSlice(overrides.BuilderStages, build.BuilderStages),
		RootfsStages:     mergeSlice(overrides.RootfsStages, build.RootfsStages),
		BuilderTag:       mergeString(overrides.BuilderTag, build.BuilderTag, domain.DefaultBuilderTag),
		RootfsTag:        mergeString(overrides.RootfsTag, build.RootfsTag, domain.DefaultRootfsTag),
		RootfsBase:       mergeString(overrides.RootfsBase, build.RootfsBase, domain.ScratchImage),
		PodmanBuildCache: mergeBool(overrides.PodmanBuildCache, build.PodmanBuildCache, false),
		AutoClean:        overrides.AutoClean || boolOr(build.AutoClean, false),
		Quiet:            overrides.Quiet,
		PacmanCache:      mergeString(overrides.PacmanCache, env.PacmanCache, domain.DefaultPacmanCache),
		AurCache:         mergeString(overrides.AurCache, env.AurCache, domain.DefaultAurCache),
		SrcDir:           mergeString(overrides.SrcDir, env.SrcDir, domain.DefaultSrcDir),
		HooksDir:         resolveHooksDir(overrides.HooksDir, env.HooksDir),
		ExtraContexts:    mergeSlice(overrides.ExtraContexts, build.ExtraContexts),
		ExtraMounts:      mergeSlice(overrides.ExtraMounts, build.ExtraMounts),
	}

	return cfg, nil
}

func (l *Loader) readFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	return &file, nil
}

// resolveConfigPath picks the configuration file location: explicit flag,
// then the TRELLIS_CONFIG environment variable, then the default.
func resolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv(domain.EnvConfigPath); env != "" {
		return env
	}
	return domain.DefaultConfigPath
}

// resolveHooksDir returns the hooks directory only when it exists on disk.
// An explicitly flagged directory is trusted as-is.
func resolveHooksDir(flag *string, file *string) string {
	if flag != nil {
		return *flag
	}

	dir := domain.DefaultHooksDir
	if file != nil {
		dir = *file
	}
	if _, err := os.Stat(dir); err != nil {
		return ""
	}
	return dir
}

func mergeString(flag *string, file *string, fallback string) string {
	if flag != nil {
		return *flag
	}
	if file != nil {
		return *file
	}
	return fallback
}

func mergeBool(flag *bool, file *bool, fallback bool) bool {
	if flag != nil {
		return *flag
	}
	return boolOr(file, fallback)
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}

func mergeSlice(flag, file []string) []string {
	if len(flag) > 0 {
		return flag
	}
	if len(file) > 0 {
		return file
	}
	return nil
}
