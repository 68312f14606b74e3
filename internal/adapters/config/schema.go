package config

// File is the on-disk schema of trellis.toml. Every field is optional;
// missing values fall back to CLI flags or built-in defaults.
type File struct {
	Build       *BuildSection       `toml:"build"`
	Environment *EnvironmentSection `toml:"environment"`
}

// BuildSection holds build-related settings.
type BuildSection struct {
	BuilderStages    []string `toml:"builder_stages"`
	RootfsStages     []string `toml:"rootfs_stages"`
	RootfsBase       *string  `toml:"rootfs_base"`
	BuilderTag       *string  `toml:"builder_tag"`
	RootfsTag        *string  `toml:"rootfs_tag"`
	PodmanBuildCache *bool    `toml:"podman_build_cache"`
	AutoClean        *bool    `toml:"auto_clean"`
	ExtraContexts    []string `toml:"extra_contexts"`
	ExtraMounts      []string `toml:"extra_mounts"`
}

// EnvironmentSection holds host filesystem settings.
type EnvironmentSection struct {
	PacmanCache *string `toml:"pacman_cache"`
	AurCache    *string `toml:"aur_cache"`
	SrcDir      *string `toml:"src_dir"`
	HooksDir    *string `toml:"hooks_dir"`
}
