package domain

// Container and image naming conventions.
const (
	// LocalhostPrefix is the registry namespace podman assigns to locally
	// built images.
	LocalhostPrefix = "localhost/"

	// DefaultBuilderTag is the default tag for the builder container.
	DefaultBuilderTag = "trellis-builder"

	// DefaultRootfsTag is the default tag for the rootfs container.
	DefaultRootfsTag = "trellis-rootfs"

	// BuilderPrefix marks intermediate images produced by builder builds.
	BuilderPrefix = "trellis-builder"

	// StagePrefix marks intermediate images produced by rootfs builds.
	StagePrefix = "trellis-stage"

	// ScratchImage is the empty base image used for builder stage zero.
	ScratchImage = "scratch"
)

// Containerfile discovery.
const (
	// ContainerfilePrefix is the filename prefix of build definition files.
	// A group named "base" is described by "Containerfile.base".
	ContainerfilePrefix = "Containerfile."

	// MaxSearchDepth bounds the recursive Containerfile search below the
	// source directory.
	MaxSearchDepth = 20
)

// Default filesystem locations.
const (
	// DefaultConfigPath is where the configuration file lives unless
	// overridden by flag or environment.
	DefaultConfigPath = "/etc/trellis/trellis.toml"

	// DefaultHooksDir is the default hooks directory.
	DefaultHooksDir = "/etc/trellis/hooks.d"

	// DefaultSrcDir is the default source tree searched for Containerfiles.
	DefaultSrcDir = "/var/lib/trellis/src"

	// DefaultPacmanCache is the default persistent pacman package cache.
	DefaultPacmanCache = "/var/cache/pacman/pkg"

	// DefaultAurCache is the default persistent AUR build cache.
	DefaultAurCache = "/var/cache/trellis/aur"

	// PacmanCacheMount is where the pacman cache is mounted inside builds.
	PacmanCacheMount = "/var/cache/pacman/pkg"

	// AurCacheMount is where the AUR cache is mounted inside builds.
	AurCacheMount = "/var/cache/trellis/aur"
)

// Environment variables.
const (
	// EnvConfigPath overrides the configuration file location.
	EnvConfigPath = "TRELLIS_CONFIG"

	// EnvBuildahLayers is buildah's layer-cache toggle, scoped off while a
	// build runs with the cache disabled.
	EnvBuildahLayers = "BUILDAH_LAYERS"
)
