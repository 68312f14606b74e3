package domain

import "go.trai.ch/zerr"

var (
	// ErrContainerfileNotFound is returned when no Containerfile exists for
	// a requested group anywhere under the source directory.
	ErrContainerfileNotFound = zerr.New("containerfile not found")

	// ErrMissingContainerfiles is returned when stage validation finds one
	// or more groups without a Containerfile.
	ErrMissingContainerfiles = zerr.New("missing required containerfiles")

	// ErrNoBuilderStages is returned when a builder build is requested with
	// an empty stage list.
	ErrNoBuilderStages = zerr.New("no builder stages defined")

	// ErrNoRootfsStages is returned when a rootfs build is requested with an
	// empty stage list.
	ErrNoRootfsStages = zerr.New("no rootfs stages defined")

	// ErrBuildFailed is returned when a stage's podman build exits non-zero.
	ErrBuildFailed = zerr.New("podman build failed")

	// ErrCacheDirUnavailable is returned when a cache directory cannot be
	// created or is not writable.
	ErrCacheDirUnavailable = zerr.New("cache directory unavailable")

	// ErrImageListFailed is returned when the image listing used by cleanup
	// cannot be obtained.
	ErrImageListFailed = zerr.New("failed to list images")

	// ErrImageNotFound is returned when the rootfs image is missing at run
	// time.
	ErrImageNotFound = zerr.New("container image not found")

	// ErrRunFailed is returned when podman run exits non-zero.
	ErrRunFailed = zerr.New("podman run failed")

	// ErrBootcUnavailable is returned when bootc is missing or broken.
	ErrBootcUnavailable = zerr.New("bootc is not available")

	// ErrBootcUpgradeFailed is returned when bootc upgrade exits non-zero.
	ErrBootcUpgradeFailed = zerr.New("bootc upgrade failed")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")
)
