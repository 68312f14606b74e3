package domain

import "strings"

// CleanMode selects which trellis-owned images a cleanup pass removes.
type CleanMode int

const (
	// CleanModeFull removes every trellis-owned image, including the
	// published builder and rootfs tags.
	CleanModeFull CleanMode = iota

	// CleanModeAuto removes only intermediate images, preserving the
	// published builder and rootfs tags.
	CleanModeAuto
)

// String returns a human readable name for the clean mode.
func (m CleanMode) String() string {
	switch m {
	case CleanModeAuto:
		return "auto"
	default:
		return "full"
	}
}

// ImageRecord is one row of a "repository:tag" image listing.
type ImageRecord struct {
	Repository string
	Tag        string
}

// Ref returns the record's repository:tag reference.
func (r ImageRecord) Ref() string {
	return r.Repository + ":" + r.Tag
}

// ParseImageRecord parses a "repository:tag" listing line. The tag is the
// part after the last colon so registry ports in the repository survive.
// Blank lines and lines without a colon are rejected.
func ParseImageRecord(line string) (ImageRecord, bool) {
	line = strings.TrimSpace(line)
	idx := strings.LastIndex(line, ":")
	if idx <= 0 || idx == len(line)-1 {
		return ImageRecord{}, false
	}
	return ImageRecord{Repository: line[:idx], Tag: line[idx+1:]}, true
}

// ImageClassifier classifies listed images against the configured naming
// conventions. The expected final references are computed once per run.
type ImageClassifier struct {
	expectedBuilder string
	expectedRootfs  string
	builderPrefix   string
	stagePrefix     string
}

// NewImageClassifier builds a classifier for the given configuration.
func NewImageClassifier(cfg *Config) ImageClassifier {
	return ImageClassifier{
		expectedBuilder: LocalhostPrefix + cfg.BuilderTag + ":latest",
		expectedRootfs:  LocalhostPrefix + cfg.RootfsTag + ":latest",
		builderPrefix:   LocalhostPrefix + BuilderPrefix,
		stagePrefix:     LocalhostPrefix + StagePrefix,
	}
}

// Owned reports whether the reference belongs to this tool: either one of
// the published final tags or anything under the intermediate name prefixes.
func (c ImageClassifier) Owned(ref string) bool {
	return ref == c.expectedBuilder ||
		ref == c.expectedRootfs ||
		strings.HasPrefix(ref, c.builderPrefix) ||
		strings.HasPrefix(ref, c.stagePrefix)
}

// Final reports whether the reference is one of the published final tags.
func (c ImageClassifier) Final(ref string) bool {
	return ref == c.expectedBuilder || ref == c.expectedRootfs
}

// ShouldRemove reports whether the reference qualifies for removal under the
// given mode. Foreign images never qualify; in auto mode the published final
// tags are kept.
func (c ImageClassifier) ShouldRemove(ref string, mode CleanMode) bool {
	if !c.Owned(ref) {
		return false
	}
	if mode == CleanModeAuto && c.Final(ref) {
		return false
	}
	return true
}
