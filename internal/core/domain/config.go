package domain

// Config is the fully resolved configuration for a build or cleanup run.
// The config adapter produces it by merging CLI flags over file values over
// defaults; engines treat it as read-only.
type Config struct {
	BuilderStages []string
	RootfsStages  []string

	BuilderTag string
	RootfsTag  string
	RootfsBase string

	PodmanBuildCache bool
	AutoClean        bool
	Quiet            bool

	PacmanCache string
	AurCache    string
	SrcDir      string
	HooksDir    string

	ExtraContexts []string
	ExtraMounts   []string
}
