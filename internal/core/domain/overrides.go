package domain

// Overrides carries raw CLI values layered over the configuration file.
// Nil pointers and nil slices mean the flag was not set, so the file value
// (or default) applies.
type Overrides struct {
	BuilderStages []string
	RootfsStages  []string

	BuilderTag *string
	RootfsTag  *string
	RootfsBase *string

	PodmanBuildCache *bool
	AutoClean        bool
	Quiet            bool

	PacmanCache *string
	AurCache    *string
	SrcDir      *string
	HooksDir    *string

	ExtraContexts []string
	ExtraMounts   []string

	// ConfigPath overrides the configuration file location; empty means
	// resolve via TRELLIS_CONFIG or the default path.
	ConfigPath string
}
