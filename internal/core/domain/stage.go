package domain

import (
	"fmt"
	"strings"
)

// BuildType selects the base-image policy and the extra build configuration
// applied to every stage of a multi-stage build.
type BuildType int

const (
	// BuildTypeBuilder builds the tool's own build environment image.
	// Stage zero starts from scratch.
	BuildTypeBuilder BuildType = iota

	// BuildTypeRootfs builds the target root filesystem image. Stage zero
	// starts from the configured rootfs base and pacman/AUR caches, hooks
	// and extra mounts are attached.
	BuildTypeRootfs
)

// String returns a human readable name for the build type.
func (t BuildType) String() string {
	switch t {
	case BuildTypeRootfs:
		return "rootfs"
	default:
		return "builder"
	}
}

// ParseStageName splits a stage spec into its group and stage halves.
// Only the first colon is significant, so "a:b:c" parses to ("a", "b:c").
// A spec without a colon names both group and stage.
func ParseStageName(spec string) (group, stage string) {
	if g, s, ok := strings.Cut(spec, ":"); ok {
		return g, s
	}
	return spec, spec
}

// ResolvedStage is one stage of a build plan with its derived identity.
type ResolvedStage struct {
	// Spec is the raw configured token, kept for error reporting.
	Spec string

	// Group names the Containerfile to build from.
	Group string

	// Stage is the build target within that Containerfile.
	Stage string

	// Index is the stage's position in the plan.
	Index int

	// Tag is the image tag this stage produces.
	Tag string
}

// BuildPlan is the ordered plan for one multi-stage build.
type BuildPlan struct {
	Stages   []ResolvedStage
	FinalTag string
	TempName string
	Type     BuildType
}

// StageTag derives the tag for a stage. The final stage always carries the
// caller-supplied tag; every other stage gets the intermediate convention
// "trellis-<temp>-<group>-<stage>", collapsing to "trellis-<temp>-<stage>"
// when the group and stage coincide.
func StageTag(tempName, group, stage, finalTag string, index, total int) string {
	if index == total-1 {
		return finalTag
	}
	if group != stage {
		return fmt.Sprintf("trellis-%s-%s-%s", tempName, group, stage)
	}
	return fmt.Sprintf("trellis-%s-%s", tempName, stage)
}

// NewBuildPlan resolves an ordered stage list into a BuildPlan.
func NewBuildPlan(specs []string, finalTag, tempName string, buildType BuildType) *BuildPlan {
	plan := &BuildPlan{
		Stages:   make([]ResolvedStage, 0, len(specs)),
		FinalTag: finalTag,
		TempName: tempName,
		Type:     buildType,
	}

	for i, spec := range specs {
		group, stage := ParseStageName(spec)
		plan.Stages = append(plan.Stages, ResolvedStage{
			Spec:  spec,
			Group: group,
			Stage: stage,
			Index: i,
			Tag:   StageTag(tempName, group, stage, finalTag, i, len(specs)),
		})
	}

	return plan
}

// BaseImage returns the base image for the stage at the given index. Stage
// zero starts from scratch for builder builds and from the configured rootfs
// base for rootfs builds; every later stage builds on the previous stage's
// output under the local registry namespace.
func (p *BuildPlan) BaseImage(index int, rootfsBase string) string {
	if index == 0 {
		if p.Type == BuildTypeRootfs {
			return rootfsBase
		}
		return ScratchImage
	}
	return LocalhostPrefix + p.Stages[index-1].Tag
}
