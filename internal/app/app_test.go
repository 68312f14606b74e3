package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/frap129/trls-sub000/internal/adapters/logger"
	"github.com/frap129/trls-sub000/internal/app"
	"github.com/frap129/trls-sub000/internal/core/domain"
	"github.com/frap129/trls-sub000/internal/core/ports"
	"github.com/frap129/trls-sub000/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	app    *app.App
	loader *mocks.MockConfigLoader
	exec   *mocks.MockExecutor
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	exec := mocks.NewMockExecutor(ctrl)
	return fixture{
		app:    app.New(loader, exec, logger.New()),
		loader: loader,
		exec:   exec,
	}
}

func stageConfig(t *testing.T, stages ...string) *domain.Config {
	t.Helper()
	srcDir := t.TempDir()
	for _, stage := range stages {
		group, _ := domain.ParseStageName(stage)
		path := filepath.Join(srcDir, domain.ContainerfilePrefix+group)
		require.NoError(t, os.WriteFile(path, []byte("FROM scratch\n"), 0o644))
	}
	return &domain.Config{
		SrcDir:           srcDir,
		BuilderTag:       domain.DefaultBuilderTag,
		RootfsTag:        domain.DefaultRootfsTag,
		RootfsBase:       domain.ScratchImage,
		BuilderStages:    stages,
		RootfsStages:     stages,
		PodmanBuildCache: true,
		Quiet:            true,
	}
}

func TestBuildBuilder_NoStagesConfigured(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(&domain.Config{}, nil)

	err := f.app.BuildBuilder(context.Background(), domain.Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no builder stages defined")
}

func TestBuildRootfs_NoStagesConfigured(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(&domain.Config{}, nil)

	err := f.app.BuildRootfs(context.Background(), domain.Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rootfs stages defined")
}

func TestBuildBuilder_BuildsEveryStage(t *testing.T) {
	f := newFixture(t)
	cfg := stageConfig(t, "base", "tools")
	f.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)

	var tags []string
	f.exec.EXPECT().Build(gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, args []string) (*ports.Result, error) {
			for i, arg := range args {
				if arg == "-t" {
					tags = append(tags, args[i+1])
				}
			}
			return &ports.Result{}, nil
		})

	err := f.app.BuildBuilder(context.Background(), domain.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, []string{"trellis-builder-base", domain.DefaultBuilderTag}, tags)
}

func TestBuildRootfs_UsesStageTempName(t *testing.T) {
	f := newFixture(t)
	cfg := stageConfig(t, "base", "final")
	f.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)

	var tags []string
	f.exec.EXPECT().Build(gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, args []string) (*ports.Result, error) {
			for i, arg := range args {
				if arg == "-t" {
					tags = append(tags, args[i+1])
				}
			}
			return &ports.Result{}, nil
		})

	err := f.app.BuildRootfs(context.Background(), domain.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, []string{"trellis-stage-base", domain.DefaultRootfsTag}, tags)
}

func TestBuildBuilder_AutoCleanRunsAfterSuccess(t *testing.T) {
	f := newFixture(t)
	cfg := stageConfig(t, "base")
	cfg.AutoClean = true
	f.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)

	f.exec.EXPECT().Build(gomock.Any(), gomock.Any()).Return(&ports.Result{}, nil)
	f.exec.EXPECT().ListImages(gomock.Any(), gomock.Any()).Return(&ports.Result{}, nil)

	err := f.app.BuildBuilder(context.Background(), domain.Overrides{})
	assert.NoError(t, err)
}

func TestBuildBuilder_FailureSkipsAutoClean(t *testing.T) {
	f := newFixture(t)
	cfg := stageConfig(t, "base")
	cfg.AutoClean = true
	f.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)

	f.exec.EXPECT().Build(gomock.Any(), gomock.Any()).
		Return(&ports.Result{ExitCode: 1, Stderr: "boom"}, nil)
	// No ListImages expectation: a failed build must not auto-clean.

	err := f.app.BuildBuilder(context.Background(), domain.Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "podman build failed")
}

func TestRun_StartsRootfsImage(t *testing.T) {
	f := newFixture(t)
	cfg := stageConfig(t, "base")
	f.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)

	f.exec.EXPECT().Execute(gomock.Any(), "podman", []string{"image", "exists", "localhost/" + domain.DefaultRootfsTag}).
		Return(&ports.Result{}, nil)
	f.exec.EXPECT().RunStreaming(gomock.Any(), gomock.Any()).Return(0, nil)

	err := f.app.Run(context.Background(), domain.Overrides{}, []string{"bash"})
	assert.NoError(t, err)
}

func TestClean_RemovesAllOwnedImages(t *testing.T) {
	f := newFixture(t)
	cfg := stageConfig(t, "base")
	f.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)

	f.exec.EXPECT().ListImages(gomock.Any(), gomock.Any()).
		Return(&ports.Result{Stdout: "localhost/trellis-rootfs:latest\n"}, nil)
	f.exec.EXPECT().RemoveImages(gomock.Any(), []string{"-f", "localhost/trellis-rootfs:latest"}).
		Return(&ports.Result{}, nil)

	err := f.app.Clean(context.Background(), domain.Overrides{})
	assert.NoError(t, err)
}

func TestUpdate_BuildsThenUpgrades(t *testing.T) {
	f := newFixture(t)
	cfg := stageConfig(t, "base")
	f.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil).Times(2)

	f.exec.EXPECT().Build(gomock.Any(), gomock.Any()).Return(&ports.Result{}, nil)
	f.exec.EXPECT().Bootc(gomock.Any(), []string{"--version"}).Return(&ports.Result{}, nil)
	f.exec.EXPECT().Bootc(gomock.Any(), []string{"upgrade"}).Return(&ports.Result{}, nil)

	err := f.app.Update(context.Background(), domain.Overrides{})
	assert.NoError(t, err)
}

func TestUpdate_BuildFailureStopsBeforeBootc(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(&domain.Config{}, nil)
	// No Bootc expectations: a failed build must not reach bootc.

	err := f.app.Update(context.Background(), domain.Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rootfs stages defined")
}
