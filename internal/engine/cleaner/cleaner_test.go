package cleaner_test

import (
	"context"
	"testing"

	"github.com/frap129/trls-sub000/internal/adapters/logger"
	"github.com/frap129/trls-sub000/internal/core/domain"
	"github.com/frap129/trls-sub000/internal/core/ports"
	"github.com/frap129/trls-sub000/internal/core/ports/mocks"
	"github.com/frap129/trls-sub000/internal/engine/cleaner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const imageListing = `localhost/trellis-builder:latest
localhost/trellis-builder-base:latest
localhost/trellis-stage-base:latest
localhost/trellis-rootfs:latest
docker.io/library/alpine:latest

`

func testConfig() *domain.Config {
	return &domain.Config{
		BuilderTag: domain.DefaultBuilderTag,
		RootfsTag:  domain.DefaultRootfsTag,
	}
}

func listResult(stdout string) *ports.Result {
	return &ports.Result{Stdout: stdout}
}

func newCleaner(cfg *domain.Config, exec ports.Executor) *cleaner.Cleaner {
	return cleaner.New(cfg, exec, logger.New())
}

func TestClean_FullRemovesEveryOwnedImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	exec.EXPECT().ListImages(gomock.Any(), []string{"--format", "{{.Repository}}:{{.Tag}}"}).
		Return(listResult(imageListing), nil)
	exec.EXPECT().RemoveImages(gomock.Any(), []string{
		"-f",
		"localhost/trellis-builder:latest",
		"localhost/trellis-builder-base:latest",
		"localhost/trellis-stage-base:latest",
		"localhost/trellis-rootfs:latest",
	}).Return(&ports.Result{}, nil)

	removed, err := newCleaner(testConfig(), exec).Clean(context.Background(), domain.CleanModeFull)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)
}

func TestClean_AutoKeepsFinalTags(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	exec.EXPECT().ListImages(gomock.Any(), gomock.Any()).
		Return(listResult(imageListing), nil)
	exec.EXPECT().RemoveImages(gomock.Any(), []string{
		"-f",
		"localhost/trellis-builder-base:latest",
		"localhost/trellis-stage-base:latest",
	}).Return(&ports.Result{}, nil)

	removed, err := newCleaner(testConfig(), exec).Clean(context.Background(), domain.CleanModeAuto)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}

func TestClean_SkipsMalformedListingLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	listing := "garbage-without-tag\n\nlocalhost/trellis-stage-base:latest\n:\n"
	exec.EXPECT().ListImages(gomock.Any(), gomock.Any()).
		Return(listResult(listing), nil)
	exec.EXPECT().RemoveImages(gomock.Any(), []string{"-f", "localhost/trellis-stage-base:latest"}).
		Return(&ports.Result{}, nil)

	removed, err := newCleaner(testConfig(), exec).Clean(context.Background(), domain.CleanModeFull)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestClean_NothingToRemove(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	exec.EXPECT().ListImages(gomock.Any(), gomock.Any()).
		Return(listResult("docker.io/library/alpine:latest\n"), nil)

	removed, err := newCleaner(testConfig(), exec).Clean(context.Background(), domain.CleanModeFull)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestClean_SingleImageSkipsBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	exec.EXPECT().ListImages(gomock.Any(), gomock.Any()).
		Return(listResult("localhost/trellis-stage-base:latest\n"), nil)
	exec.EXPECT().RemoveImages(gomock.Any(), []string{"-f", "localhost/trellis-stage-base:latest"}).
		Return(&ports.Result{}, nil)

	removed, err := newCleaner(testConfig(), exec).Clean(context.Background(), domain.CleanModeFull)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestClean_BatchFailureFallsBackToIndividual(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	listing := "localhost/trellis-stage-a:latest\nlocalhost/trellis-stage-b:latest\n"
	exec.EXPECT().ListImages(gomock.Any(), gomock.Any()).
		Return(listResult(listing), nil)

	// Batch fails, one individual removal succeeds, one fails.
	exec.EXPECT().RemoveImages(gomock.Any(), []string{"-f", "localhost/trellis-stage-a:latest", "localhost/trellis-stage-b:latest"}).
		Return(&ports.Result{ExitCode: 125, Stderr: "image in use"}, nil)
	exec.EXPECT().RemoveImages(gomock.Any(), []string{"-f", "localhost/trellis-stage-a:latest"}).
		Return(&ports.Result{}, nil)
	exec.EXPECT().RemoveImages(gomock.Any(), []string{"-f", "localhost/trellis-stage-b:latest"}).
		Return(&ports.Result{ExitCode: 1, Stderr: "still in use"}, nil)

	removed, err := newCleaner(testConfig(), exec).Clean(context.Background(), domain.CleanModeFull)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestClean_ListFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	exec.EXPECT().ListImages(gomock.Any(), gomock.Any()).
		Return(&ports.Result{ExitCode: 1, Stderr: "cannot connect"}, nil)

	_, err := newCleaner(testConfig(), exec).Clean(context.Background(), domain.CleanModeFull)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list images")
}

func TestAutoClean_DisabledDoesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	// No expectations: disabled auto-clean must not touch podman.

	cfg := testConfig()
	cfg.AutoClean = false

	err := newCleaner(cfg, exec).AutoClean(context.Background())
	assert.NoError(t, err)
}

func TestAutoClean_EnabledRemovesIntermediates(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	exec.EXPECT().ListImages(gomock.Any(), gomock.Any()).
		Return(listResult(imageListing), nil)
	exec.EXPECT().RemoveImages(gomock.Any(), gomock.Any()).
		Return(&ports.Result{}, nil)

	cfg := testConfig()
	cfg.AutoClean = true

	err := newCleaner(cfg, exec).AutoClean(context.Background())
	assert.NoError(t, err)
}

func TestCleanAll_ReportsWhenNothingFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	exec.EXPECT().ListImages(gomock.Any(), gomock.Any()).
		Return(listResult(""), nil)

	err := newCleaner(testConfig(), exec).CleanAll(context.Background())
	assert.NoError(t, err)
}
