package appupdate

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aicmd/internal/core"
)

type MockUpdater struct {
	mock.Mock
}

func (m *MockUpdater) DetectLatest(ctx context.Context, repository string) (Release, bool, error) {
	args := m.Called(ctx, repository)
	release, _ := args.Get(0).(Release)
	return release, args.Bool(1), args.Error(2)
}

type MockRelease struct {
	mock.Mock
}

func (m *MockRelease) Version() string {
	return m.Called().String(0)
}

func useTempHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	core.ResetPaths()
	t.Cleanup(core.ResetPaths)
}

func TestHandleSelfUpdate_UpdateNeeded(t *testing.T) {
	useTempHome(t)

	mockUpdater := new(MockUpdater)
	mockRelease := new(MockRelease)

	mockRelease.On("Version").Return("1.2.0")
	mockUpdater.On("DetectLatest", mock.Anything, repoSlug).Return(mockRelease, true, nil)

	resultChannel := HandleSelfUpdate("1.0.0", zap.NewNop(), mockUpdater)

	remoteVersion, ok := <-resultChannel
	assert.True(t, ok)
	assert.Equal(t, "1.2.0", remoteVersion)

	// The version is recorded for the next run.
	assert.Equal(t, "1.2.0", ReadLatestVersion())

	mockUpdater.AssertExpectations(t)
	mockRelease.AssertExpectations(t)
}

func TestHandleSelfUpdate_NoUpdateNeeded(t *testing.T) {
	useTempHome(t)

	mockUpdater := new(MockUpdater)
	mockRelease := new(MockRelease)

	mockRelease.On("Version").Return("1.0.0")
	mockUpdater.On("DetectLatest", mock.Anything, repoSlug).Return(mockRelease, true, nil)

	resultChannel := HandleSelfUpdate("1.0.0", zap.NewNop(), mockUpdater)

	_, ok := <-resultChannel
	assert.False(t, ok)
	assert.Equal(t, "", ReadLatestVersion())
}

func TestHandleSelfUpdate_DevBuild(t *testing.T) {
	mockUpdater := new(MockUpdater)

	resultChannel := HandleSelfUpdate("dev", zap.NewNop(), mockUpdater)

	_, ok := <-resultChannel
	assert.False(t, ok)
	mockUpdater.AssertNotCalled(t, "DetectLatest", mock.Anything, mock.Anything)
}

func TestHandleSelfUpdate_NotFound(t *testing.T) {
	useTempHome(t)

	mockUpdater := new(MockUpdater)
	mockUpdater.On("DetectLatest", mock.Anything, repoSlug).Return(nil, false, nil)

	resultChannel := HandleSelfUpdate("1.0.0", zap.NewNop(), mockUpdater)

	_, ok := <-resultChannel
	assert.False(t, ok)
}

func TestReadLatestVersion(t *testing.T) {
	useTempHome(t)

	require.NoError(t, os.MkdirAll(core.DataDir(), 0755))
	require.NoError(t, os.WriteFile(core.LatestVersionFile(), []byte("1.2.3\n"), 0644))

	assert.Equal(t, "1.2.3", ReadLatestVersion())
}
