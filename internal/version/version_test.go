package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuildVars(t *testing.T, v, commit, built string) {
	t.Helper()
	oldV, oldC, oldB := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = v, commit, built
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldV, oldC, oldB })
}

func TestGetBuildInfo(t *testing.T) {
	withBuildVars(t, "v1.2.3", "0123456789abcdef", "2026-01-02T03:04:05Z")

	info := GetBuildInfo()
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "0123456789abcdef", info.GitCommit)
	assert.Equal(t, "2026-01-02T03:04:05Z", info.BuildTime)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestGetShortVersion(t *testing.T) {
	withBuildVars(t, "v1.2.3", "0123456789abcdef", "unknown")
	assert.Equal(t, "v1.2.3 (0123456)", GetShortVersion())

	withBuildVars(t, "v1.2.3", "abc", "unknown")
	assert.Equal(t, "v1.2.3", GetShortVersion())
}

func TestGetDetailedVersion(t *testing.T) {
	withBuildVars(t, "v1.2.3", "0123456789abcdef", "unknown")

	out := GetDetailedVersion()
	assert.Contains(t, out, "Version: v1.2.3")
	assert.Contains(t, out, "Commit: 0123456789abcdef")
	assert.NotContains(t, out, "Built:")
	assert.Contains(t, out, "Go: "+runtime.Version())
}
