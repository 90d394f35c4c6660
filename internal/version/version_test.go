package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.BuildTag)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Contains(t, info.Platform, runtime.GOOS)

	s := info.String()
	assert.Contains(t, s, "Build Tag:  "+Version)
	assert.Contains(t, s, "Git Commit: "+GitCommit)
	assert.Equal(t, Version, Short())
}
