package search

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSentinels(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z2-7]+$`)

	s, err := NewSentinels()
	require.NoError(t, err)

	for _, m := range []string{s.Start, s.End, s.Fragment} {
		assert.Len(t, m, SentinelLength)
		assert.Regexp(t, valid, m)
	}
	assert.NotEqual(t, s.Start, s.End)
	assert.NotEqual(t, s.Start, s.Fragment)
	assert.NotEqual(t, s.End, s.Fragment)

	other, err := NewSentinels()
	require.NoError(t, err)
	assert.NotEqual(t, s, other, "sentinels are per request")
}
