package search

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// SentinelLength is the length of each generated marker.
const SentinelLength = 16

// Sentinels are the markers the index is told to insert around matches and
// between fragments. They are random per request so indexed content cannot
// forge a match.
type Sentinels struct {
	Start    string
	End      string
	Fragment string
}

// NewSentinels returns three distinct random markers of lowercase letters
// and digits.
func NewSentinels() (Sentinels, error) {
	var s Sentinels
	for s.Start == s.End || s.Start == s.Fragment || s.End == s.Fragment {
		var err error
		if s.Start, err = randomMarker(); err != nil {
			return Sentinels{}, err
		}
		if s.End, err = randomMarker(); err != nil {
			return Sentinels{}, err
		}
		if s.Fragment, err = randomMarker(); err != nil {
			return Sentinels{}, err
		}
	}
	return s, nil
}

// randomMarker draws SentinelLength base32 characters (a-z, 2-7) from crypto/rand.
func randomMarker() (string, error) {
	b := make([]byte, SentinelLength*5/8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate sentinel: %w", err)
	}
	return strings.ToLower(base32.StdEncoding.EncodeToString(b)), nil
}
