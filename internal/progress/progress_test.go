package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := &Progress{w: &buf, label: "Importing", total: 10, isTTY: true}
	p.Increment()
	p.Print()
	assert.Equal(t, "\rImporting... 1/10 (10%)", buf.String())
	p.Done()
	assert.Contains(t, buf.String(), "\r"+blank+"\r")

	buf.Reset()
	small := &Progress{w: &buf, label: "Importing", total: minItems - 1, isTTY: true}
	small.Increment()
	small.Print()
	small.Done()
	assert.Empty(t, buf.String())

	pipe := &Progress{w: &buf, label: "Importing", total: 10}
	pipe.Increment()
	pipe.Print()
	assert.Empty(t, buf.String())
}

func TestCounter(t *testing.T) {
	var buf bytes.Buffer
	c := &Counter{w: &buf, label: "Syncing", isTTY: true}
	for range 250 {
		c.Add()
	}
	assert.Equal(t, 250, c.Count())
	assert.Equal(t, "\rSyncing... 100\rSyncing... 200", buf.String())
	c.Done()
	assert.Contains(t, buf.String(), blank)
}
