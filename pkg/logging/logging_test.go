package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := NewWriterLogger(&buf, "bml", false)
	l.Debugf("hidden %d", 1)
	l.Infof("exported %d nodes", 3)
	l.Warnf("dropped link")

	assert.Equal(t, "[bml] INFO: exported 3 nodes\n[bml] WARN: dropped link\n", buf.String())

	buf.Reset()
	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("parsing mesh %q", "Cube")
	assert.Equal(t, "[bml] DEBUG: parsing mesh \"Cube\"\n", buf.String())
}

func TestOrNop(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, OrNop(nil))
	assert.False(t, OrNop(nil).DebugEnabled())

	l := NewWriterLogger(&bytes.Buffer{}, "", true)
	assert.Same(t, l, OrNop(l))
}
