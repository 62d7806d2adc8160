package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCtx_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	ctx := NewContext(context.Background(), p)
	assert.Same(t, p, Ctx(ctx))
}

func TestCtx_DefaultsToStderr(t *testing.T) {
	assert.NotNil(t, Ctx(context.Background()))
}

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Infof("loaded %d suggestions", 3)
	p.Warnf("careful")
	p.Errorf("failed: %s", "boom")
	p.Successf("done")
	p.Printf("plain %s", "line")
	p.Section("History")

	out := buf.String()
	assert.Contains(t, out, "loaded 3 suggestions")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "failed: boom")
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "plain line\n")
	assert.Contains(t, out, "History")
	assert.Contains(t, out, "───────")
}
