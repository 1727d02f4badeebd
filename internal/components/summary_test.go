package components

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, []Outcome{
		{Component: "api", Command: "deploy", Status: StatusSuccess, Duration: 1500 * time.Millisecond},
		{Component: "web", Command: "deploy", Status: StatusFailure, Err: errors.New("boom")},
	}, []string{"cdn"})

	out := buf.String()
	assert.Contains(t, out, "api")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "web")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "cdn")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "1 of 2 components failed")
}

func TestWriteSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, nil, nil)
	assert.Empty(t, buf.String())
}
