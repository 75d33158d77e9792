// MIT License

// Copyright (c) 2018 Akhil Indurti

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Production: true, Console: &buf})
	l.Info("cli", "hidden", nil)
	l.Warn("cli", "shown", map[string]any{"path": "a.tyx"})
	require.NoError(t, l.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	entry, err := oj.ParseString(lines[0])
	require.NoError(t, err)
	m := entry.(map[string]any)
	assert.Equal(t, "WARN", m["level"])
	assert.Equal(t, "shown", m["message"])
	assert.Equal(t, "cli", m["module"])
	assert.Equal(t, map[string]any{"path": "a.tyx"}, m["details"])
}

func TestFileCore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tyxgen.log")
	var console bytes.Buffer
	l := New(Options{File: path, Level: "debug", Console: &console})
	l.Error("api", "conversion failed", map[string]any{"error": "boom"})
	require.NoError(t, l.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	entry, err := oj.Parse(bytes.TrimSpace(b))
	require.NoError(t, err)
	m := entry.(map[string]any)
	assert.Equal(t, "ERROR", m["level"])
	assert.Equal(t, "boom", m["error_ref"])
	assert.Contains(t, console.String(), "conversion failed")
}

func TestBadLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "loud", Console: &buf})
	l.Debug("cli", "hidden", nil)
	l.Info("cli", "shown", nil)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("cli", "nothing", nil)
	assert.NoError(t, l.Sync())
}
