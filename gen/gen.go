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

// Package gen runs the Typst typesetting engine on generated source.
package gen // import "akhil.cc/tyxgen/gen"

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"akhil.cc/tyxgen/ast"
	sq "github.com/kballard/go-shellquote"
)

// DefaultCommand reads Typst source from standard input and writes the
// typeset document to {output}.
const DefaultCommand = "typst compile - {output}"

// Engine holds the command line, cancellation context and Stderr stream
// for the typesetting process.
type Engine struct {
	// Command is split into words like a shell would. The word {output}
	// is replaced by the output path. If empty, DefaultCommand is used.
	Command string
	Ctx     context.Context
	Stderr  io.Writer
}

// EngineError is returned when the engine exits unsuccessfully. It holds
// whatever the engine wrote to its standard error.
type EngineError struct {
	Err    error
	Stderr string
}

func (e *EngineError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return "engine: " + e.Err.Error()
	}
	return "engine: " + e.Err.Error() + ": " + msg
}

func (e *EngineError) Unwrap() error { return e.Err }

// Args returns the engine argument list for output. Font paths and the
// project root from the document settings are passed as flags.
func (e *Engine) Args(output string, settings *ast.Settings) ([]string, error) {
	line := e.Command
	if line == "" {
		line = DefaultCommand
	}
	words, err := sq.Split(line)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("No valid commands: '%q'", line)
	}
	args := make([]string, 0, len(words))
	for _, w := range words {
		args = append(args, strings.ReplaceAll(w, "{output}", output))
	}
	if settings != nil {
		if settings.Root != nil && *settings.Root != "" {
			args = append(args, "--root", *settings.Root)
		}
		for _, p := range settings.FontPaths {
			args = append(args, "--font-path", p)
		}
	}
	return args, nil
}

// Compile pipes src into the engine, waiting for it to write the
// typeset document to output. Stderr of the engine is copied into the
// Engine's Stderr and included in the returned error on failure.
func (e *Engine) Compile(src io.Reader, output string, settings *ast.Settings) error {
	words, err := e.Args(output, settings)
	if err != nil {
		return err
	}
	var cmd *exec.Cmd
	if e.Ctx == nil {
		cmd = exec.Command(words[0], words[1:]...)
	} else {
		cmd = exec.CommandContext(e.Ctx, words[0], words[1:]...)
	}
	cmd.Stdin = src
	stderr := new(syncBuffer)
	if e.Stderr != nil {
		cmd.Stderr = io.MultiWriter(stderr, e.Stderr)
	} else {
		cmd.Stderr = stderr
	}
	if err := cmd.Run(); err != nil {
		return &EngineError{Err: err, Stderr: stderr.String()}
	}
	return nil
}
