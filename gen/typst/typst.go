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

// Package typst converts a TyX document tree into Typst markup.
// Text runs are escaped so that they are typeset literally.
// Function calls are rendered with their arguments in a stable order.
// Raw Typst code nodes are copied into the output without any escaping.
//
// AST nodes correspond to the following Typst constructs:
// 	Root                        children, #text(dir: ..)[] when a direction is set
// 	Paragraph                   children, #align(..)[] or #par(justify: true)[]
// 	Text                        #strong[], #emph[], #underline[], #strike[], #sub[], #super[]
// 	Text (code)                 #raw("")
// 	Math                        $..$ inline, $ .. $ block
// 	List (bullet, check)        #list([], [])
// 	List (number)               #enum(start: n, [], [])
// 	Quote                       #quote(block: true)[]
// 	Code                        #text(dir: ltr)[#raw(block: true, lang: "", "")]
// 	Table                       #table(columns: (1fr, ..), [], [])
// 	LineBreak                   \
// 	HorizontalRule              #line(length: 100%)
// 	TypstCode                   verbatim
// 	Image                       #image("")
// 	Link                        #link("")[]
// 	Heading                     #heading(depth: n)[]
// 	FunctionCall                #name(positional.., named: ..)
package typst // import "akhil.cc/tyxgen/gen/typst"

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"akhil.cc/tyxgen/ast"
)

type stickyCountWriter struct {
	n   int64
	err error
	w   io.Writer
}

func (c *stickyCountWriter) Write(p []byte) (n int, err error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err = c.w.Write(p)
	c.err = err
	c.n += int64(n)
	return
}

// Generator represents a non-reusable Typst output generator for an *ast.Document.
type Generator struct {
	// Stdout specifies the generator's standard output, where
	// the Typst source is written.
	Stdout io.Writer
	// Compiler converts the document. If nil, the default Compiler is used.
	Compiler *Compiler

	ctx      context.Context
	doc      *ast.Document
	waitdone chan error
	written  int64
	lastErr  error

	m     sync.Mutex
	pipes []io.Closer
}

// Gen returns the Generator struct to convert the given document into Typst output.
//
// It sets only the document in the returned structure.
func Gen(doc *ast.Document) *Generator {
	return &Generator{ctx: context.TODO(), doc: doc}
}

// GenContext is like Gen but includes a context.
//
// Conversion itself cannot be interrupted. If the context is done by
// the time the document has been converted, the result is discarded
// and nothing is written.
func GenContext(ctx context.Context, doc *ast.Document) *Generator {
	if ctx == nil {
		panic("nil context")
	}
	return &Generator{ctx: ctx, doc: doc}
}

// Start starts the generator but does not wait for it to complete.
func (g *Generator) Start() error {
	if g.waitdone != nil {
		return fmt.Errorf("already started")
	}
	if g.Stdout == nil {
		g.Stdout = io.Discard
	}
	g.waitdone = make(chan error, 1)
	go func() {
		err := g.gen()
		g.m.Lock()
		for _, p := range g.pipes {
			p.Close()
		}
		g.pipes = nil
		g.m.Unlock()
		g.waitdone <- err
	}()
	return nil
}

// Wait waits for the generator to complete and finish writing to
// Stdout. It is an error to call Wait before Start has been called.
//
// Wait will release any resources associated with the generator.
func (g *Generator) Wait() error {
	if g.waitdone == nil {
		return fmt.Errorf("not started")
	}
	return <-g.waitdone
}

// Run starts the generator and waits for it to complete, returning
// any errors encountered.
func (g *Generator) Run() error {
	if err := g.Start(); err != nil {
		return err
	}
	return g.Wait()
}

// StdoutPipe returns a pipe that is connected to the generator's
// standard output. The pipe is closed once the generator is done;
// a conversion error is reported to the reader.
//
// Reads from the pipe must be done before calling Wait, so it is
// invalid to call Run when using StdoutPipe.
func (g *Generator) StdoutPipe() (io.Reader, error) {
	if g.Stdout != nil {
		return nil, fmt.Errorf("Stdout already set")
	}
	pr, pw := io.Pipe()
	g.Stdout = pw
	g.pipes = append(g.pipes, &pipeCloser{g: g, pw: pw})
	return pr, nil
}

type pipeCloser struct {
	g  *Generator
	pw *io.PipeWriter
}

func (p *pipeCloser) Close() error {
	return p.pw.CloseWithError(p.g.lastErr)
}

// Output runs the generator and returns its standard output.
func (g *Generator) Output() ([]byte, error) {
	if g.Stdout != nil {
		return nil, fmt.Errorf("Stdout already set")
	}
	var stdout bytes.Buffer
	g.Stdout = &stdout
	err := g.Run()
	return stdout.Bytes(), err
}

// Written returns the number of bytes written to Stdout.
// It is only valid after Wait returns.
func (g *Generator) Written() int64 {
	return g.written
}

func (g *Generator) gen() error {
	err := g.write()
	g.lastErr = err
	return err
}

func (g *Generator) write() error {
	c := g.Compiler
	if c == nil {
		c = std
	}
	src, err := c.Assemble(g.doc)
	if err != nil {
		return err
	}
	select {
	case <-g.ctx.Done():
		return g.ctx.Err()
	default:
	}
	cw := &stickyCountWriter{0, nil, g.Stdout}
	io.WriteString(cw, src)
	g.written = cw.n
	return cw.err
}
