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

// Examples for typst.go
package typst_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"akhil.cc/tyxgen/gen/typst"
	"akhil.cc/tyxgen/parser"
)

const exampleDoc = `{
	"version": "0.1.0",
	"content": {"root": {"type": "root", "children": [
		{"type": "heading", "tag": "h1", "children": [{"type": "text", "text": "Heading 1"}]},
		{"type": "paragraph", "children": [
			{"type": "text", "text": "This is a paragraph. "},
			{"type": "text", "text": "something something Gopher...", "format": 2}
		]}
	]}}
}`

func ExampleGen() {
	doc := parser.MustParse(strings.NewReader(exampleDoc))
	g := typst.Gen(doc)
	var out bytes.Buffer
	g.Stdout = &out

	if err := g.Run(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", out.String())
	// Output:
	// // Automatically generated by TyX 0.1.0.
	//
	// // Settings
	// #metadata(json(bytes(```json {}```.text))) <tyx-settings>
	// // Content
	// #heading(depth: 1)[Heading 1]This is a paragraph. #emph[something something Gopher...]
}

func ExampleGenContext() {
	doc := parser.MustParse(strings.NewReader(exampleDoc))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	g := typst.GenContext(ctx, doc)
	var out bytes.Buffer
	g.Stdout = &out

	if err := g.Run(); err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.Len() > 0)
	// Output:
	// true
}

func ExampleGenerator_StdoutPipe() {
	doc := parser.MustParse(strings.NewReader(exampleDoc))
	g := typst.Gen(doc)
	stdout, err := g.StdoutPipe()
	if err != nil {
		log.Fatal(err)
	}

	if err := g.Start(); err != nil {
		log.Fatal(err)
	}
	b, _ := io.ReadAll(stdout)
	fmt.Printf("%d lines\n", bytes.Count(b, []byte("\n")))

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
	// Output:
	// 5 lines
}

func ExampleCompile() {
	doc := parser.MustParse(strings.NewReader(`{"version": "", "content": {"root":
		{"type": "root", "children": [{"type": "text", "text": "Hi", "format": 1}]}}}`))
	s, err := typst.Compile(doc.Content.Root)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(s)
	// Output:
	// #strong[Hi]
}

func ExampleStringifyJSON() {
	s, err := typst.StringifyJSON("v",
		[]byte(`[{"type": "length", "value": "2", "unit": "cm"}]`),
		[]byte(`{"weak": {"type": "boolean", "value": true}}`), false)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(s)
	// Output:
	// v(2cm, weak: true)
}
