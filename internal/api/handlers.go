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

package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"akhil.cc/tyxgen/gen/typst"
	"akhil.cc/tyxgen/mdimport"
	"akhil.cc/tyxgen/parser"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
)

var validate = validator.New()

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "reading body: "+err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := parser.ParseBytes(body)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	g := typst.GenContext(ctx, doc)
	g.Compiler = s.compiler
	out, err := g.Output()
	if err != nil {
		s.conversionError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(out)
}

type stringifyRequest struct {
	Name           string `json:"name" validate:"required"`
	Positional     any    `json:"positional"`
	Named          any    `json:"named"`
	IncludeContent bool   `json:"includeContent"`
}

func (s *Server) handleStringify(w http.ResponseWriter, r *http.Request) {
	data, err := oj.Load(r.Body)
	if err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	obj, ok := data.(map[string]any)
	if !ok {
		jsonError(w, "request must be an object", http.StatusBadRequest)
		return
	}
	req := stringifyRequest{Positional: obj["positional"], Named: obj["named"]}
	req.Name, _ = obj["name"].(string)
	req.IncludeContent, _ = obj["includeContent"].(bool)
	if err := validate.Struct(req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var positional, named []byte
	if req.Positional != nil {
		positional = []byte(oj.JSON(req.Positional))
	}
	if req.Named != nil {
		named = []byte(oj.JSON(req.Named))
	}
	out, err := typst.StringifyJSON(req.Name, positional, named, req.IncludeContent)
	var de *typst.DecodeError
	if errors.As(err, &de) {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		s.conversionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"typst": out})
}

func (s *Server) handleFunction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def, ok := typst.LookupFunction(name, nil)
	if !ok {
		jsonError(w, "unknown function "+name, http.StatusNotFound)
		return
	}
	label, err := typst.Label(typst.NewFunctionCall(name, def))
	if err != nil {
		s.conversionError(w, r, err)
		return
	}
	params := make([]any, 0, len(def.Positional)+len(def.Named))
	for _, p := range def.Positional {
		params = append(params, map[string]any{"type": p.Type, "label": p.Label, "required": p.Required})
	}
	for _, p := range def.Named {
		params = append(params, map[string]any{"name": p.Name, "type": p.Type, "label": p.Label, "required": p.Required})
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "label": label, "parameters": params})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "reading body: "+err.Error(), http.StatusBadRequest)
		return
	}
	doc := mdimport.Import(body, r.URL.Query().Get("version"))
	writeJSON(w, http.StatusOK, doc.Data())
}

// conversionError reports a corrupt document as 422, anything else as 500.
func (s *Server) conversionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case typst.IsCorrupt(err):
		jsonError(w, "document appears corrupted: "+err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, context.DeadlineExceeded):
		jsonError(w, "conversion timed out", http.StatusServiceUnavailable)
	default:
		s.log.Error("api", "conversion failed", map[string]any{"path": r.URL.Path, "error": err.Error()})
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	io.WriteString(w, oj.JSON(v, &ojg.Options{Sort: true}))
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]any{"error": msg})
}
