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

// This CLI utility converts TyX documents into Typst and runs the
// Typst engine on them.
//
// Usage:
//   tyxgen [command]
//
// Available Commands:
//   compile     Typeset a TyX document with the Typst engine
//   function    Print the signature of a Typst function
//   help        Help about any command
//   import      Convert Markdown into a TyX document
//   serve       Run the HTTP conversion service
//   typst       Typst output generator for TyX documents
//
// Flags:
//   -h, --help   help for tyxgen
//
// Use "tyxgen [command] --help" for more information about a command.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"akhil.cc/tyxgen/ast"
	"akhil.cc/tyxgen/gen"
	"akhil.cc/tyxgen/gen/typst"
	"akhil.cc/tyxgen/internal/api"
	"akhil.cc/tyxgen/internal/config"
	"akhil.cc/tyxgen/internal/logger"
	"akhil.cc/tyxgen/mdimport"
	"akhil.cc/tyxgen/parser"
	"github.com/fatih/color"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
)

// version is written into the header of generated and imported documents.
const version = "0.1.0"

func prefix(msg string, err error) error {
	return fmt.Errorf("%s%w", msg, err)
}

// report prints err for the user. Corrupt documents get a message of
// their own, since retrying will not help.
func report(w io.Writer, err error) {
	if typst.IsCorrupt(err) {
		color.New(color.FgRed).Fprintf(w, "document appears corrupted: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		report(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg config.Config
	log logger.ILogger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logger.Nop()}
	rootCmd := &cobra.Command{
		Use:   "tyxgen",
		Short: "Typst output generation for TyX documents",
		Long: `This CLI utility converts TyX documents into Typst and runs the
Typst engine on them.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			a.log = logger.New(logger.Options{
				File:       a.cfg.LogFile,
				Level:      a.cfg.LogLevel,
				Production: a.cfg.IsProduction(),
				Console:    cmd.ErrOrStderr(),
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.log.Sync()
		},
	}
	rootCmd.AddCommand(a.typstCmd(), a.compileCmd(), a.functionCmd(), a.importCmd(), a.serveCmd())
	return rootCmd
}

// input opens the named file, or standard input of cmd if args is empty.
func input(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(args[0])
}

func readDocument(cmd *cobra.Command, args []string) (*ast.Document, error) {
	src, err := input(cmd, args)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return parser.Parse(src)
}

// output creates the named file, or returns standard output of cmd.
func output(cmd *cobra.Command, name string) (io.WriteCloser, error) {
	if len(name) == 0 {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(name)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func (a *app) context(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout < 0 {
		timeout = a.cfg.Timeout
	}
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

func (a *app) typstCmd() *cobra.Command {
	var outputfile string
	var timeout time.Duration
	prefixTypst := "(Typst) "
	typstCmd := &cobra.Command{
		Use:   "typst [input] [-o output]",
		Short: "Typst output generator for TyX documents",
		Long: `This command takes a TyX document and converts it to Typst.
Text is escaped so that it is typeset literally. Raw Typst code and
the preamble are copied verbatim. Function calls list their named
arguments in alphabetical order.

If no input file is specified, input is read from
standard input. Similarly, if no output argument is
specified, output is written to standard output.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args)
			if err != nil {
				return prefix(prefixTypst, err)
			}
			out, err := output(cmd, outputfile)
			if err != nil {
				return prefix(prefixTypst, err)
			}
			defer out.Close()
			ctx, cancel := a.context(timeout)
			defer cancel()
			g := typst.GenContext(ctx, doc)
			g.Stdout = out
			if err := g.Run(); err != nil {
				a.log.Warn("typst", "conversion failed", map[string]any{"error": err.Error()})
				return prefix(prefixTypst, err)
			}
			a.log.Debug("typst", "document converted", map[string]any{"bytes": g.Written()})
			return nil
		},
	}
	typstCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if err != nil {
			return prefix(prefixTypst, err)
		}
		return nil
	})
	// pflag includes the argument type when it unquotes its usage.
	// To prevent this behavior we prefix the usage with backquotes ``.
	typstCmd.Flags().StringVarP(&outputfile, "output", "o", "", "``name of the output file")
	typstCmd.Flags().DurationVarP(&timeout, "timeout", "t", -1, "``timeout used to halt the conversion")
	// Set string version of default value to be zero-value to prevent it from being printed by FlagUsages.
	typstCmd.Flags().Lookup("timeout").DefValue = "0"
	return typstCmd
}

func (a *app) compileCmd() *cobra.Command {
	var outputfile, engine string
	var timeout time.Duration
	prefixCompile := "(compile) "
	compileCmd := &cobra.Command{
		Use:   "compile [input] -o output",
		Short: "Typeset a TyX document with the Typst engine",
		Long: `This command converts a TyX document to Typst and pipes the
result into the Typst engine, which writes the typeset document.
The engine command line is split according to the Bourne shell's
word-splitting rules, and {output} is replaced by the output file.
Font paths and the project root in the document settings are
passed on to the engine.

If no input file is specified, input is read from standard input.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args)
			if err != nil {
				return prefix(prefixCompile, err)
			}
			ctx, cancel := a.context(timeout)
			defer cancel()

			g := typst.GenContext(ctx, doc)
			src, err := g.StdoutPipe()
			if err != nil {
				return prefix(prefixCompile, err)
			}
			if err := g.Start(); err != nil {
				return prefix(prefixCompile, err)
			}
			if engine == "" {
				engine = a.cfg.Engine
			}
			e := &gen.Engine{Command: engine, Ctx: ctx, Stderr: cmd.ErrOrStderr()}
			runErr := e.Compile(src, outputfile, doc.Settings)
			// The engine may exit without reading all of its input.
			io.Copy(io.Discard, src)
			// A failed conversion closes the pipe with its error, so the
			// engine error only matters when conversion succeeded.
			if err := g.Wait(); err != nil {
				return prefix(prefixCompile, err)
			}
			if runErr != nil {
				a.log.Error("compile", "engine failed", map[string]any{"error": runErr.Error(), "output": outputfile})
				return prefix(prefixCompile, runErr)
			}
			a.log.Info("compile", "document typeset", map[string]any{"output": outputfile})
			return nil
		},
	}
	compileCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if err != nil {
			return prefix(prefixCompile, err)
		}
		return nil
	})
	compileCmd.Flags().StringVarP(&outputfile, "output", "o", "", "``name of the typeset output file")
	compileCmd.Flags().StringVarP(&engine, "engine", "e", "", "``engine command line (default $TYXGEN_ENGINE)")
	compileCmd.Flags().DurationVarP(&timeout, "timeout", "t", -1, "``timeout used to halt the engine")
	compileCmd.Flags().Lookup("timeout").DefValue = "0"
	compileCmd.MarkFlagRequired("output")
	return compileCmd
}

func (a *app) functionCmd() *cobra.Command {
	var docfile string
	functionCmd := &cobra.Command{
		Use:   "function [name] [-d document]",
		Short: "Print the signature of a Typst function",
		Long: `This command prints how a call of the named function is shown
in the editor, without its content arguments. Functions declared in
the settings of the given document take precedence over the built-in
ones. Without a name, every known function is listed.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var settings *ast.Settings
			if docfile != "" {
				doc, err := readDocument(cmd, []string{docfile})
				if err != nil {
					return err
				}
				settings = doc.Settings
			}
			var names []string
			if len(args) == 1 {
				names = args
			} else {
				for name := range typst.Functions {
					names = append(names, name)
				}
				if settings != nil {
					for name := range settings.Functions {
						if _, ok := typst.Functions[name]; !ok {
							names = append(names, name)
						}
					}
				}
				sort.Strings(names)
			}
			for _, name := range names {
				def, ok := typst.LookupFunction(name, settings)
				if !ok {
					return fmt.Errorf("unknown function %q", name)
				}
				label, err := typst.Label(typst.NewFunctionCall(name, def))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), label)
			}
			return nil
		},
	}
	functionCmd.Flags().StringVarP(&docfile, "document", "d", "", "``TyX document whose function definitions are used")
	return functionCmd
}

func (a *app) importCmd() *cobra.Command {
	var outputfile string
	importCmd := &cobra.Command{
		Use:   "import [input] [-o output]",
		Short: "Convert Markdown into a TyX document",
		Long: `This command parses a Markdown file, including tables and
strikethrough, and writes the equivalent TyX document.

If no input file is specified, input is read from
standard input. Similarly, if no output argument is
specified, output is written to standard output.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := input(cmd, args)
			if err != nil {
				return err
			}
			defer src.Close()
			b, err := io.ReadAll(src)
			if err != nil {
				return err
			}
			doc := mdimport.Import(b, version)
			out, err := output(cmd, outputfile)
			if err != nil {
				return err
			}
			defer out.Close()
			_, err = io.WriteString(out, oj.JSON(doc.Data(), &ojg.Options{Sort: true, Indent: 2})+"\n")
			return err
		},
	}
	importCmd.Flags().StringVarP(&outputfile, "output", "o", "", "``name of the output file")
	return importCmd
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve [--addr address]",
		Short: "Run the HTTP conversion service",
		Long: `This command serves the conversion over HTTP:

  POST /api/convert            TyX document in, Typst out
  POST /api/stringify          function call in, Typst call out
  GET  /api/functions/{name}   signature of a built-in function
  POST /api/import             Markdown in, TyX document out
  GET  /health`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Addr
			}
			httpServer := &http.Server{
				Addr:         addr,
				Handler:      api.NewServer(nil, a.log, a.cfg),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 120 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			// Graceful shutdown.
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				a.log.Info("serve", "shutting down", nil)
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				httpServer.Shutdown(shutdownCtx)
			}()

			a.log.Info("serve", "starting tyxgen", map[string]any{"addr": addr})
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "``listen address (default $TYXGEN_ADDR)")
	return serveCmd
}
