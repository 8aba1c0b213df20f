package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/examtex/internal/app"
	"github.com/dgallion1/examtex/internal/config"
	"github.com/dgallion1/examtex/internal/markup"
	"github.com/dgallion1/examtex/internal/preview"
	"github.com/dgallion1/examtex/internal/typeset"
	"github.com/spf13/cobra"
)

// errCheckFailed makes check exit non-zero without printing twice.
var errCheckFailed = errors.New("math check failed")

// Output formats for render and watch.
const (
	formatNodes = "nodes"
	formatHTML  = "html"
	formatText  = "text"
)

type renderFlags struct {
	format     string
	typesetter string
	bullet     string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cfg := config.Load()
	cmd.Flags().StringVarP(&f.format, "format", "f", formatText, "output format: nodes, html or text")
	cmd.Flags().StringVar(&f.typesetter, "typesetter", cfg.Typesetter, "math backend: mathml, strict or none")
	cmd.Flags().StringVar(&f.bullet, "bullet", cfg.Bullet, "label for list items without one")
}

func (f *renderFlags) renderer() (*markup.Renderer, error) {
	switch f.format {
	case formatNodes, formatHTML, formatText:
	default:
		return nil, fmt.Errorf("unknown format %q", f.format)
	}
	return app.NewRenderer(config.Config{Typesetter: f.typesetter, Bullet: f.bullet})
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "examtex",
		Short:         "Render exam questions written in mixed text and LaTeX math",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(renderCmd(), checkCmd(), watchCmd(), serveCmd())
	return root
}

func renderCmd() *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render question markup to nodes, HTML or terminal text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := flags.renderer()
			if err != nil {
				return err
			}
			src, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return writeRendered(cmd.OutOrStdout(), r.Render(string(src)), flags.format)
		},
	}
	flags.register(cmd)
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file|-]",
		Short: "List math spans the strict parser rejects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if n := check(cmd.OutOrStdout(), string(src)); n > 0 {
				return fmt.Errorf("%w: %d span(s) rejected", errCheckFailed, n)
			}
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}
			a, err := app.New(cfg, log)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.Serve(ctx)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default $PORT or 8090)")
	return cmd
}

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}

func writeRendered(w io.Writer, nodes []markup.Node, format string) error {
	switch format {
	case formatNodes:
		if nodes == nil {
			nodes = []markup.Node{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(nodes)
	case formatHTML:
		html, err := preview.HTML(nodes)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, html)
		return err
	default:
		_, err := fmt.Fprintln(w, preview.Terminal(nodes))
		return err
	}
}

// check prints each rejected math span and returns how many there were.
func check(w io.Writer, text string) int {
	spans := markup.FindSpans(markup.Normalize(text))
	failed := 0
	for i, sp := range spans {
		if err := typeset.Check(sp.Expr); err != nil {
			failed++
			fmt.Fprintf(w, "span %d: %s: %v\n", i+1, sp.Source, err)
		}
	}
	fmt.Fprintf(w, "%d math span(s), %d rejected\n", len(spans), failed)
	return failed
}
