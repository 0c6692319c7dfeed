package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lazypower/orbit/internal/config"
	"github.com/lazypower/orbit/internal/engine"
	"github.com/lazypower/orbit/internal/records"
	"github.com/lazypower/orbit/internal/render"
	"github.com/lazypower/orbit/internal/store"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// app is everything a command needs, opened from the loaded config.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	backend store.Backend
	records *records.Store
	engine  *engine.Engine
	format  string
	out     io.Writer
}

// open loads config, applies flag overrides and opens the record store.
func (g *globalFlags) open(cmd *cobra.Command) (*app, error) {
	switch g.format {
	case formatTable, formatJSON, formatYAML:
	default:
		return nil, fmt.Errorf("unknown format %q (want table, json or yaml)", g.format)
	}

	cfg, err := config.Load(g.config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = g.logJSON
	}
	log, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	backend, err := store.OpenBackend(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	rs, err := records.Open(backend, records.Options{Logger: log, UndoWindow: cfg.UndoWindow()})
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("open records: %w", err)
	}
	if n := rs.Dropped(); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d stored item(s) with a null or repeated id were skipped\n", n)
	}
	eng := engine.New(engine.Options{UpcomingDays: cfg.View.UpcomingDays, Logger: log})

	out := cmd.OutOrStdout()
	render.Setup(out)
	return &app{
		cfg:     cfg,
		log:     log,
		backend: backend,
		records: rs,
		engine:  eng,
		format:  g.format,
		out:     out,
	}, nil
}

func (a *app) Close() error {
	a.engine.Stop()
	return a.backend.Close()
}

func newLogger(lc config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := lc.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.JSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// emit writes v in the structured format picked with --format, or calls table
// for the default human output.
func (a *app) emit(v any, table func(io.Writer) error) error {
	switch a.format {
	case formatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		return writeYAML(a.out, v)
	}
	return table(a.out)
}

// writeYAML converts v through its JSON form so field names and order match
// the API, then prints it as block-style YAML.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("convert to yaml: %w", err)
	}
	blockStyle(&doc)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
