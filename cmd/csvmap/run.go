package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/JonMunkholm/csvmap/internal/automap"
	"github.com/JonMunkholm/csvmap/internal/config"
	"github.com/JonMunkholm/csvmap/internal/core"
	"github.com/JonMunkholm/csvmap/internal/csvcodec"
	"github.com/JonMunkholm/csvmap/internal/logging"
	"github.com/JonMunkholm/csvmap/internal/schema"
)

// errInvalidRows is returned with --fail-on-invalid after the output has
// been written.
var errInvalidRows = errors.New("rows failed validation")

// report is the JSON document written by --report.
type report struct {
	Schema  string              `json:"schema"`
	Input   string              `json:"input"`
	Mapping map[string][]string `json:"mapping"`
	*core.Preview
}

func run(ctx context.Context, cfg *config.Config, opts *Options, stdin io.Reader, stdout io.Writer) error {
	for _, path := range cfg.Input.SchemaFiles {
		s, err := schema.LoadSchema(path)
		if err != nil {
			return err
		}
		if _, ok := core.GetSchema(s.Key); ok {
			return fmt.Errorf("schema file %s: key %q is already registered", path, s.Key)
		}
		core.RegisterSchema(s)
	}

	if opts.List {
		return listSchemas(stdout)
	}

	sch, err := resolveSchema(opts)
	if err != nil {
		return err
	}
	logger := logging.WithFields(ctx, "schema", sch.Key, "input", inputName(opts.Args.Input))

	data, err := readInput(opts.Args.Input, stdin, cfg.Input.MaxFileSize)
	if err != nil {
		return err
	}

	engineOpts := []core.Option{core.WithDialect(outputDialect(cfg.Codec, opts.Delimiter))}
	if opts.NoHeader || !cfg.Codec.Header {
		engineOpts = append(engineOpts, core.WithoutHeader())
	}
	if opts.Strict {
		engineOpts = append(engineOpts, core.WithTransformErrorHandler(func(core.TransformError) bool { return false }))
	}
	engine, err := sch.Engine(engineOpts...)
	if err != nil {
		return err
	}

	imp, err := core.ParseImport(data, parseOptions(cfg.Codec, opts.Delimiter), engine)
	if err != nil {
		return err
	}
	logger.Debug("input parsed", "headers", len(imp.Headers()), "rows", imp.Table().Len())

	templatesPath := opts.Templates
	if templatesPath == "" {
		templatesPath = cfg.Input.Templates
	}
	if err := chooseMapping(logger, imp, sch.Key, opts, templatesPath); err != nil {
		return err
	}
	if !opts.NoAutoMap {
		amOpts, err := autoMapOptions(cfg.AutoMap, opts)
		if err != nil {
			return err
		}
		for _, e := range imp.AutoMap(amOpts) {
			logger.Debug("auto-mapped column", "source", e.Source, "targets", e.Targets)
		}
	}

	if cfg.Input.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Input.Timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := imp.Transform(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := writeOutput(opts.Output, stdout, res.Text, cfg.Codec.NewlineString()); err != nil {
		return err
	}
	if opts.Report != "" {
		if err := writeReport(opts.Report, report{
			Schema:  sch.Key,
			Input:   inputName(opts.Args.Input),
			Mapping: imp.Mappings().Map(),
			Preview: core.NewPreview(res, elapsed),
		}); err != nil {
			return err
		}
	}
	if err := saveMapping(imp, sch.Key, opts, templatesPath); err != nil {
		return err
	}

	v := res.Validation
	logger.Info("transform complete",
		"run_id", res.RunID,
		"rows", v.TotalRows,
		"error_rows", v.ErrorRows,
		"errors", v.ErrorCount,
		"transform_errors", len(res.TransformErrors),
		"duration", elapsed,
	)
	if opts.FailInvalid && !v.Valid() {
		return errInvalidRows
	}
	return nil
}

// resolveSchema prefers a schema file over a registered key.
func resolveSchema(opts *Options) (core.Schema, error) {
	switch {
	case opts.SchemaFile != "":
		return schema.LoadSchema(opts.SchemaFile)
	case opts.Schema != "":
		return core.LookupSchema(opts.Schema)
	default:
		return core.Schema{}, errors.New("one of --schema or --schema-file is required")
	}
}

func listSchemas(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tGROUP\tLABEL\tCOLUMNS")
	for _, s := range core.Schemas() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.Key, s.Group, s.Label, len(s.Columns))
	}
	return tw.Flush()
}

// chooseMapping applies a mapping file, or else the best matching template
// for this schema.
func chooseMapping(logger *slog.Logger, imp *core.Importer, schemaKey string, opts *Options, templatesPath string) error {
	if opts.Mapping != "" {
		m, err := schema.LoadMapping(opts.Mapping)
		if err != nil {
			return err
		}
		return imp.SetMapping(m)
	}

	if templatesPath == "" {
		return nil
	}
	templates, err := schema.LoadTemplates(templatesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && opts.SaveTemplate != "" {
			return nil
		}
		return err
	}

	var candidates []core.ImportTemplate
	for _, t := range templates {
		if t.Schema == "" || t.Schema == schemaKey {
			candidates = append(candidates, t)
		}
	}
	matches := core.MatchTemplates(imp.Headers(), candidates)
	if len(matches) == 0 {
		logger.Debug("no import template matched", "templates", len(candidates))
		return nil
	}

	best := matches[0]
	if err := imp.SetMapping(best.Template.ToMapping(imp.Headers())); err != nil {
		return fmt.Errorf("template %q: %w", best.Template.Name, err)
	}
	logger.Info("import template applied", "template", best.Template.Name, "score", best.Score)
	return nil
}

func saveMapping(imp *core.Importer, schemaKey string, opts *Options, templatesPath string) error {
	if opts.SaveMapping != "" {
		if err := schema.WriteMapping(opts.SaveMapping, imp.Mappings()); err != nil {
			return err
		}
	}
	if opts.SaveTemplate == "" {
		return nil
	}
	if templatesPath == "" {
		return errors.New("--save-template needs --templates")
	}

	templates, err := schema.LoadTemplates(templatesPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	tpl := core.TemplateFromMapping(opts.SaveTemplate, schemaKey, imp.Headers(), imp.Mappings())
	replaced := false
	for i := range templates {
		if templates[i].Name == tpl.Name {
			templates[i] = tpl
			replaced = true
		}
	}
	if !replaced {
		templates = append(templates, tpl)
	}
	return schema.WriteTemplates(templatesPath, templates)
}

func readInput(path string, stdin io.Reader, limit int64) ([]byte, error) {
	r := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("input exceeds %d bytes", limit)
	}
	return data, nil
}

func inputName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}

func writeOutput(path string, stdout io.Writer, text, newline string) error {
	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if text != "" {
		text += newline
	}
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func writeReport(path string, r report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	slog.Debug("report written", "path", path)
	return nil
}

// ----------------------------------------------------------------------------
// Config to codec options
// ----------------------------------------------------------------------------

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

func parseOptions(c config.CodecConfig, delimiter string) csvcodec.Options {
	if delimiter == "" {
		delimiter = c.Delimiter
	}
	return csvcodec.Options{
		Header:      true,
		Separator:   firstRune(unescape(delimiter)),
		Quote:       firstRune(c.Quote),
		Escape:      firstRune(c.Escape),
		SampleLines: c.SampleLines,
	}
}

// outputDialect writes with the configured characters. When the input
// separator is sniffed the output uses a comma.
func outputDialect(c config.CodecConfig, delimiter string) csvcodec.Dialect {
	p := parseOptions(c, delimiter)
	return csvcodec.Dialect{
		Separator: p.Separator,
		Quote:     p.Quote,
		Escape:    p.Escape,
		Newline:   c.NewlineString(),
	}
}

// unescape lets a tab be passed as \t on the command line.
func unescape(s string) string {
	if strings.EqualFold(s, `\t`) || strings.EqualFold(s, "tab") {
		return "\t"
	}
	return s
}

func autoMapOptions(c config.AutoMapConfig, opts *Options) (automap.Options, error) {
	threshold := c.Threshold
	if opts.Threshold > 0 {
		threshold = opts.Threshold
	}
	modeName := c.Mode
	if opts.Mode != "" {
		modeName = opts.Mode
	}
	mode, err := automap.ParseMode(modeName)
	if err != nil {
		return automap.Options{}, err
	}
	return automap.Options{Threshold: threshold, Mode: mode}, nil
}
