// Package check wires configuration detection, the external analysis
// engine, and position remapping into one run over a project's build
// output.
package check

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"distlint/pkg/detect"
	"distlint/pkg/engine"
	"distlint/pkg/esver"
	"distlint/pkg/logging"
	"distlint/pkg/remap"
)

// Provenance labels for configuration that did not come out of detection.
const (
	SourceFlag    = "flag"
	SourceDefault = "default"
)

// defaultDist is scanned when neither the caller nor detection names an
// output directory.
const defaultDist = "dist"

// BadDirError reports a path that cannot be scanned. It is fatal to the
// whole run and raised before the engine is invoked.
type BadDirError struct {
	Path   string
	Reason string
}

func (e *BadDirError) Error() string {
	return fmt.Sprintf("cannot check '%s': %s", e.Path, e.Reason)
}

// NoTargetError reports that no target language level was supplied and
// none could be detected. It names the files the detection pass searched.
type NoTargetError struct {
	Dir      string
	Searched []string
}

func (e *NoTargetError) Error() string {
	return fmt.Sprintf("no target language level for '%s': pass one explicitly or add it to one of %s",
		e.Dir, strings.Join(e.Searched, ", "))
}

// Options configures one check run. Target, Dist, and Browsers are
// explicit overrides; whatever is left empty is filled from detection. The
// Source fields label where an override came from and default to "flag".
type Options struct {
	Dir      string
	Target   string
	Dist     []string
	Browsers []string

	TargetSource   string
	DistSource     string
	BrowsersSource string

	// Env names the browserslist environment for runtime-list files with
	// [env] sections.
	Env string

	Engine   engine.Engine
	Resolver *remap.Resolver
	Logger   *slog.Logger
}

// Result is the outcome of one check run.
type Result struct {
	Detection detect.Result `json:"detection"`

	Target         esver.Token `json:"target"`
	TargetSource   string      `json:"targetSource"`
	Dirs           []string    `json:"dirs"`
	DirsSource     string      `json:"dirsSource"`
	Browsers       []string    `json:"browsers,omitempty"`
	BrowsersSource string      `json:"browsersSource,omitempty"`

	Diagnostics []engine.Diagnostic `json:"diagnostics"`
	Blocking    int                 `json:"blocking"`
	Advisory    int                 `json:"advisory"`
}

// Success reports whether the check passed. Advisory diagnostics alone do
// not fail a run.
func (r *Result) Success() bool {
	return r.Blocking == 0
}

// Orchestrator runs checks. Its own logic is thin: it fills gaps in the
// caller's configuration, hands each scan directory to the engine, and
// remaps every diagnostic it gets back.
type Orchestrator struct {
	opts Options
}

// NewOrchestrator creates an orchestrator for the given options.
func NewOrchestrator(opts Options) *Orchestrator {
	return &Orchestrator{opts: opts}
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.opts.Logger != nil {
		return o.opts.Logger
	}
	return logging.Discard()
}

func (o *Orchestrator) engine() engine.Engine {
	if o.opts.Engine != nil {
		return o.opts.Engine
	}
	return &engine.Exec{Logger: o.opts.Logger}
}

func (o *Orchestrator) resolver() *remap.Resolver {
	if o.opts.Resolver != nil {
		return o.opts.Resolver
	}
	return remap.New(o.opts.Logger)
}

// Run executes the check. Fatal conditions (bad directories, no target,
// engine failure) return an error; individual diagnostics that cannot be
// remapped keep their compiled position and are reported anyway.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	logger := o.logger()

	projectDir, err := ValidateDir(o.opts.Dir)
	if err != nil {
		return nil, err
	}

	detection := detect.Detect(projectDir, detect.Options{Env: o.opts.Env, Logger: logger})
	result := &Result{Detection: detection}

	if o.opts.Target != "" {
		tok, ok := esver.Normalize(o.opts.Target)
		if !ok {
			return nil, &esver.UnrecognizedError{Input: o.opts.Target}
		}
		result.Target = tok
		result.TargetSource = orSource(o.opts.TargetSource, SourceFlag)
	} else if detection.HasTarget() {
		result.Target = detection.Target
		result.TargetSource = detection.TargetSource
	} else {
		return nil, &NoTargetError{Dir: projectDir, Searched: detect.CandidateNames()}
	}

	var dirs []string
	switch {
	case len(o.opts.Dist) > 0:
		dirs = o.opts.Dist
		result.DirsSource = orSource(o.opts.DistSource, SourceFlag)
	case detection.HasOutputDir():
		dirs = []string{detection.OutputDir}
		result.DirsSource = detection.OutputDirSource
	default:
		dirs = []string{defaultDist}
		result.DirsSource = SourceDefault
	}
	for _, d := range dirs {
		full := d
		if !filepath.IsAbs(full) {
			full = filepath.Join(projectDir, d)
		}
		info, err := os.Stat(full)
		if err != nil {
			return nil, &BadDirError{Path: full, Reason: "does not exist"}
		}
		if !info.IsDir() {
			return nil, &BadDirError{Path: full, Reason: "not a directory"}
		}
		result.Dirs = append(result.Dirs, full)
	}

	if len(o.opts.Browsers) > 0 {
		result.Browsers = o.opts.Browsers
		result.BrowsersSource = orSource(o.opts.BrowsersSource, SourceFlag)
	} else if detection.HasBrowsers() {
		result.Browsers = detection.Browsers
		result.BrowsersSource = detection.BrowsersSource
	}

	logger.Debug("running check",
		"target", result.Target.String(),
		"targetSource", result.TargetSource,
		"dirs", result.Dirs,
		"browsers", len(result.Browsers))

	eng := o.engine()
	resolver := o.resolver()

	for _, dir := range result.Dirs {
		cfg := engine.Config{Path: dir, Target: result.Target, Browsers: result.Browsers}

		var diags []engine.Diagnostic
		runErr := engine.WithBrowserslistEnv(result.Browsers, func() error {
			var err error
			diags, err = eng.Check(ctx, cfg)
			return err
		})
		if runErr != nil {
			return nil, fmt.Errorf("analysis of %s failed: %w", dir, runErr)
		}

		for i := range diags {
			remapDiagnostic(resolver, dir, &diags[i])
		}
		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	for _, d := range result.Diagnostics {
		if d.Blocking() {
			result.Blocking++
		} else {
			result.Advisory++
		}
	}

	logger.Debug("check complete",
		"diagnostics", len(result.Diagnostics),
		"blocking", result.Blocking,
		"advisory", result.Advisory)

	return result, nil
}

// remapDiagnostic attaches the authored position when the compiled one can
// be traced back through mapping artifacts. Relative diagnostic paths are
// taken as relative to the scanned directory.
func remapDiagnostic(resolver *remap.Resolver, dir string, d *engine.Diagnostic) {
	if d.File == "" || d.Line <= 0 {
		return
	}
	path := d.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	if pos, ok := resolver.Lookup(path, d.Line, d.Col); ok {
		d.Resolved = &pos
	}
}

// ValidateDir cleans a project path and confirms it names a directory,
// returning it in absolute form.
func ValidateDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	if err != nil {
		reason := "cannot be accessed"
		if os.IsNotExist(err) {
			reason = "does not exist"
		}
		return "", &BadDirError{Path: dir, Reason: reason}
	}
	if !info.IsDir() {
		return "", &BadDirError{Path: dir, Reason: "not a directory"}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir, nil
	}
	return abs, nil
}

func orSource(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
