// Package detect infers a project's language target, build output
// directory, and runtime list from the configuration files present in its
// root, without the caller having to specify any of them.
package detect

import (
	"log/slog"
	"os"
	"path/filepath"

	"distlint/pkg/detect/extract"
	"distlint/pkg/esver"
	"distlint/pkg/logging"
)

// Options configures one detection pass.
type Options struct {
	// Env names the browserslist environment used when runtime-list files
	// carry [env] sections. Callers resolve it, typically from
	// BROWSERSLIST_ENV falling back to NODE_ENV.
	Env    string
	Logger *slog.Logger
}

// Result is the accumulated outcome of scanning one directory. Each
// present field carries the provenance that supplied it; a field set once
// is never overwritten, so priority is fixed by candidate order alone.
type Result struct {
	Target          esver.Token `json:"target"`
	TargetSource    string      `json:"targetSource,omitempty"`
	OutputDir       string      `json:"outputDir,omitempty"`
	OutputDirSource string      `json:"outputDirSource,omitempty"`
	Browsers        []string    `json:"browsers,omitempty"`
	BrowsersSource  string      `json:"browsersSource,omitempty"`
}

func (r Result) HasTarget() bool    { return !r.Target.IsZero() }
func (r Result) HasOutputDir() bool { return r.OutputDir != "" }
func (r Result) HasBrowsers() bool  { return len(r.Browsers) > 0 }

// Complete reports whether all three facts are known.
func (r Result) Complete() bool {
	return r.HasTarget() && r.HasOutputDir() && r.HasBrowsers()
}

// CandidateNames lists the configuration files a detection pass scans, in
// scan order.
func CandidateNames() []string {
	names := make([]string, len(extract.Candidates))
	for i, c := range extract.Candidates {
		names[i] = c.Name
	}
	return names
}

// Detect scans dir's recognized configuration files in priority order and
// merges whatever each supplies. Candidates are searched directly under
// dir, never recursively, and the scan stops as soon as all three facts
// are known. A field still absent in the returned Result is a valid
// outcome; callers pick their own fallback. A single file's failure can
// only cost its own contribution, never the scan.
func Detect(dir string, opts Options) Result {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	var res Result
	var tool string

	for _, cand := range extract.Candidates {
		if res.Complete() {
			break
		}

		candPath := filepath.Join(dir, cand.Name)
		if info, err := os.Stat(candPath); err != nil || info.IsDir() {
			continue
		}
		if cand.Extract == nil {
			logger.Debug("no extractor for candidate", "file", cand.Name)
			continue
		}

		content, err := os.ReadFile(candPath)
		if err != nil {
			logger.Debug("skipping unreadable candidate", "file", cand.Name, "error", err)
			continue
		}

		ext := cand.Extract(extract.Input{
			Content: content,
			Dir:     dir,
			Env:     opts.Env,
			Logger:  logger,
		})
		res.merge(ext, cand.Name, logger)

		if tool == "" && ext.Tool != "" {
			tool = ext.Tool
		}
	}

	// A build tool named in the manifest supplies the output directory
	// only when the whole scan ended without an explicit one.
	if !res.HasOutputDir() && tool != "" {
		if def, ok := extract.DefaultOutputDir(tool); ok {
			res.OutputDir = def
			res.OutputDirSource = "default for " + tool
			logger.Debug("applied tool default output dir", "tool", tool, "dir", def)
		}
	}

	return res
}

func (r *Result) merge(ext extract.Extraction, filename string, logger *slog.Logger) {
	if !r.HasTarget() && !ext.Target.IsZero() {
		r.Target = ext.Target
		r.TargetSource = filename
		logger.Debug("detected target", "target", ext.Target.String(), "source", filename)
	}
	if !r.HasOutputDir() && ext.OutputDir != "" {
		r.OutputDir = ext.OutputDir
		r.OutputDirSource = provenance(ext.OutputDirSource, filename)
		logger.Debug("detected output dir", "dir", ext.OutputDir, "source", r.OutputDirSource)
	}
	if !r.HasBrowsers() && len(ext.Browsers) > 0 {
		r.Browsers = ext.Browsers
		r.BrowsersSource = provenance(ext.BrowsersSource, filename)
		logger.Debug("detected runtime list", "entries", len(ext.Browsers), "source", r.BrowsersSource)
	}
}

// provenance prefers a more specific string the extractor supplied over
// the plain candidate filename.
func provenance(override, filename string) string {
	if override != "" {
		return override
	}
	return filename
}
