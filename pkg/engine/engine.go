package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"distlint/pkg/esver"
	"distlint/pkg/logging"
	"distlint/pkg/remap"
)

// DefaultCommand is the engine binary looked up on PATH when no explicit
// command is configured.
const DefaultCommand = "distlint-engine"

const browserslistEnvVar = "BROWSERSLIST"

// Severity classifies a diagnostic as blocking or advisory.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one issue reported by the analysis engine. Line is 1-based,
// Col is 0-based, both referring to the compiled file. Resolved is filled in
// after the fact when remapping to the authored position succeeds.
type Diagnostic struct {
	File     string          `json:"file"`
	Line     int             `json:"line"`
	Col      int             `json:"col"`
	Message  string          `json:"message"`
	Rule     string          `json:"rule,omitempty"`
	Severity Severity        `json:"severity"`
	Resolved *remap.Position `json:"resolved,omitempty"`
}

// Blocking reports whether the diagnostic fails the check. Anything the
// engine does not explicitly mark advisory counts as blocking.
func (d Diagnostic) Blocking() bool {
	return d.Severity != SeverityWarning
}

// Config is the payload for one engine invocation.
type Config struct {
	Path     string      `json:"path"`
	Target   esver.Token `json:"target"`
	Browsers []string    `json:"browsers,omitempty"`
}

// Engine runs the compatibility analysis over one directory of build output.
type Engine interface {
	Check(ctx context.Context, cfg Config) ([]Diagnostic, error)
}

// Exec invokes an external engine binary: the config travels as JSON on
// stdin, diagnostics come back as a JSON array on stdout.
type Exec struct {
	Command string
	Args    []string
	Logger  *slog.Logger
}

// NewExec returns an Exec adapter for the given command, falling back to
// DefaultCommand when empty.
func NewExec(command string, args ...string) *Exec {
	return &Exec{Command: command, Args: args}
}

func (e *Exec) command() string {
	if e.Command == "" {
		return DefaultCommand
	}
	return e.Command
}

func (e *Exec) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return logging.Discard()
}

// IsInstalled checks if the engine command is available in PATH.
func (e *Exec) IsInstalled() bool {
	_, err := exec.LookPath(e.command())
	return err == nil
}

// InstallInstructions returns guidance for installing the engine command.
func (e *Exec) InstallInstructions() string {
	return fmt.Sprintf("Install the analysis engine:\n  npm install -g %s", e.command())
}

// EnsureEngine checks if the engine is installed and provides instructions if not.
func (e *Exec) EnsureEngine() error {
	if e.IsInstalled() {
		return nil
	}
	return fmt.Errorf("%s not found\n\n%s", e.command(), e.InstallInstructions())
}

// Check runs the engine over cfg.Path and decodes its diagnostics.
func (e *Exec) Check(ctx context.Context, cfg Config) ([]Diagnostic, error) {
	if err := e.EnsureEngine(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode engine config: %w", err)
	}

	e.logger().Debug("invoking analysis engine",
		"command", e.command(),
		"path", cfg.Path,
		"target", cfg.Target.String(),
		"browsers", len(cfg.Browsers))

	cmd := exec.CommandContext(ctx, e.command(), e.Args...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w\nOutput: %s\nError: %s", e.command(), err, stdout.String(), stderr.String())
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return nil, nil
	}

	var diags []Diagnostic
	if err := json.Unmarshal(out, &diags); err != nil {
		return nil, fmt.Errorf("failed to decode engine output: %w", err)
	}
	return diags, nil
}

// WithBrowserslistEnv exposes the effective runtime list to the engine
// process through the BROWSERSLIST variable for the duration of one
// invocation. The previous value is restored afterwards, even when fn
// returns an error. An empty list leaves the environment untouched so the
// engine's own defaults apply.
func WithBrowserslistEnv(browsers []string, fn func() error) error {
	if len(browsers) == 0 {
		return fn()
	}

	prev, had := os.LookupEnv(browserslistEnvVar)
	if err := os.Setenv(browserslistEnvVar, strings.Join(browsers, ", ")); err != nil {
		return err
	}
	defer func() {
		if had {
			os.Setenv(browserslistEnvVar, prev)
		} else {
			os.Unsetenv(browserslistEnvVar)
		}
	}()

	return fn()
}
