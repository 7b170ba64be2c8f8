// Package mcp exposes detection and checking as tools over the Model
// Context Protocol, so coding agents can ask the same questions the CLI
// answers.
package mcp

import (
	"context"
	"fmt"

	"distlint/pkg/check"
	"distlint/pkg/config"
	"distlint/pkg/detect"
	"distlint/pkg/engine"
	"distlint/pkg/logging"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server around the detector and orchestrator.
// Handlers are stateless; every call is one complete detection or check.
type Server struct {
	MCPServer *sdkmcp.Server

	// Engine overrides the external engine binary. Tests inject fakes here;
	// when nil, each check uses its project file's engine setting or the
	// default command.
	Engine engine.Engine

	// Env is the browserslist environment used when a call does not name
	// one, typically resolved from BROWSERSLIST_ENV or NODE_ENV.
	Env string
}

// NewServer creates an MCP server exposing the distlint tools.
func NewServer(version string) *Server {
	s := &Server{}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "distlint", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "distlint_detect",
		Description: "Detect a project's target language level, build output directory, and runtime list from its configuration files. Each value is returned with the file that supplied it.",
	}, s.handleDetect)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "distlint_check",
		Description: "Check a directory of built JS output against a target language level and runtime list. Diagnostics carry authored positions when source maps allow it.",
	}, s.handleCheck)
}

// Run serves MCP over stdio until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// --- Tool input/output types ---

type detectInput struct {
	Path string `json:"path" jsonschema:"project directory to scan"`
	Env  string `json:"env,omitempty" jsonschema:"browserslist environment for sectioned runtime-list files"`
}

type detectOutput struct {
	Target          string   `json:"target,omitempty"`
	TargetSource    string   `json:"target_source,omitempty"`
	OutputDir       string   `json:"output_dir,omitempty"`
	OutputDirSource string   `json:"output_dir_source,omitempty"`
	Browsers        []string `json:"browsers,omitempty"`
	BrowsersSource  string   `json:"browsers_source,omitempty"`
}

func detectOutputFrom(res detect.Result) detectOutput {
	return detectOutput{
		Target:          res.Target.String(),
		TargetSource:    res.TargetSource,
		OutputDir:       res.OutputDir,
		OutputDirSource: res.OutputDirSource,
		Browsers:        res.Browsers,
		BrowsersSource:  res.BrowsersSource,
	}
}

type checkInput struct {
	Path     string   `json:"path" jsonschema:"project directory"`
	Target   string   `json:"target,omitempty" jsonschema:"explicit language level such as es2015, es6, or latest; detected when omitted"`
	Browsers []string `json:"browsers,omitempty" jsonschema:"explicit runtime list; detected when omitted"`
	Dist     []string `json:"dist,omitempty" jsonschema:"build output directories relative to path; detected when omitted"`
	Env      string   `json:"env,omitempty" jsonschema:"browserslist environment for sectioned runtime-list files"`
}

type positionOutput struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Col    int    `json:"col"`
	OnDisk bool   `json:"on_disk"`
}

type diagnosticOutput struct {
	File     string          `json:"file"`
	Line     int             `json:"line"`
	Col      int             `json:"col"`
	Message  string          `json:"message"`
	Rule     string          `json:"rule,omitempty"`
	Severity string          `json:"severity"`
	Resolved *positionOutput `json:"resolved,omitempty"`
}

type checkOutput struct {
	Success        bool               `json:"success"`
	Target         string             `json:"target"`
	TargetSource   string             `json:"target_source"`
	Dirs           []string           `json:"dirs"`
	DirsSource     string             `json:"dirs_source"`
	Browsers       []string           `json:"browsers,omitempty"`
	BrowsersSource string             `json:"browsers_source,omitempty"`
	Blocking       int                `json:"blocking"`
	Advisory       int                `json:"advisory"`
	Diagnostics    []diagnosticOutput `json:"diagnostics"`
	Detection      detectOutput       `json:"detection"`
}

func checkOutputFrom(res *check.Result) checkOutput {
	out := checkOutput{
		Success:        res.Success(),
		Target:         res.Target.String(),
		TargetSource:   res.TargetSource,
		Dirs:           res.Dirs,
		DirsSource:     res.DirsSource,
		Browsers:       res.Browsers,
		BrowsersSource: res.BrowsersSource,
		Blocking:       res.Blocking,
		Advisory:       res.Advisory,
		Diagnostics:    make([]diagnosticOutput, 0, len(res.Diagnostics)),
		Detection:      detectOutputFrom(res.Detection),
	}
	for _, d := range res.Diagnostics {
		diag := diagnosticOutput{
			File:     d.File,
			Line:     d.Line,
			Col:      d.Col,
			Message:  d.Message,
			Rule:     d.Rule,
			Severity: string(d.Severity),
		}
		if d.Resolved != nil {
			diag.Resolved = &positionOutput{
				File:   d.Resolved.File,
				Line:   d.Resolved.Line,
				Col:    d.Resolved.Col,
				OnDisk: d.Resolved.OnDisk,
			}
		}
		out.Diagnostics = append(out.Diagnostics, diag)
	}
	return out
}

// --- Tool handlers ---

func (s *Server) handleDetect(ctx context.Context, _ *sdkmcp.CallToolRequest, input detectInput) (*sdkmcp.CallToolResult, detectOutput, error) {
	if input.Path == "" {
		return nil, detectOutput{}, fmt.Errorf("path is required")
	}
	dir, err := check.ValidateDir(input.Path)
	if err != nil {
		return nil, detectOutput{}, err
	}

	res := detect.Detect(dir, detect.Options{
		Env:    s.env(input.Env),
		Logger: logging.New("mcp"),
	})
	return nil, detectOutputFrom(res), nil
}

func (s *Server) handleCheck(ctx context.Context, _ *sdkmcp.CallToolRequest, input checkInput) (*sdkmcp.CallToolResult, checkOutput, error) {
	if input.Path == "" {
		return nil, checkOutput{}, fmt.Errorf("path is required")
	}
	dir, err := check.ValidateDir(input.Path)
	if err != nil {
		return nil, checkOutput{}, err
	}

	logger := logging.New("mcp")
	opts := check.Options{
		Dir:      dir,
		Target:   input.Target,
		Dist:     input.Dist,
		Browsers: input.Browsers,
		Env:      s.env(input.Env),
		Engine:   s.Engine,
		Logger:   logger,
	}

	cfg := config.Load(dir, logger)
	cfg.Apply(&opts)
	if opts.Engine == nil && cfg.Engine.Command != "" {
		opts.Engine = engine.NewExec(cfg.Engine.Command, cfg.Engine.Args...)
	}

	res, err := check.NewOrchestrator(opts).Run(ctx)
	if err != nil {
		return nil, checkOutput{}, err
	}
	return nil, checkOutputFrom(res), nil
}

func (s *Server) env(override string) string {
	if override != "" {
		return override
	}
	return s.Env
}
