package extract

import (
	"encoding/json"

	"github.com/tailscale/hujson"

	"distlint/pkg/esver"
)

// compilerConfig is the subset of tsconfig.json/jsconfig.json the detector
// reads.
type compilerConfig struct {
	CompilerOptions struct {
		Target string `json:"target"`
		OutDir string `json:"outDir"`
	} `json:"compilerOptions"`
}

// CompilerOptions extracts the compilation target and outDir from a
// compiler-options file. Both formats allow comments and trailing commas,
// so the content is standardized to plain JSON before decoding.
func CompilerOptions(in Input) Extraction {
	std, err := hujson.Standardize(in.Content)
	if err != nil {
		in.logger().Debug("skipping malformed compiler options", "error", err)
		return Extraction{}
	}

	var cfg compilerConfig
	if err := json.Unmarshal(std, &cfg); err != nil {
		in.logger().Debug("skipping malformed compiler options", "error", err)
		return Extraction{}
	}

	var ext Extraction
	if tok, ok := esver.Normalize(cfg.CompilerOptions.Target); ok {
		ext.Target = tok
	}
	ext.OutputDir = cleanDir(cfg.CompilerOptions.OutDir)
	return ext
}
