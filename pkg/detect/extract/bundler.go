package extract

import (
	"regexp"

	"distlint/pkg/esver"
)

// Bundler configs are programs, not data. The single string leaves we need
// are located by textual pattern search; full evaluation is attempted only
// for the webpack output path shape the scan cannot express, and only
// inside the restricted interpreter in eval.go.
var (
	bundlerTargetString = regexp.MustCompile(`\btarget\s*:\s*['"]([^'"]+)['"]`)
	bundlerTargetArray  = regexp.MustCompile(`\btarget\s*:\s*\[([^\]]*)\]`)
	webpackOutputKey    = regexp.MustCompile(`\boutput\s*:`)
	webpackPathCall     = regexp.MustCompile(`path\.(?:resolve|join)\(\s*__dirname\s*,\s*['"]([^'"]+)['"]`)
	webpackPathLiteral  = regexp.MustCompile(`\bpath\s*:\s*['"]([^'"]+)['"]`)
	viteOutDir          = regexp.MustCompile(`\boutDir\s*:\s*['"]([^'"]+)['"]`)
)

// Webpack extracts the compiled target and output path from
// webpack.config.js.
func Webpack(in Input) Extraction {
	content := string(in.Content)

	ext := Extraction{Target: scanTarget(content)}

	// entry and resolve.alias build paths with the same call shape, so
	// both path scans start at the output key.
	if loc := webpackOutputKey.FindStringIndex(content); loc != nil {
		tail := content[loc[0]:]
		if m := webpackPathCall.FindStringSubmatch(tail); m != nil {
			ext.OutputDir = cleanDir(m[1])
		} else if m := webpackPathLiteral.FindStringSubmatch(tail); m != nil {
			ext.OutputDir = cleanDir(m[1])
		}
	}

	if ext.OutputDir == "" {
		dir, err := evalOutputPath("webpack.config.js", in.Content, in.Dir)
		if err != nil {
			in.logger().Debug("could not evaluate bundler config", "error", err)
		} else {
			ext.OutputDir = cleanDir(dir)
		}
	}

	return ext
}

// Vite extracts build.target and build.outDir from vite.config.js or
// vite.config.ts. Vite defaults ("modules") and runtime entries
// ("chrome58") fall out as unrecognized targets.
func Vite(in Input) Extraction {
	content := string(in.Content)

	return Extraction{
		Target:    scanTarget(content),
		OutputDir: scanOutDir(content),
	}
}

// scanTarget finds target options in string or array form and normalizes
// the first entry that names a language level. Runtime names like "web"
// or "node" and proxy URLs normalize to nothing, so a build.target is
// found even when a server.proxy target precedes it.
func scanTarget(content string) esver.Token {
	for _, m := range bundlerTargetString.FindAllStringSubmatch(content, -1) {
		if tok, ok := esver.Normalize(m[1]); ok {
			return tok
		}
	}
	for _, m := range bundlerTargetArray.FindAllStringSubmatch(content, -1) {
		for _, entry := range stringLiterals(m[1]) {
			if tok, ok := esver.Normalize(entry); ok {
				return tok
			}
		}
	}
	return esver.Token{}
}

func scanOutDir(content string) string {
	if m := viteOutDir.FindStringSubmatch(content); m != nil {
		return cleanDir(m[1])
	}
	return ""
}
