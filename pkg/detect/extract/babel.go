package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tailscale/hujson"
)

// Preset names whose options block carries runtime targets.
var envPresets = map[string]bool{
	"@babel/preset-env": true,
	"babel-preset-env":  true,
}

// BabelJSON extracts the runtime-target list from babel.config.json or
// .babelrc by structural search: only an env preset's options block is
// consulted, never evaluated.
func BabelJSON(in Input) Extraction {
	std, err := hujson.Standardize(in.Content)
	if err != nil {
		in.logger().Debug("skipping malformed transpiler config", "error", err)
		return Extraction{}
	}

	var cfg struct {
		Presets []json.RawMessage `json:"presets"`
	}
	if err := json.Unmarshal(std, &cfg); err != nil {
		in.logger().Debug("skipping malformed transpiler config", "error", err)
		return Extraction{}
	}

	for _, preset := range cfg.Presets {
		var tuple []json.RawMessage
		if err := json.Unmarshal(preset, &tuple); err != nil || len(tuple) < 2 {
			continue
		}

		var name string
		if err := json.Unmarshal(tuple[0], &name); err != nil || !envPresets[name] {
			continue
		}

		var opts struct {
			Targets json.RawMessage `json:"targets"`
		}
		if err := json.Unmarshal(tuple[1], &opts); err != nil {
			continue
		}
		if targets := targetEntries(opts.Targets); len(targets) > 0 {
			return Extraction{Browsers: targets}
		}
	}

	return Extraction{}
}

// targetEntries renders a preset targets value as runtime-list entries:
// a string stays one entry, an array is copied, and the object form turns
// each name/range pair into "name range" with names sorted for stable
// output. The esmodules flag carries no range and is skipped.
func targetEntries(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			return nil
		}
		return []string{single}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var byName map[string]any
	if err := json.Unmarshal(raw, &byName); err != nil {
		return nil
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	var entries []string
	for _, name := range names {
		switch v := byName[name].(type) {
		case string:
			entries = append(entries, name+" "+v)
		case float64:
			entries = append(entries, fmt.Sprintf("%s %g", name, v))
		}
	}
	return entries
}

var (
	babelTargetsString = regexp.MustCompile(`\btargets\s*:\s*['"]([^'"]+)['"]`)
	babelTargetsArray  = regexp.MustCompile(`\btargets\s*:\s*\[([^\]]*)\]`)
	quotedLiteral      = regexp.MustCompile(`['"]([^'"]*)['"]`)
)

// BabelScript extracts the runtime-target list from babel.config.js by
// textual pattern search. Only string and array literal shapes are
// recognized; the config is never executed.
func BabelScript(in Input) Extraction {
	content := string(in.Content)

	if m := babelTargetsString.FindStringSubmatch(content); m != nil {
		return Extraction{Browsers: []string{m[1]}}
	}
	if m := babelTargetsArray.FindStringSubmatch(content); m != nil {
		if entries := stringLiterals(m[1]); len(entries) > 0 {
			return Extraction{Browsers: entries}
		}
	}
	return Extraction{}
}

// stringLiterals collects every quoted literal in a scanned array body.
func stringLiterals(body string) []string {
	var out []string
	for _, m := range quotedLiteral.FindAllStringSubmatch(body, -1) {
		if m[1] != "" {
			out = append(out, m[1])
		}
	}
	return out
}
