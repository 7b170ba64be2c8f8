package extract

import (
	"encoding/json"
	"strings"
)

// packageManifest is the subset of package.json the detector cares about.
type packageManifest struct {
	Main         string          `json:"main"`
	Module       string          `json:"module"`
	Browser      json.RawMessage `json:"browser"`
	Browserslist json.RawMessage `json:"browserslist"`
	DistDir      string          `json:"distDir"`
	Directories  struct {
		Dist string `json:"dist"`
	} `json:"directories"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Entry-point prefixes that conventionally identify a build directory.
var buildDirSegments = map[string]bool{
	"dist":   true,
	"build":  true,
	"out":    true,
	"lib":    true,
	"public": true,
}

// Manifest extracts the runtime list, an output-directory hint, and a
// build-tool identity from package.json. The manifest never supplies a
// target version: browserslist entries are runtime ranges, not language
// levels, even when one of them happens to look like an es-style token.
func Manifest(in Input) Extraction {
	var pkg packageManifest
	if err := json.Unmarshal(in.Content, &pkg); err != nil {
		in.logger().Debug("skipping malformed manifest", "error", err)
		return Extraction{}
	}

	ext := Extraction{
		Browsers: browserslistField(pkg.Browserslist),
		Tool:     detectTool(pkg.Dependencies, pkg.DevDependencies),
	}

	switch {
	case cleanDir(pkg.DistDir) != "":
		ext.OutputDir = cleanDir(pkg.DistDir)
	case cleanDir(pkg.Directories.Dist) != "":
		ext.OutputDir = cleanDir(pkg.Directories.Dist)
	default:
		ext.OutputDir = entryPointDir(pkg)
	}

	return ext
}

// browserslistField accepts the string and array forms and copies them
// verbatim. The env-keyed object form contributes nothing here; projects
// using it keep a .browserslistrc alongside often enough that the later
// candidates cover them.
func browserslistField(raw json.RawMessage) []string {
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
	return nil
}

// entryPointDir maps a conventional entry-point path ("dist/index.js") to
// its leading build-directory segment.
func entryPointDir(pkg packageManifest) string {
	entries := []string{pkg.Main, pkg.Module}

	var browserEntry string
	if err := json.Unmarshal(pkg.Browser, &browserEntry); err == nil {
		entries = append(entries, browserEntry)
	}

	for _, entry := range entries {
		entry = cleanDir(entry)
		idx := strings.Index(entry, "/")
		if idx <= 0 {
			continue
		}
		if first := entry[:idx]; buildDirSegments[first] {
			return first
		}
	}
	return ""
}

func detectTool(depSets ...map[string]string) string {
	for _, tool := range knownTools {
		for _, deps := range depSets {
			if _, ok := deps[tool.Name]; ok {
				return tool.Name
			}
		}
	}
	return ""
}
