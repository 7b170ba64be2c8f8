package extract

import "regexp"

var (
	nextDistDir    = regexp.MustCompile(`\bdistDir\s*:\s*['"]([^'"]+)['"]`)
	nextExportMode = regexp.MustCompile(`\boutput\s*:\s*['"]export['"]`)
)

// NextConfig extracts the build output directory from next.config.js or
// next.config.mjs: an explicit distDir override wins, a static export
// writes to out, and anything else uses the framework default.
func NextConfig(in Input) Extraction {
	content := string(in.Content)

	if m := nextDistDir.FindStringSubmatch(content); m != nil {
		if dir := cleanDir(m[1]); dir != "" {
			return Extraction{OutputDir: dir}
		}
	}

	if nextExportMode.MatchString(content) {
		return Extraction{OutputDir: "out", OutputDirSource: "default for next"}
	}
	return Extraction{OutputDir: ".next", OutputDirSource: "default for next"}
}
