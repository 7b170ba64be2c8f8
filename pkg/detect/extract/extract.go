// Package extract holds one extractor per recognized configuration file
// format. Extractors are pure functions from file contents to a partial
// record, so each is testable in isolation and a malformed file can only
// ever cost its own contribution.
package extract

import (
	"log/slog"
	"path"
	"strings"

	"distlint/pkg/esver"
)

// Input carries one candidate file's contents plus the little context some
// formats need: the directory holding the file (for module-relative path
// resolution) and the active browserslist environment name.
type Input struct {
	Content []byte
	Dir     string
	Env     string
	Logger  *slog.Logger
}

func (in Input) logger() *slog.Logger {
	if in.Logger != nil {
		return in.Logger
	}
	return slog.Default()
}

// Extraction is the partial record one extractor produced for one file.
// An absent field means "not found here", never an error.
type Extraction struct {
	Target esver.Token

	OutputDir string
	// OutputDirSource overrides the filename provenance when the value
	// came from a rule rather than an explicit setting ("default for next").
	OutputDirSource string

	Browsers       []string
	BrowsersSource string

	// Tool is a build-tool identity detected from manifest dependencies.
	// It supplies an output-directory default at the end of a scan; it is
	// not itself a merged field.
	Tool string
}

// Func extracts whatever subset of the three facts a format can carry.
type Func func(in Input) Extraction

// Candidate binds a recognized filename to its extractor.
type Candidate struct {
	Name    string
	Extract Func
}

// Candidates is the fixed scan order: manifest first, then compiler
// options, transpiler and bundler configs, plain runtime-list files, and
// meta-framework configs. Order defines detection priority and never
// changes at runtime.
var Candidates = []Candidate{
	{"package.json", Manifest},
	{"tsconfig.json", CompilerOptions},
	{"jsconfig.json", CompilerOptions},
	{"babel.config.json", BabelJSON},
	{".babelrc", BabelJSON},
	{"babel.config.js", BabelScript},
	{"webpack.config.js", Webpack},
	{"vite.config.js", Vite},
	{"vite.config.ts", Vite},
	{".browserslistrc", Browserslist},
	{"browserslist", Browserslist},
	{"next.config.js", NextConfig},
	{"next.config.mjs", NextConfig},
}

// knownTools maps build-tool dependency names to their conventional output
// directories. Earlier entries win when a manifest names several.
var knownTools = []struct {
	Name      string
	OutputDir string
}{
	{"react-scripts", "build"},
	{"next", ".next"},
	{"nuxt", ".nuxt"},
	{"gatsby", "public"},
	{"@angular/cli", "dist"},
	{"@vue/cli-service", "dist"},
	{"vite", "dist"},
	{"parcel", "dist"},
}

// DefaultOutputDir returns the conventional output directory for a build
// tool detected from manifest dependencies.
func DefaultOutputDir(tool string) (string, bool) {
	for _, t := range knownTools {
		if t.Name == tool {
			return t.OutputDir, true
		}
	}
	return "", false
}

// cleanDir normalizes a config-supplied directory path: no leading "./",
// no trailing slash. Empty, "." and "/" yield "".
func cleanDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return ""
	}
	dir = path.Clean(dir)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}
