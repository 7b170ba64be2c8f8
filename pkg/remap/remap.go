// Package remap recovers authored source positions from compiled ones by
// following the chain of source map artifacts a build toolchain leaves
// behind: final bundle back through intermediate build steps to the file
// the user actually wrote.
package remap

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sourcemap/sourcemap"
)

// DefaultMaxHops bounds chain walks. Real toolchains rarely stack more
// than two or three build steps; the ceiling exists so a self-referencing
// map chain cannot loop.
const DefaultMaxHops = 8

// Position is an authored location recovered through one or more map
// artifacts. OnDisk reports whether File names a readable file rather
// than a display-only label such as a bundler pseudo-URL.
type Position struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Col    int    `json:"col"`
	OnDisk bool   `json:"onDisk"`
}

// Resolver locates and walks map chains. The zero value is usable; New
// fills in the defaults.
type Resolver struct {
	MaxHops int
	Logger  *slog.Logger
}

func New(logger *slog.Logger) *Resolver {
	return &Resolver{MaxHops: DefaultMaxHops, Logger: logger}
}

func (r *Resolver) maxHops() int {
	if r.MaxHops > 0 {
		return r.MaxHops
	}
	return DefaultMaxHops
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Link is the entry hop of a map chain for one compiled file. It holds
// the raw first artifact; parsing happens per walk so that at most one
// parsed artifact is alive at a time and nothing is cached across
// diagnostics.
type Link struct {
	resolver *Resolver
	compiled string
	mapURL   string
	data     []byte
}

// Resolve locates the first map artifact for a compiled file: a sidecar
// next to it, or an embedded sourceMappingURL reference (external or
// inline). It reports false when no artifact exists; callers then keep
// the compiled position and never fabricate an authored one. The path is
// absolutized first so that sources anchored to the map's directory come
// back as absolute paths.
func (r *Resolver) Resolve(compiledPath string) (*Link, bool) {
	if abs, err := filepath.Abs(compiledPath); err == nil {
		compiledPath = abs
	}
	data, mapURL, ok := r.findMap(compiledPath)
	if !ok {
		return nil, false
	}
	return &Link{resolver: r, compiled: compiledPath, mapURL: mapURL, data: data}, true
}

// Lookup resolves one compiled position end to end. It is the common path
// for callers that do not reuse the link.
func (r *Resolver) Lookup(compiledPath string, line, col int) (Position, bool) {
	link, ok := r.Resolve(compiledPath)
	if !ok {
		return Position{}, false
	}
	return link.Remap(line, col)
}

// Remap walks the chain for one compiled position (line 1-based, column
// 0-based). Each hop's artifact is parsed, queried once, and dropped
// before the walk moves on. When the authored path of a hop is itself an
// on-disk file in compiled form, it is treated as a new compiled file and
// discovery repeats. The walk stops on a pseudo-URL or off-disk authored
// path, an authored file no longer in compiled form, or the hop ceiling.
func (l *Link) Remap(line, col int) (Position, bool) {
	var first, deepest Position
	found := false

	compiled := l.compiled
	mapURL := l.mapURL
	data := l.data
	curLine, curCol := line, col

	for hop := 0; hop < l.resolver.maxHops(); hop++ {
		cons, err := sourcemap.Parse(mapURL, data)
		if err != nil {
			l.resolver.logger().Debug("unparseable map artifact", "map", mapURL, "error", err)
			break
		}

		src, _, srcLine, srcCol, ok := cons.Source(curLine, curCol)
		if !ok || src == "" {
			break
		}

		pos := l.resolver.authoredPosition(src, srcLine, srcCol, compiled)
		if !found {
			first = pos
			found = true
		}
		deepest = pos

		if !pos.OnDisk || !compiledFormat(pos.File) {
			break
		}

		nextData, nextURL, ok := l.resolver.findMap(pos.File)
		if !ok {
			break
		}
		compiled = pos.File
		mapURL = nextURL
		data = nextData
		curLine, curCol = pos.Line, pos.Col
	}

	if !found {
		return Position{}, false
	}
	if deepest.File == "" || deepest.Line <= 0 {
		deepest = first
	}
	return deepest, true
}

// authoredPosition turns a mapped source reference into a Position,
// re-deriving bundler pseudo-URLs to real paths when possible.
func (r *Resolver) authoredPosition(src string, line, col int, compiled string) Position {
	if isPseudoURL(src) {
		if real, ok := r.deriveFromPseudoURL(src, compiled); ok {
			return Position{File: real, Line: line, Col: col, OnDisk: true}
		}
		return Position{File: src, Line: line, Col: col, OnDisk: false}
	}

	file := strings.TrimPrefix(src, "file://")
	if !filepath.IsAbs(file) {
		file = filepath.Join(filepath.Dir(compiled), file)
	}
	return Position{File: file, Line: line, Col: col, OnDisk: fileExists(file)}
}

// deriveFromPseudoURL tests the path part of a pseudo-URL against a small
// fixed set of conventional source roots: the compiled file's directory,
// its parent, and its grandparent. Bundlers commonly prefix the authored
// path with a namespace segment, so the trial also repeats with the first
// segment stripped.
func (r *Resolver) deriveFromPseudoURL(src, compiled string) (string, bool) {
	rest := src[strings.Index(src, "://")+len("://"):]
	rest = strings.TrimLeft(rest, "/")

	candidates := []string{rest}
	if idx := strings.Index(rest, "/"); idx > 0 {
		candidates = append(candidates, rest[idx+1:])
	}

	root := filepath.Dir(compiled)
	roots := []string{root, filepath.Dir(root), filepath.Dir(filepath.Dir(root))}

	for _, cand := range candidates {
		cand = strings.TrimPrefix(cand, "./")
		if cand == "" {
			continue
		}
		for _, base := range roots {
			full := filepath.Join(base, filepath.FromSlash(cand))
			if fileExists(full) {
				return full, true
			}
		}
	}
	return "", false
}

// isPseudoURL reports whether a mapped source is a bundler's in-memory
// module label (webpack:// and friends) rather than a filesystem path.
func isPseudoURL(src string) bool {
	idx := strings.Index(src, "://")
	if idx <= 0 {
		return false
	}
	scheme := src[:idx]
	if scheme == "file" {
		return false
	}
	for _, c := range scheme {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '+' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

// compiledFormat reports whether a file looks like build output that may
// itself carry a map, as opposed to an authored source format.
func compiledFormat(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".js", ".mjs", ".cjs", ".jsx":
		return true
	default:
		return false
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
