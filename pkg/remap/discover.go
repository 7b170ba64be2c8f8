package remap

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Embedded references use //# in modern output and //@ in older tooling.
var mapRefPattern = regexp.MustCompile(`//[#@]\s*sourceMappingURL=([^\s'"]+)`)

const inlinePrefix = "data:"

// findMap locates the map artifact for one compiled file. A sidecar at
// path+".map" wins; otherwise the last embedded sourceMappingURL comment
// is resolved, either inline (data: URI) or as a path relative to the
// compiled file's directory. The returned URL anchors relative sources in
// the artifact.
func (r *Resolver) findMap(compiledPath string) ([]byte, string, bool) {
	sidecar := compiledPath + ".map"
	if data, err := os.ReadFile(sidecar); err == nil {
		return data, filepath.ToSlash(sidecar), true
	}

	content, err := os.ReadFile(compiledPath)
	if err != nil {
		r.logger().Debug("cannot read compiled file", "file", compiledPath, "error", err)
		return nil, "", false
	}

	matches := mapRefPattern.FindAllSubmatch(content, -1)
	if len(matches) == 0 {
		return nil, "", false
	}
	ref := string(matches[len(matches)-1][1])

	if strings.HasPrefix(ref, inlinePrefix) {
		data, ok := decodeInline(ref)
		if !ok {
			r.logger().Debug("undecodable inline map", "file", compiledPath)
			return nil, "", false
		}
		return data, filepath.ToSlash(compiledPath), true
	}

	mapPath := ref
	if !filepath.IsAbs(mapPath) {
		mapPath = filepath.Join(filepath.Dir(compiledPath), ref)
	}
	data, err := os.ReadFile(mapPath)
	if err != nil {
		r.logger().Debug("referenced map not readable", "map", mapPath, "error", err)
		return nil, "", false
	}
	return data, filepath.ToSlash(mapPath), true
}

// decodeInline extracts the JSON payload of a data: URI reference. Only
// the base64 encoding emitted by bundlers is supported.
func decodeInline(ref string) ([]byte, bool) {
	comma := strings.Index(ref, ",")
	if comma < 0 {
		return nil, false
	}
	meta, payload := ref[len(inlinePrefix):comma], ref[comma+1:]

	if !strings.Contains(meta, ";base64") {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	return data, true
}
