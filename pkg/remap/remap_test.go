package remap_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"distlint/pkg/remap"
)

// Test helper to create temporary test project directories
func createTestProject(t *testing.T, files map[string]string) string {
	t.Helper()
	tmpDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tmpDir, path)
		dir := filepath.Dir(fullPath)

		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}

		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file %s: %v", fullPath, err)
		}
	}

	return tmpDir
}

// mapFor builds a minimal valid source map: generated line 1 maps to line
// 1 of the single source, generated line 2 to line 2.
func mapFor(source string) string {
	return `{"version":3,"sources":["` + source + `"],"names":[],"mappings":"AAAA;AACA"}`
}

func TestResolver_NoMapAvailable(t *testing.T) {
	projectPath := createTestProject(t, map[string]string{
		"dist/app.js": "console.log(1);\n",
	})

	r := remap.New(nil)
	if _, ok := r.Resolve(filepath.Join(projectPath, "dist/app.js")); ok {
		t.Error("Expected no link for a file without sidecar or embedded reference")
	}
	if _, ok := r.Lookup(filepath.Join(projectPath, "dist/app.js"), 1, 0); ok {
		t.Error("Expected unresolved lookup without a map")
	}
}

func TestResolver_SidecarMap(t *testing.T) {
	projectPath := createTestProject(t, map[string]string{
		"dist/app.js":     "var x=1;\nvar y=2;\n",
		"dist/app.js.map": mapFor("../src/index.ts"),
		"src/index.ts":    "const x = 1;\nconst y = 2;\n",
	})

	r := remap.New(nil)
	pos, ok := r.Lookup(filepath.Join(projectPath, "dist/app.js"), 2, 0)
	if !ok {
		t.Fatal("Expected position to resolve through sidecar map")
	}

	want := filepath.Join(projectPath, "src/index.ts")
	if pos.File != want {
		t.Errorf("Expected authored file %s, got %s", want, pos.File)
	}
	if pos.Line != 2 {
		t.Errorf("Expected authored line 2, got %d", pos.Line)
	}
	if !pos.OnDisk {
		t.Error("Expected authored file to be marked readable")
	}
}

func TestResolver_EmbeddedReference(t *testing.T) {
	projectPath := createTestProject(t, map[string]string{
		"dist/app.js":      "var x=1;\n//# sourceMappingURL=renamed.map\n",
		"dist/renamed.map": mapFor("../src/index.ts"),
		"src/index.ts":     "const x = 1;\n",
	})

	r := remap.New(nil)
	pos, ok := r.Lookup(filepath.Join(projectPath, "dist/app.js"), 1, 0)
	if !ok {
		t.Fatal("Expected position to resolve through embedded reference")
	}
	if want := filepath.Join(projectPath, "src/index.ts"); pos.File != want {
		t.Errorf("Expected authored file %s, got %s", want, pos.File)
	}
}

func TestResolver_LastReferenceWins(t *testing.T) {
	projectPath := createTestProject(t, map[string]string{
		"dist/app.js": "// not this one: sourceMappingURL=ignored.map is inside a comment body\n" +
			"var x=1;\n" +
			"//# sourceMappingURL=first.map\n" +
			"//# sourceMappingURL=second.map\n",
		"dist/first.map":  mapFor("../src/wrong.ts"),
		"dist/second.map": mapFor("../src/right.ts"),
		"src/wrong.ts":    "wrong\n",
		"src/right.ts":    "right\n",
	})

	r := remap.New(nil)
	pos, ok := r.Lookup(filepath.Join(projectPath, "dist/app.js"), 1, 0)
	if !ok {
		t.Fatal("Expected position to resolve")
	}
	if !strings.HasSuffix(pos.File, "right.ts") {
		t.Errorf("Expected the last reference to win, got %s", pos.File)
	}
}

func TestResolver_InlineBase64Map(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(mapFor("../src/inline.ts")))
	projectPath := createTestProject(t, map[string]string{
		"dist/app.js":   "var x=1;\n//# sourceMappingURL=data:application/json;base64," + encoded + "\n",
		"src/inline.ts": "const x = 1;\n",
	})

	r := remap.New(nil)
	pos, ok := r.Lookup(filepath.Join(projectPath, "dist/app.js"), 1, 0)
	if !ok {
		t.Fatal("Expected inline map to resolve")
	}
	if want := filepath.Join(projectPath, "src/inline.ts"); pos.File != want {
		t.Errorf("Expected authored file %s, got %s", want, pos.File)
	}
	if !pos.OnDisk {
		t.Error("Expected authored file to be readable")
	}
}

func TestLink_ChainThroughIntermediateBuild(t *testing.T) {
	projectPath := createTestProject(t, map[string]string{
		"dist/bundle.js":           "var b=1;\n",
		"dist/bundle.js.map":       mapFor("intermediate.js"),
		"dist/intermediate.js":     "var i=1;\n",
		"dist/intermediate.js.map": mapFor("../src/original.ts"),
		"src/original.ts":          "const o = 1;\n",
	})

	r := remap.New(nil)
	pos, ok := r.Lookup(filepath.Join(projectPath, "dist/bundle.js"), 1, 0)
	if !ok {
		t.Fatal("Expected chained resolution")
	}
	if want := filepath.Join(projectPath, "src/original.ts"); pos.File != want {
		t.Errorf("Expected the deepest authored file %s, got %s", want, pos.File)
	}
	if !pos.OnDisk {
		t.Error("Expected deepest authored file to be readable")
	}
}

func TestLink_ChainStopsWhenIntermediateHasNoMap(t *testing.T) {
	// intermediate.js is compiled-format and on disk but carries no map.
	projectPath := createTestProject(t, map[string]string{
		"dist/bundle.js":       "var b=1;\n",
		"dist/bundle.js.map":   mapFor("intermediate.js"),
		"dist/intermediate.js": "var i=1;\n",
	})

	r := remap.New(nil)
	pos, ok := r.Lookup(filepath.Join(projectPath, "dist/bundle.js"), 1, 0)
	if !ok {
		t.Fatal("Expected single-hop resolution")
	}
	if want := filepath.Join(projectPath, "dist/intermediate.js"); pos.File != want {
		t.Errorf("Expected %s, got %s", want, pos.File)
	}
}

func TestLink_PseudoURLNotDerivable(t *testing.T) {
	projectPath := createTestProject(t, map[string]string{
		"dist/main.js":     "var m=1;\n",
		"dist/main.js.map": mapFor("webpack:///./ephemeral/module.ts"),
	})

	r := remap.New(nil)
	pos, ok := r.Lookup(filepath.Join(projectPath, "dist/main.js"), 1, 0)
	if !ok {
		t.Fatal("Expected a labeled position even for a pseudo-URL")
	}
	if pos.File != "webpack:///./ephemeral/module.ts" {
		t.Errorf("Expected the pseudo-URL as display label, got %s", pos.File)
	}
	if pos.OnDisk {
		t.Error("Expected pseudo-URL position to be marked not disk-readable")
	}
}

func TestLink_PseudoURLDerivedFromConventionalRoot(t *testing.T) {
	projectPath := createTestProject(t, map[string]string{
		"dist/main.js":     "var m=1;\n",
		"dist/main.js.map": mapFor("webpack://appns/./src/app.ts"),
		"src/app.ts":       "const a = 1;\n",
	})

	r := remap.New(nil)
	pos, ok := r.Lookup(filepath.Join(projectPath, "dist/main.js"), 1, 0)
	if !ok {
		t.Fatal("Expected resolution")
	}
	if want := filepath.Join(projectPath, "src/app.ts"); pos.File != want {
		t.Errorf("Expected re-derived path %s, got %s", want, pos.File)
	}
	if !pos.OnDisk {
		t.Error("Expected re-derived file to be readable")
	}
}

func TestLink_SelfReferencingChainIsBounded(t *testing.T) {
	projectPath := createTestProject(t, map[string]string{
		"dist/loop.js":     "var l=1;\n",
		"dist/loop.js.map": mapFor("loop.js"),
	})

	r := &remap.Resolver{MaxHops: 3}
	pos, ok := r.Lookup(filepath.Join(projectPath, "dist/loop.js"), 1, 0)
	if !ok {
		t.Fatal("Expected bounded walk to still return a position")
	}
	if want := filepath.Join(projectPath, "dist/loop.js"); pos.File != want {
		t.Errorf("Expected the looping file itself, got %s", pos.File)
	}
}

func TestResolver_UnparseableMap(t *testing.T) {
	projectPath := createTestProject(t, map[string]string{
		"dist/app.js":     "var x=1;\n",
		"dist/app.js.map": "{not json",
	})

	r := remap.New(nil)
	if _, ok := r.Lookup(filepath.Join(projectPath, "dist/app.js"), 1, 0); ok {
		t.Error("Expected unresolved lookup for unparseable artifact")
	}
}
