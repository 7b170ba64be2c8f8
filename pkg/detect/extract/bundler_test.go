package extract_test

import (
	"testing"

	"distlint/pkg/detect/extract"
)

func TestWebpack_TextualScan(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantYear   int
		wantLatest bool
		wantOutDir string
	}{
		{
			name:    "target string and resolved path",
			content: `const path = require('path');
module.exports = {
	target: 'es2020',
	output: {
		path: path.resolve(__dirname, 'dist'),
		filename: 'bundle.js',
	},
};`,
			wantYear:   2020,
			wantOutDir: "dist",
		},
		{
			name:    "runtime target in array form",
			content: `module.exports = {
	target: ['web', 'es2017'],
	output: { path: '/opt/app/build' },
};`,
			wantYear:   2017,
			wantOutDir: "/opt/app/build",
		},
		{
			name:    "path join variant",
			content: `const path = require('path');
module.exports = { output: { path: path.join(__dirname, 'out') } };`,
			wantOutDir: "out",
		},
		{
			name:    "entry path before the output block",
			content: `const path = require('path');
module.exports = {
	entry: path.join(__dirname, 'src/index.js'),
	output: {
		path: path.resolve(__dirname, 'dist'),
		filename: 'bundle.js',
	},
};`,
			wantOutDir: "dist",
		},
		{
			name:    "resolve alias before the output block",
			content: `const path = require('path');
module.exports = {
	resolve: {
		alias: { '@': path.resolve(__dirname, 'src') },
	},
	output: {
		path: path.resolve(__dirname, 'dist'),
	},
};`,
			wantOutDir: "dist",
		},
		{
			name:       "esnext target",
			content:    `module.exports = { target: 'esnext', output: { path: '/tmp/x' } };`,
			wantLatest: true,
			wantOutDir: "/tmp/x",
		},
		{
			name:    "runtime-only target contributes no version",
			content: `module.exports = { target: 'node' };`,
		},
		{
			name:    "dev server proxy target is not a language level",
			content: `module.exports = {
	devServer: {
		proxy: [{ context: ['/api'], target: 'http://localhost:8080' }],
	},
	target: 'es2020',
	output: { path: '/srv/dist' },
};`,
			wantYear:   2020,
			wantOutDir: "/srv/dist",
		},
		{
			name:       "publicPath is not the output path",
			content:    `module.exports = { output: { publicPath: '/assets/' } };`,
			wantOutDir: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := extract.Webpack(extract.Input{Content: []byte(tt.content)})

			if ext.Target.Year != tt.wantYear {
				t.Errorf("Expected year %d, got %d", tt.wantYear, ext.Target.Year)
			}
			if ext.Target.Latest != tt.wantLatest {
				t.Errorf("Expected latest=%v, got %v", tt.wantLatest, ext.Target.Latest)
			}
			if ext.OutputDir != tt.wantOutDir {
				t.Errorf("Expected output dir %q, got %q", tt.wantOutDir, ext.OutputDir)
			}
		})
	}
}

func TestWebpack_EvaluationFallback(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantOutDir string
	}{
		{
			name:    "path built from a variable",
			content: `const path = require('path');
const outputDir = 'artifacts';
module.exports = {
	output: {
		path: path.resolve(__dirname, outputDir),
	},
};`,
			wantOutDir: "/proj/artifacts",
		},
		{
			name:    "string concatenation with plugin instantiation",
			content: `const webpack = require('webpack');
module.exports = {
	plugins: [new webpack.DefinePlugin({ 'process.env.NODE_ENV': '"production"' })],
	output: { path: __dirname + '/' + 'bundle-out' },
};`,
			wantOutDir: "/proj/bundle-out",
		},
		{
			name:    "function-style export",
			content: `const path = require('path');
module.exports = (env, argv) => ({
	output: { path: path.join(__dirname, argv.mode === 'production' ? 'fn-out' : 'dev-out') },
});`,
			wantOutDir: "/proj/fn-out",
		},
		{
			name:    "entry path does not mask a computed output",
			content: `const path = require('path');
module.exports = {
	entry: path.join(__dirname, 'src/index.js'),
	output: { path: __dirname + '/eval-out' },
};`,
			wantOutDir: "/proj/eval-out",
		},
		{
			name:    "refused module degrades to nothing",
			content: `const fs = require('fs');
const side = {};
module.exports = { output: { path: fs.realpathSync('.') } };`,
			wantOutDir: "",
		},
		{
			name:       "throwing config degrades to nothing",
			content:    `throw new Error('boom');`,
			wantOutDir: "",
		},
		{
			name:       "non-object export degrades to nothing",
			content:    `module.exports = 42;`,
			wantOutDir: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := extract.Webpack(extract.Input{Content: []byte(tt.content), Dir: "/proj"})
			if ext.OutputDir != tt.wantOutDir {
				t.Errorf("Expected output dir %q, got %q", tt.wantOutDir, ext.OutputDir)
			}
		})
	}
}

func TestWebpack_EvaluationTimeout(t *testing.T) {
	content := `while (true) {}`
	ext := extract.Webpack(extract.Input{Content: []byte(content), Dir: "/proj"})
	if ext.OutputDir != "" {
		t.Errorf("Expected nothing from a non-terminating config, got %q", ext.OutputDir)
	}
}

func TestVite(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantYear   int
		wantLatest bool
		wantOutDir string
	}{
		{
			name:    "build target and outDir",
			content: `export default {
	build: {
		target: 'es2015',
		outDir: 'release',
	},
};`,
			wantYear:   2015,
			wantOutDir: "release",
		},
		{
			name:     "array target picks the language level",
			content:  `export default { build: { target: ['chrome58', 'es2019'] } };`,
			wantYear: 2019,
		},
		{
			name:    "server proxy before the build target",
			content: `export default {
	server: {
		proxy: { '/api': { target: 'http://localhost:3000' } },
	},
	build: { target: 'es2015' },
};`,
			wantYear: 2015,
		},
		{
			name:       "esnext",
			content:    `export default { build: { target: 'esnext' } };`,
			wantLatest: true,
		},
		{
			name:    "default modules target contributes nothing",
			content: `export default { build: { target: 'modules' } };`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := extract.Vite(extract.Input{Content: []byte(tt.content)})

			if ext.Target.Year != tt.wantYear {
				t.Errorf("Expected year %d, got %d", tt.wantYear, ext.Target.Year)
			}
			if ext.Target.Latest != tt.wantLatest {
				t.Errorf("Expected latest=%v, got %v", tt.wantLatest, ext.Target.Latest)
			}
			if ext.OutputDir != tt.wantOutDir {
				t.Errorf("Expected outDir %q, got %q", tt.wantOutDir, ext.OutputDir)
			}
		})
	}
}
