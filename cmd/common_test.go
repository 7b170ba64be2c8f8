package cmd

import "testing"

func TestBrowserslistEnv_PrefersBrowserslistEnv(t *testing.T) {
	t.Setenv("BROWSERSLIST_ENV", "modern")
	t.Setenv("NODE_ENV", "production")

	if env := browserslistEnv(); env != "modern" {
		t.Errorf("Expected BROWSERSLIST_ENV to win, got '%s'", env)
	}
}

func TestBrowserslistEnv_FallsBackToNodeEnv(t *testing.T) {
	t.Setenv("BROWSERSLIST_ENV", "")
	t.Setenv("NODE_ENV", "production")

	if env := browserslistEnv(); env != "production" {
		t.Errorf("Expected NODE_ENV fallback, got '%s'", env)
	}
}

func TestPathArg(t *testing.T) {
	if got := pathArg(nil); got != "." {
		t.Errorf("Expected current directory default, got '%s'", got)
	}
	if got := pathArg([]string{"web/app"}); got != "web/app" {
		t.Errorf("Expected explicit path, got '%s'", got)
	}
}
