package extract

import (
	"strings"

	"gopkg.in/ini.v1"
)

// Browserslist extracts runtime-target entries from .browserslistrc or
// browserslist files: one entry per non-empty, non-comment line, with
// [env] sections resolved the way browserslist itself does. Entries are
// whole lines, so key/value splitting is disabled; "chrome >= 90" must
// not be cut at its equals sign.
func Browserslist(in Input) Extraction {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:   true,
		KeyValueDelimiters: "\x00",
	}, in.Content)
	if err != nil {
		in.logger().Debug("skipping malformed runtime-list file", "error", err)
		return Extraction{}
	}

	// browserslist resolves the environment to "production" when the
	// caller supplies none. Sectionless lines are the fallback set.
	env := in.Env
	if env == "" {
		env = "production"
	}
	if sec, err := cfg.GetSection(env); err == nil {
		if entries := sectionEntries(sec); len(entries) > 0 {
			return Extraction{Browsers: entries}
		}
	}

	return Extraction{Browsers: sectionEntries(cfg.Section(ini.DefaultSection))}
}

func sectionEntries(sec *ini.Section) []string {
	var entries []string
	for _, key := range sec.KeyStrings() {
		if key = strings.TrimSpace(key); key != "" {
			entries = append(entries, key)
		}
	}
	return entries
}
