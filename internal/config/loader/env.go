package loader

import (
	"os"
	"strconv"
	"strings"
)

// Env reads WISP_*-style environment variables into a config map. A
// fixed table maps the documented variables (spec §6: config directory,
// plugin directory, log socket, plus a few conveniences) onto their
// setting paths; any other variable with the prefix is converted
// mechanically, WISP_EDITOR_TAB_SIZE becoming editor.tabSize.
type Env struct {
	prefix string
	known  map[string]string
}

// NewEnv returns an environment loader for the given prefix ("WISP"
// or "WISP_" — the underscore is normalized).
func NewEnv(prefix string) *Env {
	prefix = strings.TrimSuffix(prefix, "_") + "_"
	return &Env{prefix: prefix, known: knownVars(prefix)}
}

func knownVars(prefix string) map[string]string {
	paths := map[string]string{
		"CONFIG_DIR":    "paths.configDir",
		"DATA_DIR":      "paths.dataDir",
		"CACHE_DIR":     "paths.cacheDir",
		"PLUGIN_DIR":    "paths.pluginDir",
		"LOG_LEVEL":     "logging.level",
		"LOG_SOCKET":    "logging.socket",
		"THEME":         "ui.theme",
		"TAB_SIZE":      "editor.tabSize",
		"INSERT_SPACES": "editor.insertSpaces",
		"WORD_WRAP":     "editor.wordWrap",
	}
	out := make(map[string]string, len(paths))
	for suffix, path := range paths {
		out[prefix+suffix] = path
	}
	return out
}

// Load scans the environment and returns the resulting config map.
func (e *Env) Load() map[string]any {
	out := make(map[string]any)

	for name, path := range e.known {
		if value, ok := os.LookupEnv(name); ok {
			putPath(out, path, coerce(value))
		}
	}

	for _, entry := range os.Environ() {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, e.prefix) {
			continue
		}
		if _, mapped := e.known[name]; mapped {
			continue
		}
		putPath(out, e.pathFor(name), coerce(value))
	}
	return out
}

// pathFor converts WISP_EDITOR_TAB_SIZE to editor.tabSize: the first
// underscore-separated word is the section, the rest camel-case into the
// setting name.
func (e *Env) pathFor(name string) string {
	words := strings.Split(strings.TrimPrefix(name, e.prefix), "_")
	section := strings.ToLower(words[0])
	if len(words) == 1 {
		return section
	}
	var setting strings.Builder
	setting.WriteString(strings.ToLower(words[1]))
	for _, w := range words[2:] {
		if w == "" {
			continue
		}
		setting.WriteString(strings.ToUpper(w[:1]))
		setting.WriteString(strings.ToLower(w[1:]))
	}
	return section + "." + setting.String()
}

// coerce guesses a value's type: bools, integers, and floats parse to
// their Go types, everything else stays a string.
func coerce(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// putPath writes value into the nested map at a dot-separated path,
// creating intermediate tables as needed.
func putPath(m map[string]any, path string, value any) {
	keys := strings.Split(path, ".")
	for _, k := range keys[:len(keys)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[k] = next
		}
		m = next
	}
	m[keys[len(keys)-1]] = value
}
