package config

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration. Use Config.Set()
// to update configuration values.

// EditorConfig provides type-safe access to editor settings.
type EditorConfig struct {
	// TabSize is the number of display cells a tab occupies.
	TabSize int

	// InsertSpaces inserts spaces when pressing Tab.
	InsertSpaces bool

	// WordWrap controls soft wrap ("off", "on").
	WordWrap string

	// LineNumbers controls the display of line numbers ("off", "on", "relative").
	LineNumbers string

	// ScrollOff is the minimum number of lines to keep above/below cursor.
	ScrollOff int

	// FormatOnSave formats the file when saving.
	FormatOnSave bool
}

// UIConfig provides type-safe access to UI settings.
type UIConfig struct {
	// Theme is the color theme name.
	Theme string

	// ShowStatusBar shows the status bar at the bottom.
	ShowStatusBar bool
}

// InputConfig provides type-safe access to keymap-engine behavior settings.
type InputConfig struct {
	// DigitPrefixCount accumulates bare digits as a repeat count in
	// Normal mode.
	DigitPrefixCount bool

	// ShiftFold lets an unbound shifted key fall back to its unshifted
	// binding with extend set.
	ShiftFold bool

	// DefaultMode is the input mode when opening files.
	DefaultMode string
}

// FilesConfig provides type-safe access to file settings.
type FilesConfig struct {
	// Encoding is the default file encoding.
	Encoding string

	// EOL is the default end-of-line character ("auto", "lf", "crlf").
	EOL string

	// Exclude is a list of glob patterns for files to exclude.
	Exclude []string
}

// SearchConfig provides type-safe access to search settings.
type SearchConfig struct {
	// CaseSensitive enables case-sensitive search.
	CaseSensitive bool

	// MaxResults is the maximum number of search results.
	MaxResults int
}

// LoggingConfig provides type-safe access to logging settings.
type LoggingConfig struct {
	// Level is the logging verbosity level ("debug", "info", "warn", "error").
	Level string

	// Format is the log format ("text", "json").
	Format string

	// File is the log file path (empty for no file logging).
	File string
}

// LSPConfig provides type-safe access to Language Server Protocol settings.
type LSPConfig struct {
	// Enabled enables LSP features.
	Enabled bool

	// DiagnosticsDelay is the delay before showing diagnostics in milliseconds.
	DiagnosticsDelay int

	// CompletionTriggerCharacters are characters that trigger completion.
	CompletionTriggerCharacters []string
}

// PathsConfig provides type-safe access to path settings.
type PathsConfig struct {
	// ConfigDir is the configuration directory path.
	ConfigDir string

	// DataDir is the data directory path.
	DataDir string

	// CacheDir is the cache directory path.
	CacheDir string

	// PluginDir is the plugin directory path (the plugin host is an
	// external collaborator; only the path is resolved here).
	PluginDir string
}

// section is a typed view over one top-level settings table: each
// accessor reads through Config's typed getters and falls back to the
// given default, recording type errors as it goes.
type section struct {
	c      *Config
	prefix string
}

func (c *Config) section(name string) section {
	return section{c: c, prefix: name + "."}
}

func (s section) str(key, def string) string {
	v, err := s.c.GetString(s.prefix + key)
	return orDefault(s.c, s.prefix+key, v, def, err)
}

func (s section) num(key string, def int) int {
	v, err := s.c.GetInt(s.prefix + key)
	return orDefault(s.c, s.prefix+key, v, def, err)
}

func (s section) flag(key string, def bool) bool {
	v, err := s.c.GetBool(s.prefix + key)
	return orDefault(s.c, s.prefix+key, v, def, err)
}

func (s section) list(key string, def []string) []string {
	v, err := s.c.GetStringSlice(s.prefix + key)
	if err != nil {
		if err != ErrSettingNotFound {
			s.c.recordConfigError(s.prefix+key, err)
		}
		v = def
	}
	// Snapshot contract: callers own the returned slice.
	out := make([]string, len(v))
	copy(out, v)
	return out
}

// orDefault returns v, or def when the lookup failed. Only type errors
// are recorded — an absent setting falling back to its default is the
// normal case, not a problem.
func orDefault[T any](c *Config, path string, v, def T, err error) T {
	if err == nil {
		return v
	}
	if err != ErrSettingNotFound {
		c.recordConfigError(path, err)
	}
	return def
}

// Editor returns type-safe access to editor settings.
func (c *Config) Editor() EditorConfig {
	s := c.section("editor")
	return EditorConfig{
		TabSize:      s.num("tabSize", 4),
		InsertSpaces: s.flag("insertSpaces", true),
		WordWrap:     s.str("wordWrap", "on"),
		LineNumbers:  s.str("lineNumbers", "on"),
		ScrollOff:    s.num("scrollOff", 2),
		FormatOnSave: s.flag("formatOnSave", false),
	}
}

// UI returns type-safe access to UI settings.
func (c *Config) UI() UIConfig {
	s := c.section("ui")
	return UIConfig{
		Theme:         s.str("theme", "default"),
		ShowStatusBar: s.flag("showStatusBar", true),
	}
}

// Input returns type-safe access to keymap-engine behavior settings.
func (c *Config) Input() InputConfig {
	s := c.section("input")
	return InputConfig{
		DigitPrefixCount: s.flag("digitPrefixCount", true),
		ShiftFold:        s.flag("shiftFold", true),
		DefaultMode:      s.str("defaultMode", "normal"),
	}
}

// Files returns type-safe access to file settings.
func (c *Config) Files() FilesConfig {
	s := c.section("files")
	return FilesConfig{
		Encoding: s.str("encoding", "utf-8"),
		EOL:      s.str("eol", "lf"),
		Exclude:  s.list("exclude", []string{".git"}),
	}
}

// Search returns type-safe access to search settings.
func (c *Config) Search() SearchConfig {
	s := c.section("search")
	return SearchConfig{
		CaseSensitive: s.flag("caseSensitive", false),
		MaxResults:    s.num("maxResults", 1000),
	}
}

// Logging returns type-safe access to logging settings.
func (c *Config) Logging() LoggingConfig {
	s := c.section("logging")
	return LoggingConfig{
		Level:  s.str("level", "info"),
		Format: s.str("format", "text"),
		File:   s.str("file", ""),
	}
}

// LSP returns type-safe access to LSP settings.
func (c *Config) LSP() LSPConfig {
	s := c.section("lsp")
	return LSPConfig{
		Enabled:                     s.flag("enabled", true),
		DiagnosticsDelay:            s.num("diagnosticsDelay", 300),
		CompletionTriggerCharacters: s.list("completionTriggerCharacters", []string{".", ":"}),
	}
}

// Paths returns type-safe access to path settings.
func (c *Config) Paths() PathsConfig {
	s := c.section("paths")
	return PathsConfig{
		ConfigDir: s.str("configDir", ""),
		DataDir:   s.str("dataDir", ""),
		CacheDir:  s.str("cacheDir", ""),
		PluginDir: s.str("pluginDir", ""),
	}
}

// recordConfigError stores the first error seen per path, so the
// original cause of a misconfiguration is preserved.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns a copy of the recorded configuration errors.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	out := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		out[k] = v
	}
	return out
}

// ClearConfigErrors clears any recorded configuration errors.
func (c *Config) ClearConfigErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configErrors = nil
}
