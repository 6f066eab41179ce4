package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wisp-editor/wisp/internal/config/layer"
	"github.com/wisp-editor/wisp/internal/config/loader"
	"github.com/wisp-editor/wisp/internal/config/notify"
	"github.com/wisp-editor/wisp/internal/config/schema"
)

// Config ties the configuration subsystems together: the layer stack
// that merges sources by rank, the schema validator gating writes, the
// change notifier, and the keymap manager that turns config bindings
// into engine bindings. Values are read through dot-separated setting
// paths ("editor.tabSize").
type Config struct {
	mu sync.RWMutex

	layers    *layer.Stack
	validator *schema.Validator
	notifier  *notify.Notifier
	keymaps   *KeymapManager

	userConfigDir    string
	projectConfigDir string
	enableSchema     bool

	// configErrors records type mismatches observed by the section
	// accessors, so a misconfigured settings file is discoverable even
	// though the accessors fall back to defaults.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithUserConfigDir sets the user configuration directory.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) { c.userConfigDir = dir }
}

// WithProjectConfigDir sets the project configuration directory.
func WithProjectConfigDir(dir string) Option {
	return func(c *Config) { c.projectConfigDir = dir }
}

// WithSchemaValidation enables or disables schema validation on Set.
func WithSchemaValidation(enable bool) Option {
	return func(c *Config) { c.enableSchema = enable }
}

// New creates a Config. Call Load before reading values.
func New(opts ...Option) *Config {
	c := &Config{
		layers:       layer.NewStack(),
		notifier:     notify.New(),
		enableSchema: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.userConfigDir == "" {
		c.userConfigDir = defaultUserConfigDir()
	}
	if c.enableSchema {
		if s, err := schema.LoadEmbedded(); err == nil {
			c.validator = schema.NewValidator(s)
		}
	}
	c.keymaps = NewKeymapManager(c, c.notifier)
	return c
}

// fileSource names one TOML layer and where it loads from.
type fileSource struct {
	name   string
	source layer.Source
	rank   int
	path   string
}

// Load reads every configuration source into the stack, lowest rank
// first. Absent files simply contribute nothing; unreadable or
// unparsable ones abort the load.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()

	c.layers.Add(layer.New("defaults", layer.SourceBuiltin, layer.RankBuiltin, defaultConfig()))

	sources := []fileSource{
		{"user-settings", layer.SourceUser, layer.RankUser, filepath.Join(c.userConfigDir, "settings.toml")},
		{"user-keymaps", layer.SourceUser, layer.RankUserKeymaps, filepath.Join(c.userConfigDir, "keymaps.toml")},
	}
	if c.projectConfigDir != "" {
		sources = append(sources, fileSource{
			"project", layer.SourceWorkspace, layer.RankWorkspace,
			filepath.Join(c.projectConfigDir, "config.toml"),
		})
	}
	for _, src := range sources {
		data, err := loader.TOML(src.path)
		if err != nil {
			c.mu.Unlock()
			return err
		}
		if data == nil {
			continue
		}
		c.layers.Add(layer.New(src.name, src.source, src.rank, data))
	}

	if env := loader.NewEnv("WISP").Load(); len(env) > 0 {
		c.layers.Add(layer.New("environment", layer.SourceEnv, layer.RankEnv, env))
	}

	keymaps := c.keymaps
	c.mu.Unlock()

	// LoadFromConfig reads back through c.Get, which takes the read
	// lock, so it must run after the write lock is released.
	if err := keymaps.LoadFromConfig(); err != nil {
		return fmt.Errorf("loading user keymaps: %w", err)
	}
	return nil
}

// Close shuts the notifier down; further changes are not delivered.
func (c *Config) Close() {
	if c.notifier != nil {
		c.notifier.Close()
	}
}

// Get returns the merged value at a setting path.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return getPath(c.layers.Merge(), path)
}

// GetString returns the string at path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
}

// GetInt returns the integer at path. Whole-valued floats (a TOML or
// JSON decoding artifact) convert.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	if n, isNum := asFloat(v); isNum {
		return int(n), nil
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetBool returns the boolean at path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
}

// GetFloat returns the float at path; integer values convert.
func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	if n, isNum := asFloat(v); isNum {
		return n, nil
	}
	return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
}

// GetStringSlice returns the string list at path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
}

// asFloat widens any numeric representation the loaders produce.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Set writes a value into the user-settings layer after schema
// validation, and notifies observers with the effective merged values
// before and after.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.validator != nil {
		if err := c.validator.ValidatePath(path, value); err != nil {
			return err
		}
	}

	target := c.layers.Get("user-settings")
	if target == nil {
		return ErrLayerNotFound
	}

	oldValue, _ := getPath(c.layers.Merge(), path)
	if err := setPath(target.Data, path, value); err != nil {
		return err
	}
	c.layers.Invalidate()
	newValue, _ := getPath(c.layers.Merge(), path)

	c.notifier.NotifySet(path, oldValue, newValue, "user")
	return nil
}

// Subscribe registers an observer for every configuration change.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes at or under path.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, observer)
}

// Merged returns a copy of the fully merged configuration; mutating it
// does not affect the underlying layers.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return deepCopy(c.layers.Merge())
}

// Keymaps returns the keymap manager.
func (c *Config) Keymaps() *KeymapManager {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.keymaps
}

func deepCopy(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		if m, ok := v.(map[string]any); ok {
			out[k] = deepCopy(m)
			continue
		}
		out[k] = v
	}
	return out
}

// defaultUserConfigDir resolves ~/.config/wisp, honoring XDG_CONFIG_HOME.
func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wisp")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "wisp")
}

// defaultConfig is the builtin lowest-rank layer.
func defaultConfig() map[string]any {
	return map[string]any{
		"editor": map[string]any{
			"tabSize":      4,
			"insertSpaces": true,
			"wordWrap":     "on",
			"lineNumbers":  "on",
			"scrollOff":    2,
			"formatOnSave": false,
		},
		"ui": map[string]any{
			"theme":         "default",
			"showStatusBar": true,
		},
		"input": map[string]any{
			"digitPrefixCount": true,
			"shiftFold":        true,
			"defaultMode":      "normal",
		},
		"files": map[string]any{
			"exclude":  []string{".git", "node_modules", ".DS_Store"},
			"encoding": "utf-8",
			"eol":      "lf",
		},
		"search": map[string]any{
			"caseSensitive": false,
			"maxResults":    1000,
		},
		"lsp": map[string]any{
			"enabled":          true,
			"diagnosticsDelay": 300,
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
		},
	}
}

// getPath walks a nested map by dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	keys := splitPath(path)
	if len(keys) == 0 {
		return nil, false
	}
	var cur any = m
	for _, k := range keys {
		table, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = table[k]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// setPath writes into a nested map by dot-separated path, creating
// intermediate tables. Writing through a non-table value is an
// ErrInvalidPath.
func setPath(m map[string]any, path string, value any) error {
	keys := splitPath(path)
	if len(keys) == 0 {
		return ErrInvalidPath
	}
	for _, k := range keys[:len(keys)-1] {
		next, exists := m[k]
		if !exists {
			table := make(map[string]any)
			m[k] = table
			m = table
			continue
		}
		table, ok := next.(map[string]any)
		if !ok {
			return ErrInvalidPath
		}
		m = table
	}
	m[keys[len(keys)-1]] = value
	return nil
}

// splitPath splits a dotted path, dropping empty segments so "a..b" and
// ".a.b" degrade gracefully.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// typeName names a value's type for TypeError messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64:
		return "int"
	case float32, float64:
		return "float64"
	case []string, []any:
		return "list"
	case map[string]any:
		return "table"
	}
	return fmt.Sprintf("%T", v)
}
