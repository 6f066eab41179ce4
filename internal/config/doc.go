// Package config loads, merges, validates, and serves the editor's
// settings, keymap bindings, and per-language option blocks.
//
// Sources stack by rank, highest winning:
//
//	environment variables        WISP_* (spec'd overrides + mechanical conversion)
//	project settings             .wisp/config.toml
//	user keymaps                 ~/.config/wisp/keymaps.toml
//	user settings                ~/.config/wisp/settings.toml
//	builtin defaults
//
// Values are addressed by dot-separated paths ("editor.tabSize") through
// typed getters, or through the section snapshots (Config.Editor,
// Config.UI, ...) which fall back to defaults and record type errors
// instead of failing. Writes go through Config.Set, which validates
// against the embedded JSON schema and notifies subscribed observers
// with the effective merged values.
//
// Unknown settings warn rather than error, and a global-only option used
// inside a language block is a non-fatal scope-mismatch warning — see
// LanguageOptions.
//
// Sub-packages: loader (TOML + environment), layer (rank-ordered merge
// stack), schema (JSON-Schema subset validation), notify (change
// fan-out).
package config
