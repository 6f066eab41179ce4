// Package lsp holds the narrow Language Server Protocol surface the core
// consumes: document-sync notification types, position-encoding
// conversion, and JSON-RPC message framing. Server process management and
// the full feature surface are external collaborators (spec §1).
package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
)

// OffsetEncoding is the position encoding negotiated with a server. LSP
// defaults to UTF-16; modern servers may advertise utf-8 or utf-32.
type OffsetEncoding uint8

const (
	EncodingUTF16 OffsetEncoding = iota
	EncodingUTF8
	EncodingUTF32
)

// ParseOffsetEncoding maps a server's positionEncoding capability string.
func ParseOffsetEncoding(s string) OffsetEncoding {
	switch strings.ToLower(s) {
	case "utf-8", "utf8":
		return EncodingUTF8
	case "utf-32", "utf32":
		return EncodingUTF32
	default:
		return EncodingUTF16
	}
}

func (e OffsetEncoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf-8"
	case EncodingUTF32:
		return "utf-32"
	default:
		return "utf-16"
	}
}

// Position is a zero-based line/character pair; Character is counted in
// the negotiated offset encoding's code units.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open [Start, End) position range.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextDocumentItem identifies a document on didOpen.
type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

// TextDocumentIdentifier names a document by URI.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// VersionedTextDocumentIdentifier names a document plus its version.
type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

// ContentChange is one textDocument/didChange edit. A nil Range means a
// full-text replacement.
type ContentChange struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

// DidOpenParams is the payload of textDocument/didOpen.
type DidOpenParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// DidChangeParams is the payload of textDocument/didChange.
type DidChangeParams struct {
	TextDocument   VersionedTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []ContentChange                 `json:"contentChanges"`
}

// DidCloseParams is the payload of textDocument/didClose.
type DidCloseParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// Notification method names the sync manager emits.
const (
	MethodDidOpen   = "textDocument/didOpen"
	MethodDidChange = "textDocument/didChange"
	MethodDidClose  = "textDocument/didClose"
)

// Notification is an outbound JSON-RPC notification.
type Notification struct {
	Method string
	Params any
}

// FileURI converts an absolute or relative filesystem path to a file: URI.
func FileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	u := url.URL{Scheme: "file", Path: abs}
	return u.String()
}

// URIPath converts a file: URI back to a filesystem path; non-file URIs
// are returned unchanged.
func URIPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	return filepath.FromSlash(u.Path)
}
