package lsp

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Inbound server-message parsing. The receive loop hands raw JSON-RPC
// bodies to these helpers; gjson paths avoid a full unmarshal of payloads
// the core mostly ignores.

// Diagnostic is one published diagnostic, kept to what the render cache
// needs.
type Diagnostic struct {
	Severity int
	Range    Range
	Message  string
}

// Server-initiated methods the core routes.
const (
	MethodPublishDiagnostics = "textDocument/publishDiagnostics"
	MethodApplyEdit          = "workspace/applyEdit"
)

// ParseDiagnostics extracts the URI and diagnostics from a
// publishDiagnostics notification body.
func ParseDiagnostics(raw []byte) (string, []Diagnostic, error) {
	params := gjson.GetBytes(raw, "params")
	if !params.Exists() {
		return "", nil, fmt.Errorf("lsp: publishDiagnostics without params")
	}
	uri := params.Get("uri").String()
	var diags []Diagnostic
	params.Get("diagnostics").ForEach(func(_, d gjson.Result) bool {
		diags = append(diags, Diagnostic{
			Severity: int(d.Get("severity").Int()),
			Message:  d.Get("message").String(),
			Range:    rangeFrom(d.Get("range")),
		})
		return true
	})
	return uri, diags, nil
}

// ApplyEditChange is one document's worth of edits from a
// workspace/applyEdit request, in LSP positions.
type ApplyEditChange struct {
	URI   string
	Edits []struct {
		Range   Range
		NewText string
	}
}

// ParseApplyEdit extracts the per-document changes of a workspace/applyEdit
// request body, plus the request id needed for the inline reply.
func ParseApplyEdit(raw []byte) (id int64, changes []ApplyEditChange, err error) {
	id = gjson.GetBytes(raw, "id").Int()
	edit := gjson.GetBytes(raw, "params.edit.changes")
	if !edit.Exists() {
		return id, nil, fmt.Errorf("lsp: applyEdit without changes")
	}
	edit.ForEach(func(uri, edits gjson.Result) bool {
		c := ApplyEditChange{URI: uri.String()}
		edits.ForEach(func(_, e gjson.Result) bool {
			c.Edits = append(c.Edits, struct {
				Range   Range
				NewText string
			}{Range: rangeFrom(e.Get("range")), NewText: e.Get("newText").String()})
			return true
		})
		changes = append(changes, c)
		return true
	})
	return id, changes, nil
}

func rangeFrom(r gjson.Result) Range {
	return Range{
		Start: Position{
			Line:      int(r.Get("start.line").Int()),
			Character: int(r.Get("start.character").Int()),
		},
		End: Position{
			Line:      int(r.Get("end.line").Int()),
			Character: int(r.Get("end.character").Int()),
		},
	}
}

// FormatMessage pretty-prints a raw message body for logs and the
// protocol inspector.
func FormatMessage(raw []byte) string {
	return string(pretty.Pretty(raw))
}
