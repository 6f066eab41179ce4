package shell

import (
	"github.com/wisp-editor/wisp/internal/lsp"
	"github.com/wisp-editor/wisp/internal/workqueue"
)

// HandleServerMessage routes one inbound server message (spec §4.12 step
// 5): diagnostics update the render cache directly, workspace-edit
// requests are deferred through the work queue so they apply in pump
// order, unhandled server requests are logged at debug level for the
// protocol inspector, and other notifications are ignored.
func (e *Editor) HandleServerMessage(raw []byte) {
	switch lsp.PeekMethod(raw) {
	case lsp.MethodPublishDiagnostics:
		uri, diags, err := lsp.ParseDiagnostics(raw)
		if err != nil {
			e.logger.Warn("lsp: bad diagnostics", "error", err)
			return
		}
		e.ApplyDiagnostics(uri, diags)

	case lsp.MethodApplyEdit:
		_, changes, err := lsp.ParseApplyEdit(raw)
		if err != nil {
			e.logger.Warn("lsp: bad applyEdit", "error", err)
			return
		}
		for _, change := range changes {
			edit, ok := e.workspaceEditFor(change)
			if !ok {
				continue
			}
			e.work.EnqueueWorkspaceEdit(edit, workqueue.Global)
		}

	default:
		if lsp.IsRequest(raw) {
			e.logger.Debug("lsp: unhandled server request", "body", lsp.FormatMessage(raw))
		}
	}
}

// workspaceEditFor converts a document's LSP-position edits to character
// offsets against the document's current text.
func (e *Editor) workspaceEditFor(change lsp.ApplyEditChange) (workqueue.WorkspaceEdit, bool) {
	path := lsp.URIPath(change.URI)
	for _, doc := range e.docs {
		if doc.Path() != path {
			continue
		}
		conv := lsp.NewConverter(doc.Text().String(), lsp.EncodingUTF16)
		edit := workqueue.WorkspaceEdit{URI: change.URI}
		for _, te := range change.Edits {
			edit.Changes = append(edit.Changes, workqueue.TextEdit{
				Start:   conv.RuneOffsetFor(te.Range.Start),
				End:     conv.RuneOffsetFor(te.Range.End),
				NewText: te.NewText,
			})
		}
		return edit, true
	}
	return workqueue.WorkspaceEdit{}, false
}
