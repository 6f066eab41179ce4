// Package lspsync keeps language servers' view of open documents in sync
// with the editor (spec §4.10, C11): per-document versions, incremental
// versus full didChange dispatch, in-flight deduplication, and path
// retargeting so renames immediately reflect in outbound messages.
package lspsync

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/wisp-editor/wisp/internal/engine/changeset"
	"github.com/wisp-editor/wisp/internal/engine/rope"
	"github.com/wisp-editor/wisp/internal/lsp"
)

var (
	// ErrUntracked marks an operation against a document the manager does
	// not know.
	ErrUntracked = errors.New("lspsync: document not tracked")
	// ErrFlushInFlight marks a flush attempted while a previous flush for
	// the same document has not completed; the caller retries next tick.
	ErrFlushInFlight = errors.New("lspsync: flush already in flight")
)

// Config describes how a tracked document syncs.
type Config struct {
	Path                string
	LanguageID          string
	SupportsIncremental bool
	Encoding            lsp.OffsetEncoding
}

// Sender delivers outbound notifications to the server transport. The
// returned channel resolves once the notification has been flushed to the
// wire (or failed), letting the manager hold its in-flight flag until then.
type Sender interface {
	Send(n lsp.Notification) <-chan error
}

// Metrics counts sync activity for the :stats surface.
type Metrics struct {
	FullSyncs          atomic.Int64
	IncrementalBatches atomic.Int64
	SendErrors         atomic.Int64
	SnapshotBytes      atomic.Int64
}

type docState struct {
	config    Config
	version   uint64
	opened    bool
	needsFull bool
	inFlight  bool
	pending   []lsp.ContentChange
}

// Manager tracks per-document sync state for one server connection.
type Manager struct {
	mu      sync.Mutex
	docs    map[string]*docState
	sender  Sender
	metrics *Metrics
	logger  *slog.Logger
}

// New returns a Manager sending through sender.
func New(sender Sender, metrics *Metrics, logger *slog.Logger) *Manager {
	if metrics == nil {
		metrics = &Metrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		docs:    make(map[string]*docState),
		sender:  sender,
		metrics: metrics,
		logger:  logger,
	}
}

// Metrics returns the manager's counters.
func (m *Manager) Metrics() *Metrics { return m.metrics }

// EnsureTracked registers a document without forcing a full resync; if the
// document is already tracked its config is left untouched.
func (m *Manager) EnsureTracked(docID string, cfg Config, version uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[docID]; ok {
		return
	}
	m.docs[docID] = &docState{config: cfg, version: version}
}

// ResetTracked retargets a document (save-as, rename): the new config's
// path is used for every subsequent message, and the next flush must be a
// full sync. Queued incremental changes against the old content are
// dropped — they would be meaningless after the reset.
func (m *Manager) ResetTracked(docID string, cfg Config, version uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[docID]
	if !ok {
		m.docs[docID] = &docState{config: cfg, version: version, needsFull: true}
		return
	}
	d.config = cfg
	d.version = version
	d.needsFull = true
	d.pending = nil
}

// OnDocClose removes the document and sends didClose.
func (m *Manager) OnDocClose(docID string) {
	m.mu.Lock()
	d, ok := m.docs[docID]
	if ok {
		delete(m.docs, docID)
	}
	m.mu.Unlock()
	if !ok || !d.opened {
		return
	}
	uri := lsp.FileURI(d.config.Path)
	ch := m.sender.Send(lsp.Notification{
		Method: lsp.MethodDidClose,
		Params: lsp.DidCloseParams{TextDocument: lsp.TextDocumentIdentifier{URI: uri}},
	})
	go func() {
		if err := <-ch; err != nil {
			m.metrics.SendErrors.Add(1)
			m.logger.Warn("lspsync: didClose failed", "uri", uri, "error", err)
		}
	}()
}

// OnLocalEdit records an applied transaction. Incremental-capable
// documents queue the changeset's edits as LSP content changes; otherwise
// the document is marked for a full resync and any queued changes are
// dropped (spec §4.10).
func (m *Manager) OnLocalEdit(docID string, preDoc rope.Rope, cs *changeset.ChangeSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[docID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUntracked, docID)
	}
	d.version++
	if !d.config.SupportsIncremental || d.needsFull {
		d.needsFull = true
		d.pending = nil
		return nil
	}
	d.pending = append(d.pending, changesFor(preDoc, cs, d.config.Encoding)...)
	return nil
}

// changesFor converts a changeset's edits into LSP content changes. Edits
// are collected in pre-document coordinates and emitted in reverse
// document order, so each change applies cleanly against the server's
// sequential-application semantics without offset fixups.
func changesFor(preDoc rope.Rope, cs *changeset.ChangeSet, enc lsp.OffsetEncoding) []lsp.ContentChange {
	conv := lsp.NewConverter(preDoc.String(), enc)
	type edit struct {
		start, end int
		text       string
	}
	var edits []edit
	pos := 0
	for _, op := range cs.Ops() {
		switch op.Kind {
		case changeset.OpRetain:
			pos += op.N
		case changeset.OpDelete:
			edits = append(edits, edit{start: pos, end: pos + op.N})
			pos += op.N
		case changeset.OpInsert:
			edits = append(edits, edit{start: pos, end: pos, text: op.Text})
		}
	}
	out := make([]lsp.ContentChange, 0, len(edits))
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		r := conv.RangeFor(e.start, e.end)
		out = append(out, lsp.ContentChange{Range: &r, Text: e.text})
	}
	return out
}

// FlushNow emits the document's queued sync state: a didOpen on first
// flush, a full-text didChange when a full resync is needed, or the
// pending incremental queue in order. The in-flight flag is held until
// the returned receiver fires, so a new didChange can never overtake an
// outstanding flush for the same document. The document's URI is resolved
// from its config at send time, never from the originating event.
func (m *Manager) FlushNow(docID, snapshot string) (<-chan error, error) {
	m.mu.Lock()
	d, ok := m.docs[docID]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUntracked, docID)
	}
	if d.inFlight {
		m.mu.Unlock()
		return nil, ErrFlushInFlight
	}

	uri := lsp.FileURI(d.config.Path)
	version := int(d.version)
	var msgs []lsp.Notification
	switch {
	case !d.opened:
		msgs = append(msgs, lsp.Notification{
			Method: lsp.MethodDidOpen,
			Params: lsp.DidOpenParams{TextDocument: lsp.TextDocumentItem{
				URI: uri, LanguageID: d.config.LanguageID, Version: version, Text: snapshot,
			}},
		})
		d.opened = true
		d.needsFull = false
		d.pending = nil
		m.metrics.FullSyncs.Add(1)
		m.metrics.SnapshotBytes.Add(int64(len(snapshot)))
	case d.needsFull:
		msgs = append(msgs, lsp.Notification{
			Method: lsp.MethodDidChange,
			Params: lsp.DidChangeParams{
				TextDocument:   lsp.VersionedTextDocumentIdentifier{URI: uri, Version: version},
				ContentChanges: []lsp.ContentChange{{Text: snapshot}},
			},
		})
		d.needsFull = false
		d.pending = nil
		m.metrics.FullSyncs.Add(1)
		m.metrics.SnapshotBytes.Add(int64(len(snapshot)))
	case len(d.pending) > 0:
		msgs = append(msgs, lsp.Notification{
			Method: lsp.MethodDidChange,
			Params: lsp.DidChangeParams{
				TextDocument:   lsp.VersionedTextDocumentIdentifier{URI: uri, Version: version},
				ContentChanges: d.pending,
			},
		})
		d.pending = nil
		m.metrics.IncrementalBatches.Add(1)
	default:
		m.mu.Unlock()
		done := make(chan error, 1)
		done <- nil
		return done, nil
	}
	d.inFlight = true
	m.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		var firstErr error
		for _, msg := range msgs {
			if err := <-m.sender.Send(msg); err != nil && firstErr == nil {
				firstErr = err
				m.metrics.SendErrors.Add(1)
			}
		}
		m.mu.Lock()
		if cur, ok := m.docs[docID]; ok {
			cur.inFlight = false
		}
		m.mu.Unlock()
		done <- firstErr
	}()
	return done, nil
}

// InFlightCount returns how many documents currently hold an unresolved
// flush.
func (m *Manager) InFlightCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, d := range m.docs {
		if d.inFlight {
			n++
		}
	}
	return n
}

// PendingChanges returns the number of queued incremental changes for a
// document, for observability.
func (m *Manager) PendingChanges(docID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.docs[docID]; ok {
		return len(d.pending)
	}
	return 0
}
