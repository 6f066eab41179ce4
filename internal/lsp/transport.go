package lsp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// EncodeNotification builds the JSON-RPC 2.0 wire body for a notification.
func EncodeNotification(n Notification) ([]byte, error) {
	params, err := json.Marshal(n.Params)
	if err != nil {
		return nil, fmt.Errorf("lsp: marshal params for %s: %w", n.Method, err)
	}
	body := []byte(`{"jsonrpc":"2.0"}`)
	body, err = sjson.SetBytes(body, "method", n.Method)
	if err != nil {
		return nil, fmt.Errorf("lsp: encode %s: %w", n.Method, err)
	}
	body, err = sjson.SetRawBytes(body, "params", params)
	if err != nil {
		return nil, fmt.Errorf("lsp: encode %s: %w", n.Method, err)
	}
	return body, nil
}

// WriteMessage frames body with a Content-Length header and writes it.
func WriteMessage(w io.Writer, body []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return fmt.Errorf("lsp: write header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("lsp: write body: %w", err)
	}
	return nil
}

// ReadMessage reads one Content-Length framed message body.
func ReadMessage(r *bufio.Reader) ([]byte, error) {
	length := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("lsp: read header: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if name, value, ok := strings.Cut(line, ":"); ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			length, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("lsp: bad Content-Length %q: %w", value, err)
			}
		}
	}
	if length < 0 {
		return nil, fmt.Errorf("lsp: missing Content-Length header")
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("lsp: read body: %w", err)
	}
	return body, nil
}

// PeekMethod extracts the method of a raw inbound message without a full
// unmarshal, so the receive loop can route cheaply.
func PeekMethod(raw []byte) string {
	return gjson.GetBytes(raw, "method").String()
}

// PeekURI extracts params.textDocument.uri from a raw message, used by
// diagnostics routing and by tests asserting which document a message
// references.
func PeekURI(raw []byte) string {
	return gjson.GetBytes(raw, "params.textDocument.uri").String()
}

// IsRequest reports whether a raw inbound message carries an id (i.e. is a
// server-initiated request needing a reply) rather than a notification.
func IsRequest(raw []byte) bool {
	return gjson.GetBytes(raw, "id").Exists()
}
