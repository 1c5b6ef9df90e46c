// Package lsp implements component O: a diagnostics-only language server
// for the `.nc` surface syntax. Grounded on the teacher's
// internal/lsp/handler.go (Handler mirrors KansoHandler's
// mutex-guarded per-file state and glsp.Context-based notification
// handlers), narrowed to TextDocumentDidOpen/DidChange re-parsing and
// publishing diagnostics: no completion or semantic tokens, since those are
// tied to Kanso's contract/struct/function surface and NoClock's untyped
// task language has nothing equivalent to offer.
package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"noclock/internal/errors"
	"noclock/internal/parser"
)

// Handler implements the LSP server handlers for the `.nc` surface syntax.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
}

// NewHandler creates an empty Handler.
func NewHandler() *Handler {
	return &Handler{content: make(map[string]string)}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.reparseAndPublish(ctx, string(params.TextDocument.URI), params.TextDocument.Text)
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	text, err := fullText(params.ContentChanges)
	if err != nil {
		return err
	}
	return h.reparseAndPublish(ctx, string(params.TextDocument.URI), text)
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(string(params.TextDocument.URI))
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.content, path)
	h.mu.Unlock()
	return nil
}

// fullText extracts the document's full text from a DidChange notification.
// This server advertises TextDocumentSyncKindFull, so every notification
// carries exactly one change whose "text" field is the entire new buffer,
// with no "range" — glsp decodes it as a generic map rather than a
// dedicated struct, so the field is pulled out by key instead of by type
// assertion to a concrete change-event type.
func fullText(changes []interface{}) (string, error) {
	if len(changes) == 0 {
		return "", fmt.Errorf("lsp: no content changes in full-sync notification")
	}
	event, ok := changes[len(changes)-1].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("lsp: unexpected content change shape %T", changes[len(changes)-1])
	}
	text, ok := event["text"].(string)
	if !ok {
		return "", fmt.Errorf("lsp: content change has no text field")
	}
	return text, nil
}

func (h *Handler) reparseAndPublish(ctx *glsp.Context, uri string, text string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.content[path] = text
	h.mu.Unlock()

	_, parseErr := parser.ParseString(path, text)

	diags := diagnosticsFor(parseErr)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(uri),
		Diagnostics: diags,
	})
	return nil
}

// diagnosticsFor converts a *errors.CompilerError into the one-diagnostic
// slice this server ever publishes, or an empty slice on a clean parse
// (which clears any previously published error in the client).
func diagnosticsFor(err error) []protocol.Diagnostic {
	if err == nil {
		return []protocol.Diagnostic{}
	}
	ce, ok := err.(*errors.CompilerError)
	if !ok {
		return []protocol.Diagnostic{{
			Range:    protocol.Range{},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("noclock"),
			Message:  err.Error(),
		}}
	}

	line := uint32(0)
	col := uint32(0)
	if ce.Position.Line > 0 {
		line = uint32(ce.Position.Line - 1)
		col = uint32(ce.Position.Column - 1)
	}

	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + 1},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString(string(ce.Kind)),
		Message:  ce.Message,
	}}
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("lsp: invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string { return &s }
