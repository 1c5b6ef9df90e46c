// Package main starts the noclock language server over stdio. Grounded on
// the teacher's cmd/kanso-lsp/main.go: same commonlog configuration and
// glsp.server.NewServer/RunStdio wiring, handler trimmed to the
// diagnostics-only subset internal/lsp.Handler implements.
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"noclock/internal/lsp"
)

const lsName = "noclock"

func main() {
	commonlog.Configure(1, nil)

	h := lsp.NewHandler()

	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting noclock LSP server...")
	if err := s.RunStdio(); err != nil {
		log.Println("Error starting noclock LSP server:", err)
		os.Exit(1)
	}
}
