package main

import (
	"fmt"
	"log"
	"sync"

	"github.com/treeform/nimmy/nimmy"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "nimmy-ls"

var (
	version string = "0.1.0"
	handler protocol.Handler

	documentsMutex sync.RWMutex
	documents      = make(map[string]string)
)

func main() {
	commonlog.Configure(1, nil)

	handler = protocol.Handler{
		Initialize:             initialize,
		Initialized:            initialized,
		Shutdown:               shutdown,
		SetTrace:               setTrace,
		TextDocumentDidOpen:    textDocumentDidOpen,
		TextDocumentDidChange:  textDocumentDidChange,
		TextDocumentDidClose:   textDocumentDidClose,
		TextDocumentCompletion: textDocumentCompletion,
	}

	s := server.NewServer(&handler, lsName, false)
	s.RunStdio()
}

func initialize(context *glsp.Context, params *protocol.InitializeParams) (interface{}, error) {
	capabilities := handler.CreateServerCapabilities()
	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &[]bool{true}[0],
		Change:    &syncKind,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func shutdown(context *glsp.Context) error {
	return nil
}

func setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func textDocumentDidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	documentsMutex.Lock()
	documents[params.TextDocument.URI] = params.TextDocument.Text
	documentsMutex.Unlock()
	go publishDiagnostics(context, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func textDocumentDidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	content := params.ContentChanges[0].(protocol.TextDocumentContentChangeEventWhole).Text

	documentsMutex.Lock()
	documents[params.TextDocument.URI] = content
	documentsMutex.Unlock()

	go publishDiagnostics(context, params.TextDocument.URI, content)
	return nil
}

func textDocumentDidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	documentsMutex.Lock()
	delete(documents, params.TextDocument.URI)
	documentsMutex.Unlock()
	return nil
}

func textDocumentCompletion(context *glsp.Context, params *protocol.CompletionParams) (interface{}, error) {
	documentsMutex.RLock()
	content, ok := documents[params.TextDocument.URI]
	documentsMutex.RUnlock()

	if !ok {
		return protocol.CompletionList{IsIncomplete: false, Items: []protocol.CompletionItem{}}, nil
	}

	items := []protocol.CompletionItem{}
	seen := make(map[string]bool)

	kindFunc := protocol.CompletionItemKindFunction
	for name := range nimmy.Builtins {
		if seen[name] {
			continue
		}
		detail := nimmy.BuiltinDocs[name]
		items = append(items, protocol.CompletionItem{
			Label:  name,
			Kind:   &kindFunc,
			Detail: &detail,
		})
		seen[name] = true
	}

	kindKeyword := protocol.CompletionItemKindKeyword
	detailKeyword := "keyword"
	for _, keyword := range nimmy.GetAllKeywords() {
		if seen[keyword] {
			continue
		}
		items = append(items, protocol.CompletionItem{
			Label:  keyword,
			Kind:   &kindKeyword,
			Detail: &detailKeyword,
		})
		seen[keyword] = true
	}

	program, err := nimmy.ParseSource(content)
	if err != nil {
		log.Printf("completion running with parse error: %v", err)
	}
	if program != nil {
		cursorLine := int(params.Position.Line) + 1
		kindVar := protocol.CompletionItemKindVariable
		nimmy.Walk(program, nimmy.WalkFunc(func(node nimmy.Node) {
			decl, ok := node.(*nimmy.DeclStmt)
			if !ok || seen[decl.Name.Value] {
				return
			}
			if decl.Token.Loc.Line >= cursorLine {
				return
			}
			specifier := "var"
			if decl.IsConst {
				specifier = "let"
			}
			detail := fmt.Sprintf("%s %s", specifier, decl.Name.Value)
			items = append(items, protocol.CompletionItem{
				Label:  decl.Name.Value,
				Kind:   &kindVar,
				Detail: &detail,
			})
			seen[decl.Name.Value] = true
		}))
	}

	return protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

func publishDiagnostics(context *glsp.Context, uri string, content string) {
	diagnostics := []protocol.Diagnostic{}
	severity := protocol.DiagnosticSeverityError

	_, err := nimmy.ParseSource(content)
	if err != nil {
		source := lsName
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    lspRangeFromLoc(err.GetLocation()),
			Severity: &severity,
			Source:   &source,
			Message:  err.Error(),
		})
	}

	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func lspRangeFromLoc(loc nimmy.Loc) protocol.Range {
	line := loc.Line - 1
	if line < 0 {
		line = 0
	}
	startChar := loc.Col - 1
	if startChar < 0 {
		startChar = 0
	}
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(startChar)},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(startChar + 1)},
	}
}
