// Copyright © 2026 The FXLINT authors

package lsp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonRPCRequest builds a JSON-RPC 2.0 request.
func jsonRPCRequest(id int, method string, params any) []byte {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	}
	b, _ := json.Marshal(msg)
	return b
}

// jsonRPCNotification builds a JSON-RPC 2.0 notification (no id).
func jsonRPCNotification(method string, params any) []byte {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	}
	b, _ := json.Marshal(msg)
	return b
}

// lspMessage wraps JSON content with the LSP Content-Length header.
func lspMessage(content []byte) []byte {
	return fmt.Appendf(nil, "Content-Length: %d\r\n\r\n%s", len(content), content)
}

// readLSPMessage reads a single LSP message from a buffered reader.
// Returns the parsed JSON as a map.
func readLSPMessage(t *testing.T, r *bufio.Reader) map[string]any {
	t.Helper()

	// Read headers until blank line.
	var contentLength int
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("failed to read LSP header: %v", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if val, ok := strings.CutPrefix(line, "Content-Length: "); ok {
			n, err := strconv.Atoi(val)
			require.NoError(t, err, "parsing Content-Length")
			contentLength = n
		}
	}
	require.Greater(t, contentLength, 0, "Content-Length must be positive")

	// Read content body.
	body := make([]byte, contentLength)
	_, err := io.ReadFull(r, body)
	require.NoError(t, err, "reading message body")

	var msg map[string]any
	require.NoError(t, json.Unmarshal(body, &msg), "parsing JSON body")
	return msg
}

// readResponse reads LSP messages until a response with the given id appears.
// Returns the response and any notifications received along the way.
func readResponse(t *testing.T, r *bufio.Reader, id int) (map[string]any, []map[string]any) {
	t.Helper()
	var notifications []map[string]any
	deadline := time.After(10 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for response id=%d", id)
		default:
		}
		msg := readLSPMessage(t, r)
		// If this message has the expected id, it's our response.
		if msgID, ok := msg["id"]; ok {
			var msgIDFloat float64
			switch v := msgID.(type) {
			case float64:
				msgIDFloat = v
			case json.Number:
				f, _ := v.Float64()
				msgIDFloat = f
			}
			if int(msgIDFloat) == id {
				return msg, notifications
			}
		}
		// Otherwise it's a notification (no id, or different id).
		notifications = append(notifications, msg)
	}
}

// e2eServer starts an LSP server on a random TCP port and returns the
// connection, the exit code recorder and a cleanup function.
func e2eServer(t *testing.T) (net.Conn, *atomic.Int32, func()) {
	t.Helper()

	srv := testServer(WithDebounce(20 * time.Millisecond))
	exitCode := &atomic.Int32{}
	exitCode.Store(-1)
	srv.exitFn = func(code int) { exitCode.Store(int32(code)) }

	// Find a free port.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	_ = listener.Close()

	go func() {
		_ = srv.RunTCP(addr)
	}()

	// Give server a moment to start listening, then connect.
	var conn net.Conn
	for range 50 {
		conn, err = net.Dial("tcp", addr)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err, "failed to connect to LSP server at %s", addr)

	cleanup := func() {
		_ = conn.Close()
	}
	return conn, exitCode, cleanup
}

// initializeSession performs the initialize handshake and returns the
// initialize result.
func initializeSession(t *testing.T, conn net.Conn, reader *bufio.Reader) map[string]any {
	t.Helper()
	send(t, conn, jsonRPCRequest(1, "initialize", map[string]any{
		"capabilities": map[string]any{},
		"rootUri":      "file:///tmp/e2e",
	}))
	resp, _ := readResponse(t, reader, 1)
	send(t, conn, jsonRPCNotification("initialized", map[string]any{}))
	return resp["result"].(map[string]any)
}

// waitForDiagnostics reads messages until diagnostics for uri arrive.
func waitForDiagnostics(t *testing.T, reader *bufio.Reader, uri string) []any {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for diagnostics notification")
		default:
		}
		msg := readLSPMessage(t, reader)
		if method, _ := msg["method"].(string); method != "textDocument/publishDiagnostics" {
			continue
		}
		params := msg["params"].(map[string]any)
		if params["uri"] == uri {
			return params["diagnostics"].([]any)
		}
	}
}

func openNotification(uri, text string) []byte {
	return jsonRPCNotification("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{
			"uri":        uri,
			"languageId": "powerfx",
			"version":    1,
			"text":       text,
		},
	})
}

func positionParams(uri string, line, char int) map[string]any {
	return map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]any{"line": line, "character": char},
	}
}

// send writes an LSP message to the connection.
func send(t *testing.T, conn net.Conn, data []byte) {
	t.Helper()
	_, err := conn.Write(lspMessage(data))
	require.NoError(t, err, "writing LSP message")
}

func TestE2E_FullLifecycle(t *testing.T) {
	conn, exitCode, cleanup := e2eServer(t)
	defer cleanup()

	reader := bufio.NewReader(conn)

	testURI := "file:///tmp/e2e/app.fx"
	testContent := "Set(total, Sum(Orders, Amount));\nIf(total > 100, Notify(\"big\"), Notify(\"small\"))\n"

	// --- Step 1: Initialize ---
	result := initializeSession(t, conn, reader)
	caps := result["capabilities"].(map[string]any)
	assert.NotNil(t, caps["hoverProvider"], "should have hover")
	assert.NotNil(t, caps["completionProvider"], "should have completion")
	assert.NotNil(t, caps["documentSymbolProvider"], "should have document symbols")
	assert.NotNil(t, caps["signatureHelpProvider"], "should have signature help")
	assert.NotNil(t, caps["codeActionProvider"], "should have code actions")
	assert.NotNil(t, caps["semanticTokensProvider"], "should have semantic tokens")
	assert.Nil(t, caps["definitionProvider"])

	serverInfo := result["serverInfo"].(map[string]any)
	assert.Equal(t, "fxlint-lsp", serverInfo["name"])

	// --- Step 2: Open document ---
	send(t, conn, openNotification(testURI, testContent))
	waitForDiagnostics(t, reader, testURI)

	// --- Step 3: Hover on "Sum" ---
	send(t, conn, jsonRPCRequest(2, "textDocument/hover", positionParams(testURI, 0, 12)))
	hoverResp, _ := readResponse(t, reader, 2)
	require.NotNil(t, hoverResp["result"], "hover should return a result")
	hoverContents := hoverResp["result"].(map[string]any)["contents"].(map[string]any)
	hoverValue := hoverContents["value"].(string)
	assert.Contains(t, hoverValue, "Sum(table, formula)")
	assert.Equal(t, "markdown", hoverContents["kind"])

	// --- Step 4: Document Symbols ---
	send(t, conn, jsonRPCRequest(3, "textDocument/documentSymbol", map[string]any{
		"textDocument": map[string]any{"uri": testURI},
	}))
	symResp, _ := readResponse(t, reader, 3)
	syms := symResp["result"].([]any)
	require.Len(t, syms, 2, "one symbol per statement")
	children := syms[0].(map[string]any)["children"].([]any)
	require.Len(t, children, 1)
	assert.Equal(t, "Set", children[0].(map[string]any)["name"])

	// --- Step 5: Signature help inside Sum ---
	send(t, conn, jsonRPCRequest(4, "textDocument/signatureHelp", positionParams(testURI, 0, 23)))
	sigResp, _ := readResponse(t, reader, 4)
	require.NotNil(t, sigResp["result"], "signature help should return a result")
	sig := sigResp["result"].(map[string]any)
	assert.Equal(t, float64(1), sig["activeParameter"])

	// --- Step 6: Change document; diagnostics follow the debounce ---
	send(t, conn, jsonRPCNotification("textDocument/didChange", map[string]any{
		"textDocument": map[string]any{"uri": testURI, "version": 2},
		"contentChanges": []any{
			map[string]any{"text": "Filt("},
		},
	}))
	diags := waitForDiagnostics(t, reader, testURI)
	require.NotEmpty(t, diags)

	// --- Step 7: Completion on the new content ---
	send(t, conn, jsonRPCRequest(5, "textDocument/completion", positionParams(testURI, 0, 4)))
	compResp, _ := readResponse(t, reader, 5)
	var compLabels []string
	for _, item := range compResp["result"].([]any) {
		compLabels = append(compLabels, item.(map[string]any)["label"].(string))
	}
	assert.Contains(t, compLabels, "Filter")

	// --- Step 8: Close document ---
	send(t, conn, jsonRPCNotification("textDocument/didClose", map[string]any{
		"textDocument": map[string]any{"uri": testURI},
	}))
	assert.Empty(t, waitForDiagnostics(t, reader, testURI))

	// --- Step 9: Shutdown ---
	send(t, conn, jsonRPCRequest(99, "shutdown", nil))
	shutdownResp, _ := readResponse(t, reader, 99)
	assert.Nil(t, shutdownResp["error"], "shutdown should not error")

	// --- Step 10: Exit ---
	send(t, conn, jsonRPCNotification("exit", nil))
	assert.Eventually(t, func() bool { return exitCode.Load() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestE2E_DiagnosticsPublishedOnOpen(t *testing.T) {
	conn, _, cleanup := e2eServer(t)
	defer cleanup()

	reader := bufio.NewReader(conn)
	testURI := "file:///tmp/e2e/broken.fx"
	initializeSession(t, conn, reader)

	send(t, conn, openNotification(testURI, "Filter(Table1, Age > 30"))
	diags := waitForDiagnostics(t, reader, testURI)
	require.NotEmpty(t, diags, "an unclosed paren should produce diagnostics")

	var found bool
	for _, d := range diags {
		diag := d.(map[string]any)
		if diag["severity"] == float64(1) && diag["code"] == "syntax" {
			found = true
			start := diag["range"].(map[string]any)["start"].(map[string]any)
			assert.Equal(t, float64(6), start["character"])
			assert.Equal(t, "fxlint", diag["source"])
		}
	}
	assert.True(t, found, "should have a syntax error diagnostic")

	send(t, conn, jsonRPCRequest(99, "shutdown", nil))
	readResponse(t, reader, 99)
}

func TestE2E_CodeAction(t *testing.T) {
	conn, _, cleanup := e2eServer(t)
	defer cleanup()

	reader := bufio.NewReader(conn)
	testURI := "file:///tmp/e2e/style.fx"
	initializeSession(t, conn, reader)

	send(t, conn, openNotification(testURI, "sum(Orders, Amount)"))
	diags := waitForDiagnostics(t, reader, testURI)

	var style map[string]any
	for _, d := range diags {
		if diag := d.(map[string]any); diag["code"] == "style" {
			style = diag
		}
	}
	require.NotNil(t, style, "expected a style diagnostic")

	send(t, conn, jsonRPCRequest(2, "textDocument/codeAction", map[string]any{
		"textDocument": map[string]any{"uri": testURI},
		"range":        style["range"],
		"context":      map[string]any{"diagnostics": []any{style}},
	}))
	resp, _ := readResponse(t, reader, 2)
	actions := resp["result"].([]any)
	require.Len(t, actions, 2)
	fix := actions[0].(map[string]any)
	assert.Equal(t, "Replace sum with Sum", fix["title"])
	edits := fix["edit"].(map[string]any)["changes"].(map[string]any)[testURI].([]any)
	require.Len(t, edits, 1)
	assert.Equal(t, "Sum", edits[0].(map[string]any)["newText"])

	send(t, conn, jsonRPCRequest(99, "shutdown", nil))
	readResponse(t, reader, 99)
}

func TestE2E_HoverOnWhitespace(t *testing.T) {
	conn, _, cleanup := e2eServer(t)
	defer cleanup()

	reader := bufio.NewReader(conn)
	testURI := "file:///tmp/e2e/space.fx"
	initializeSession(t, conn, reader)

	send(t, conn, openNotification(testURI, "Len(   \"x\")"))
	waitForDiagnostics(t, reader, testURI)

	send(t, conn, jsonRPCRequest(2, "textDocument/hover", positionParams(testURI, 0, 5)))
	resp, _ := readResponse(t, reader, 2)
	assert.Nil(t, resp["result"], "hover on whitespace should be null")
	assert.Nil(t, resp["error"])

	send(t, conn, jsonRPCRequest(99, "shutdown", nil))
	readResponse(t, reader, 99)
}

func TestE2E_SemanticTokens(t *testing.T) {
	conn, _, cleanup := e2eServer(t)
	defer cleanup()

	reader := bufio.NewReader(conn)
	testURI := "file:///tmp/e2e/tokens.fx"
	result := initializeSession(t, conn, reader)
	provider := result["capabilities"].(map[string]any)["semanticTokensProvider"].(map[string]any)
	legend := provider["legend"].(map[string]any)
	assert.Contains(t, legend["tokenTypes"], "function")

	send(t, conn, openNotification(testURI, "Len(x)"))
	waitForDiagnostics(t, reader, testURI)

	send(t, conn, jsonRPCRequest(2, "textDocument/semanticTokens/full", map[string]any{
		"textDocument": map[string]any{"uri": testURI},
	}))
	resp, _ := readResponse(t, reader, 2)
	data := resp["result"].(map[string]any)["data"].([]any)
	// Len (function, default library) and x (variable).
	assert.Equal(t, []any{
		float64(0), float64(0), float64(3), float64(semTokenFunction), float64(semModDefaultLibrary),
		float64(0), float64(4), float64(1), float64(semTokenVariable), float64(0),
	}, data)

	send(t, conn, jsonRPCRequest(99, "shutdown", nil))
	readResponse(t, reader, 99)
}
