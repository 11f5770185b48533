// Package mcp provides an MCP (Model Context Protocol) server for scout.
// This allows AI agents to request assembled context and validate documents
// through MCP tools instead of CLI commands.
package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/codescout/scout/internal/assemble"
	"github.com/codescout/scout/internal/index"
	"github.com/codescout/scout/internal/output"
	"github.com/codescout/scout/internal/scan"
	"github.com/codescout/scout/internal/validate"
	"github.com/codescout/scout/internal/watcher"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with scout-specific functionality. It keeps
// a live index of the project and serves context requests from snapshots,
// so repeated tool calls do not rescan unchanged files.
type Server struct {
	mcpServer    *server.MCPServer
	assembler    *assemble.Assembler
	idx          *index.Index
	watch        *watcher.Watcher
	projectRoot  string
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
	logFunc      func(format string, args ...interface{})
}

// Config holds server configuration.
type Config struct {
	ProjectRoot  string        // Project to serve (empty = current directory)
	Lister       *scan.Lister  // File discovery settings (nil = defaults)
	PollInterval time.Duration // Watcher poll interval (0 = default)
	Debounce     time.Duration // Watcher change conflation window (0 = default)
	Timeout      time.Duration // Inactivity timeout (0 = no timeout)
}

// New creates a new MCP server for scout. It lists and indexes the project
// up front so the first tool call is served from memory.
func New(cfg Config) (*Server, error) {
	root := cfg.ProjectRoot
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve project root: %w", err)
	}

	lister := cfg.Lister
	if lister == nil {
		lister = &scan.Lister{}
	}

	listed, err := lister.List(absRoot)
	if err != nil {
		return nil, fmt.Errorf("cannot list project files: %w", err)
	}

	idx := index.New(absRoot)
	idx.Build(listed.Paths)

	s := &Server{
		mcpServer: server.NewMCPServer(
			"scout",
			"1.0.0",
			server.WithToolCapabilities(false),
		),
		assembler:    assemble.NewWithIndex(idx, lister),
		idx:          idx,
		projectRoot:  absRoot,
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	// Change batches flow straight into the index; the next context
	// request sees the updated facts without rescanning.
	s.watch = watcher.New(absRoot, lister, cfg.PollInterval, cfg.Debounce, func(paths []string) {
		idx.Refresh(paths)
		s.log("index refreshed: %d paths", len(paths))
	})

	s.registerContextTool()
	s.registerValidateTool()

	return s, nil
}

// SetLogger sets a logging function for diagnostics. Stdout carries the
// MCP protocol, so callers should log to stderr or a file. The logger is
// shared with the assembler and the watcher.
func (s *Server) SetLogger(logFunc func(format string, args ...interface{})) {
	s.logFunc = logFunc
	s.assembler.SetLogger(logFunc)
	s.watch.SetLogger(logFunc)
}

func (s *Server) log(format string, args ...interface{}) {
	if s.logFunc != nil {
		s.logFunc(format, args...)
	}
}

// ServeStdio starts the file watcher and serves MCP over stdio until the
// client disconnects or the inactivity timeout fires.
func (s *Server) ServeStdio() error {
	if err := s.watch.Start(); err != nil {
		return fmt.Errorf("cannot watch project: %w", err)
	}
	defer s.watch.Stop()

	s.log("serving %s: %d files indexed", s.projectRoot, s.idx.Len())

	if s.timeout > 0 {
		go s.timeoutChecker()
	}

	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded.
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			fmt.Fprintf(os.Stderr, "scout serve: timeout after %v of inactivity\n", s.timeout)
			os.Exit(0)
		}
	}
}

// updateActivity updates the last activity timestamp.
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// Close stops the file watcher. Safe to call whether or not ServeStdio ran.
func (s *Server) Close() error {
	s.watch.Stop()
	return nil
}

// registerContextTool registers the scout_context tool.
func (s *Server) registerContextTool() {
	tool := mcp.NewTool("scout_context",
		mcp.WithDescription("Assemble ranked code context for a task. Returns a markdown document with relevant file contents, a dependency graph, and usage patterns, plus structured metadata."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural language description of the task"),
		),
		mcp.WithString("projectRoot",
			mcp.Description("Project directory to analyze (default: server project root)"),
		),
		mcp.WithString("scope",
			mcp.Description("Keep only files with declarations of this kind: function or class"),
		),
		mcp.WithString("completeness",
			mcp.Description("Budget preset: minimal, balanced, or thorough (default: balanced)"),
		),
		mcp.WithNumber("maxTokens",
			mcp.Description("Explicit token budget, overrides the completeness preset"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleContext)
}

// registerValidateTool registers the scout_validate tool.
func (s *Server) registerValidateTool() {
	tool := mcp.NewTool("scout_validate",
		mcp.WithDescription("Score how completely a context document covers a task. Returns completeness and confidence scores, missing elements, and suggestions."),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("Context document to score"),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Task the document is meant to support"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleValidate)
}

// Tool handlers

func (s *Server) handleContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	projectRoot, _ := args["projectRoot"].(string)
	scope, _ := args["scope"].(string)
	completeness, _ := args["completeness"].(string)

	maxTokens := 0
	if m, ok := args["maxTokens"].(float64); ok {
		maxTokens = int(m)
	}

	result, err := s.executeContext(query, projectRoot, scope, completeness, maxTokens)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	document, ok := args["document"].(string)
	if !ok || document == "" {
		return mcp.NewToolResultError("document parameter is required"), nil
	}
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	result, err := s.executeValidate(document, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}

// Tool execution

func (s *Server) executeContext(query, projectRoot, scope, completeness string, maxTokens int) (string, error) {
	if projectRoot == "" {
		projectRoot = s.projectRoot
	}

	result := s.assembler.Assemble(&assemble.Request{
		Query:        query,
		ProjectRoot:  projectRoot,
		Scope:        scope,
		Completeness: completeness,
		MaxTokens:    maxTokens,
	})
	s.log("context %s: %d files, ~%d tokens", result.RequestID, result.Metadata.FileCount, result.Metadata.TokenEstimate)

	return output.Marshal(result, output.FormatJSON)
}

func (s *Server) executeValidate(document, query string) (string, error) {
	result := validate.Score(document, query)
	s.log("validate: completeness %.2f, confidence %.2f", result.Score, result.Confidence)

	return output.Marshal(result, output.FormatJSON)
}
