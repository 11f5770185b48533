package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/codescout/scout/internal/config"
	"github.com/codescout/scout/internal/mcp"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server over stdio.

This lets AI agents request assembled context and validate documents
through MCP tools instead of spawning CLI commands. The project is
indexed once at startup and kept fresh by a polling file watcher, so
repeated requests skip rescanning.

Available Tools:
  scout_context    Assemble ranked code context for a task
  scout_validate   Score how completely a document covers a task

Diagnostics go to stderr; stdout carries the protocol.

Examples:
  scout serve                   # Serve current project
  scout serve --timeout 1h      # Auto-stop after an hour of inactivity
  scout serve --timeout 0       # Never time out
  scout serve --status          # Check if a server is running
  scout serve --stop            # Stop a running server`,
	RunE: runServe,
}

var (
	serveTimeout string
	serveStatus  bool
	serveStop    bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveTimeout, "timeout", "30m", "Inactivity timeout (0 for no timeout)")
	serveCmd.Flags().BoolVar(&serveStatus, "status", false, "Check if a server is running")
	serveCmd.Flags().BoolVar(&serveStop, "stop", false, "Stop a running server")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveStatus {
		return checkServerStatus()
	}
	if serveStop {
		return stopServer()
	}

	timeout, err := parseTimeout(serveTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}

	server, err := mcp.New(mcp.Config{
		ProjectRoot:  ".",
		Lister:       listerFromConfig(cfg),
		PollInterval: time.Duration(cfg.Watch.PollIntervalMS) * time.Millisecond,
		Debounce:     time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
		Timeout:      timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	server.SetLogger(stderrLogger("scout serve"))

	// PID file needs an initialized project; serving works without one
	if err := writePIDFile(); err != nil && verbose {
		fmt.Fprintf(os.Stderr, "scout serve: could not write PID file: %v\n", err)
	}
	defer removePIDFile()

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintf(os.Stderr, "\nscout serve: shutting down\n")
		server.Close()
		removePIDFile()
		os.Exit(0)
	}()

	fmt.Fprintf(os.Stderr, "scout serve: starting MCP server (tools: scout_context, scout_validate)\n")
	if timeout > 0 {
		fmt.Fprintf(os.Stderr, "scout serve: timeout: %v\n", timeout)
	}

	return server.ServeStdio()
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func getPIDFilePath() (string, error) {
	scoutDir, err := config.FindConfigDir(".")
	if err != nil {
		return "", err
	}
	return filepath.Join(scoutDir, "serve.pid"), nil
}

func writePIDFile() error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return err
	}
	return os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func removePIDFile() {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return
	}
	os.Remove(pidPath)
}

func checkServerStatus() error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		fmt.Println("Status: not running (scout not initialized)")
		return nil
	}

	data, err := os.ReadFile(pidPath)
	if err != nil {
		fmt.Println("Status: not running")
		return nil
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		fmt.Println("Status: not running (invalid PID file)")
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		fmt.Println("Status: not running")
		removePIDFile()
		return nil
	}

	// On Unix, FindProcess always succeeds, so send signal 0 to check
	err = process.Signal(syscall.Signal(0))
	if err != nil {
		fmt.Println("Status: not running (stale PID file)")
		removePIDFile()
		return nil
	}

	fmt.Printf("Status: running (PID %d)\n", pid)
	return nil
}

func stopServer() error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return fmt.Errorf("scout not initialized")
	}

	data, err := os.ReadFile(pidPath)
	if err != nil {
		fmt.Println("No server running")
		return nil
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		removePIDFile()
		return fmt.Errorf("invalid PID file")
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		removePIDFile()
		fmt.Println("No server running")
		return nil
	}

	// SIGTERM for graceful shutdown
	err = process.Signal(syscall.SIGTERM)
	if err != nil {
		removePIDFile()
		fmt.Println("Server already stopped")
		return nil
	}

	fmt.Printf("Stopped server (PID %d)\n", pid)
	return nil
}
