// codesearchd serves spec.md §6's four operations over MCP stdio.
// Grounded on the teacher's cmd/lci/main.go: an urfave/cli app wrapping
// a single mcpCommand action, signal-driven graceful shutdown racing
// the server's error channel against SIGINT/SIGTERM, and a bounded
// forced-exit timer if the stdio transport doesn't unwind in time.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/codesearch/internal/diag"
	"github.com/standardbeagle/codesearch/internal/mcptools"
	"github.com/standardbeagle/codesearch/internal/pathvalidate"
	"github.com/standardbeagle/codesearch/internal/session"
	"github.com/standardbeagle/codesearch/internal/toolconfig"
)

// version is set at build time via -ldflags, matching the teacher's
// version.Version pattern but without a dedicated package for a single
// constant.
var version = "dev"

func newTestApp() *cli.App {
	return &cli.App{
		Name:    "codesearchd",
		Usage:   "MCP server for cancellable, streaming code search sessions",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Project root containing .codesearch.kdl (defaults to the current directory)",
				Value: ".",
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "Convenience single allowed root directory; overrides .codesearch.kdl's paths.allow entirely",
			},
			&cli.StringFlag{
				Name:  "transport",
				Usage: "Transport to serve over",
				Value: "stdio",
			},
			&cli.StringSliceFlag{
				Name:  "deny",
				Usage: "Denied root directory for search sessions (repeatable); appended to .codesearch.kdl's paths.deny",
			},
		},
		Action: run,
	}
}

func main() {
	if err := newTestApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "codesearchd: %v\n", err)
		os.Exit(1)
	}
}

// resolvePathLists merges the daemon's .codesearch.kdl defaults with
// CLI overrides: --root replaces the config's allow list entirely with
// a single directory (an operator passing it on the command line means
// it, fully), while --deny is additive, matching
// loadConfigWithOverrides' --exclude append-don't-replace behavior.
func resolvePathLists(cfg *toolconfig.Config, flagRoot string, flagDeny []string) (allowed, denied []string) {
	allowed = cfg.AllowedDirs
	if flagRoot != "" {
		allowed = []string{flagRoot}
	}
	denied = append(append([]string{}, cfg.DeniedDirs...), flagDeny...)
	return allowed, denied
}

func run(c *cli.Context) error {
	diag.SetStdioMode(true)

	if transport := c.String("transport"); transport != "stdio" {
		return fmt.Errorf("unsupported transport %q: only \"stdio\" is served (spec.md's core has no CLI-layer transport choice beyond stdio)", transport)
	}

	configRoot, err := filepath.Abs(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to resolve config root: %w", err)
	}

	cfg, err := toolconfig.Load(configRoot)
	if err != nil {
		return fmt.Errorf("failed to load .codesearch.kdl: %w", err)
	}

	allowed, denied := resolvePathLists(cfg, c.String("root"), c.StringSlice("deny"))

	validator := pathvalidate.New(allowed, denied)
	mgr := session.NewManager(validator)
	defer mgr.Stop()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "codesearchd",
		Version: version,
	}, nil)
	mcptools.Register(server, mgr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		diag.Printf("codesearchd: starting MCP server over stdio")
		errChan <- server.Run(ctx, &mcp.StdioTransport{})
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		diag.Printf("codesearchd: received %v, shutting down", sig)
		cancel()

		shutdownTimer := time.NewTimer(2 * time.Second)
		defer shutdownTimer.Stop()

		select {
		case err := <-errChan:
			return err
		case <-shutdownTimer.C:
			diag.Warnf("codesearchd: graceful shutdown timed out, forcing exit")
			os.Stdin.Close()
			return nil
		}
	}
}
