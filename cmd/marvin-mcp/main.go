// Marvin-MCP: Amazing Marvin MCP Server
//
// An MCP server that exposes an Amazing Marvin task database (served
// over its CouchDB sync endpoint) to AI assistants, using compact
// friendly IDs so the model never has to juggle raw document IDs.
//
// Usage:
//
//	marvin-mcp serve    # Start MCP server (stdio transport)
//	marvin-mcp update   # Update to the latest version
//
// Configuration comes from the environment: DB_NAME, DB_URL,
// DB_USERNAME and DB_PASSWORD, as shown in Amazing Marvin's sync
// settings.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"

	mcpserver "github.com/marvin-tools/marvin-mcp/internal/server"
	"github.com/marvin-tools/marvin-mcp/internal/updater"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "update":
		runUpdate()
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("marvin-mcp v%s\n", mcpserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	// Startup work (connectivity check, friendly-ID seeding) gets a
	// bounded context; the stdio server then manages its own lifecycle.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := mcpserver.New(ctx)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Version notice goes to stderr so it cannot corrupt the MCP
	// stdio transport on stdout.
	go func() {
		st := updater.Check(mcpserver.Version)
		if st.UpdateAvailable {
			fmt.Fprintf(os.Stderr,
				"\nUpdate available: v%s -> v%s\nRun: marvin-mcp update\nRelease: %s\n\n",
				st.CurrentVersion, st.LatestVersion, st.ReleaseURL)
		}
	}()

	return server.ServeStdio(s)
}

// runUpdate performs a self-update to the latest release.
func runUpdate() {
	st := updater.Check(mcpserver.Version)
	if !st.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "Already at the latest version (v%s)\n", st.CurrentVersion)
		return
	}

	fmt.Fprintf(os.Stderr, "Updating v%s -> v%s...\n", st.CurrentVersion, st.LatestVersion)
	if err := updater.SelfUpdate(mcpserver.Version); err != nil {
		fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
		if st.ReleaseURL != "" {
			fmt.Fprintf(os.Stderr, "Download manually from: %s\n", st.ReleaseURL)
		}
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Updated to v%s. Restart marvin-mcp to use the new version.\n", st.LatestVersion)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Marvin-MCP v%s — Amazing Marvin MCP Server

Usage:
  marvin-mcp serve    Start the MCP server (stdio transport)
  marvin-mcp update   Update to the latest version

Environment:
  DB_NAME       CouchDB database name (from Marvin's sync settings)
  DB_URL        CouchDB base URL
  DB_USERNAME   CouchDB user
  DB_PASSWORD   CouchDB password

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "marvin": {
        "command": "marvin-mcp",
        "args": ["serve"],
        "env": {
          "DB_NAME": "...",
          "DB_URL": "...",
          "DB_USERNAME": "...",
          "DB_PASSWORD": "..."
        }
      }
    }
  }
`, mcpserver.Version)
}
