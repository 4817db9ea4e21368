package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"tessera/internal/mcp"
)

func main() {
	s := server.NewMCPServer("tessera", "1.0.0")
	mcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
