// Command oncemcp serves the 1NCE IoT management API as MCP tools, resources,
// and prompts, and offers client subcommands to inspect and call them.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
