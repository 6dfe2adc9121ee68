package main

import "github.com/scamlens/scamlens/cmd"

// execCmd is indirected so tests can verify main wiring without running the CLI.
var execCmd = cmd.Execute

func main() {
	execCmd()
}
