package main

import "github.com/helix-anywhere/helix-anywhere/cmd"

func main() {
	cmd.Execute()
}
