// Package main is the entry point for the scrimstats CLI, which loads a
// Valorant event participation sheet and reports player, map, agent and team
// statistics in the terminal or as a web dashboard.
package main

import "github.com/pable/scrimstats/cmd"

func main() {
	cmd.Execute()
}
