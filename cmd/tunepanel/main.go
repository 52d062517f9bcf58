package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/haryoiro/tunepanel/internal/cli"
)

var errorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#f7768e")).
	Bold(true)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}
