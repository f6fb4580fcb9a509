package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for demo output.
var (
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue

	toolNameStyle = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray

	resultBlockStyle = lipgloss.NewStyle().PaddingLeft(2)
)
