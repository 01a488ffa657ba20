// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6C7086")
	colorError   = lipgloss.Color("#F38BA8")
	colorLink    = lipgloss.Color("#06B6D4")
	colorBorder  = lipgloss.Color("#45475A")
)

// Styles holds the lipgloss styles used by the model.
type Styles struct {
	Header  lipgloss.Style
	Input   lipgloss.Style
	Status  lipgloss.Style
	Error   lipgloss.Style
	Title   lipgloss.Style
	Score   lipgloss.Style
	Authors lipgloss.Style
	Link    lipgloss.Style
	Card    lipgloss.Style
	Help    lipgloss.Style
}

// DefaultStyles returns the default look.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary),
		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		Status:  lipgloss.NewStyle().Foreground(colorMuted),
		Error:   lipgloss.NewStyle().Foreground(colorError),
		Title:   lipgloss.NewStyle().Bold(true),
		Score:   lipgloss.NewStyle().Foreground(colorMuted),
		Authors: lipgloss.NewStyle().Foreground(colorMuted),
		Link:    lipgloss.NewStyle().Foreground(colorLink).Underline(true),
		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			MarginBottom(1),
		Help: lipgloss.NewStyle().Foreground(colorMuted),
	}
}
