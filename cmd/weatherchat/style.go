package main

import "github.com/charmbracelet/lipgloss"

const botName = "d[o_0]b"

type Style struct {
	Title  lipgloss.Style
	Prompt lipgloss.Style
	Bot    lipgloss.Style
	Tool   lipgloss.Style
	Error  lipgloss.Style
	Dim    lipgloss.Style
}

func DefaultStyles() *Style {
	return &Style{
		Title:  lipgloss.NewStyle().Bold(true),
		Prompt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#B58900", Dark: "#FFFF55"}),
		Bot:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#228B22", Dark: "#55FF55"}),
		Tool:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1E5AA8", Dark: "#5555FF"}),
		Error:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#C00000", Dark: "#FF5555"}),
		Dim:    lipgloss.NewStyle().Faint(true),
	}
}

// PlainStyles renders without any escape codes.
func PlainStyles() *Style {
	s := lipgloss.NewStyle()
	return &Style{Title: s, Prompt: s, Bot: s, Tool: s, Error: s, Dim: s}
}

// speaker renders the bot tag, e.g. "d[o_0]b[Tool: None]:".
func (s *Style) speaker(tool string) string {
	if tool == "" {
		tool = "None"
	}
	return s.Bot.Render(botName) + s.Tool.Render("[Tool: "+tool+"]:")
}
