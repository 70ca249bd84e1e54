package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const ruleWidth = 60

// Styles is the palette shared by the line renderer and the TUI.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Book    lipgloss.Style
	Label   lipgloss.Style
	Removed lipgloss.Style
	Added   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
}

// NewStyles builds the palette for r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4")),
		Book:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#A8DADC")),
		Label:   r.NewStyle().Foreground(lipgloss.Color("#FFE66D")),
		Removed: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		Added:   r.NewStyle().Foreground(lipgloss.Color("#95E1A3")),
		Success: r.NewStyle().Foreground(lipgloss.Color("#95E1A3")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("#FFE66D")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		Dim:     r.NewStyle().Foreground(lipgloss.Color("#6C757D")),
	}
}

// DefaultStyles uses lipgloss's default renderer.
func DefaultStyles() Styles {
	return NewStyles(lipgloss.DefaultRenderer())
}

// Renderer writes report sections as plain terminal lines. Colors are
// dropped automatically when w is not a terminal.
type Renderer struct {
	w io.Writer
	s Styles
}

// NewRenderer creates a Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w, s: NewStyles(lipgloss.NewRenderer(w))}
}

// NewRendererWithStyles creates a Renderer writing to w with a fixed
// palette, for callers that render into a buffer but display on a
// terminal.
func NewRendererWithStyles(w io.Writer, s Styles) *Renderer {
	return &Renderer{w: w, s: s}
}

// Styles returns the renderer's palette.
func (r *Renderer) Styles() Styles { return r.s }

// Section prints a rule-framed, centered heading.
func (r *Renderer) Section(title string, style lipgloss.Style) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(r.w, "\n%s\n%s\n%s\n", style.Render(rule), style.Render(center(title, ruleWidth)), style.Render(rule))
}

// Stats prints the LIBRARY STATISTICS section.
func (r *Renderer) Stats(v StatsView) {
	r.Section("LIBRARY STATISTICS", r.s.Header)
	fmt.Fprintf(r.w, "  Books:           %d\n", v.Books)
	fmt.Fprintf(r.w, "  Authors:         %d\n", v.Authors)
	fmt.Fprintf(r.w, "  Narrators:       %d\n", v.Narrators)
	fmt.Fprintf(r.w, "  Series:          %d\n", v.Series)
	fmt.Fprintf(r.w, "  Standalone:      %d\n", v.Standalone)
	fmt.Fprintf(r.w, "  Total Play Time: %s\n", v.PlayTime)
	fmt.Fprintf(r.w, "  Library Size:    %s\n", v.Size)
}

// AlreadyTidy prints the message shown when no book needs work.
func (r *Renderer) AlreadyTidy() {
	r.Section("GREAT NEWS", r.s.Success)
	fmt.Fprintf(r.w, "\n%s\n", r.s.Success.Bold(true).Render(center("YOUR LIBRARY IS ALREADY TIDY!", ruleWidth)))
}

// Proposed prints the PROPOSED CHANGES section for every plan.
func (r *Renderer) Proposed(views []PlanView) {
	r.Section("PROPOSED CHANGES", r.s.Header)
	for _, v := range views {
		r.Plan(v, "")
	}
}

// Plan prints one book's changes. counter, such as "[2/7]", prefixes the
// title when set.
func (r *Renderer) Plan(v PlanView, counter string) {
	title := strings.ToUpper(v.Title)
	if counter != "" {
		title = counter + " " + title
	}
	fmt.Fprintf(r.w, "\n%s\n", r.s.Book.Render(title))

	if v.Folder != nil {
		fmt.Fprintf(r.w, "  %s %s\n", r.s.Label.Render("[FOLDER]"), r.s.Removed.Render("-"+v.Folder.Old))
		fmt.Fprintf(r.w, "           %s\n", r.s.Added.Render("+"+v.Folder.New))
	}
	for _, f := range v.Files {
		fmt.Fprintf(r.w, "    %s %s\n", r.s.Label.Render("[FILE]"), r.s.Removed.Render("-"+f.Old))
		fmt.Fprintf(r.w, "           %s\n", r.s.Added.Render("+"+f.New))
	}
}

// Menu prints the EXECUTION section with the session choices.
func (r *Renderer) Menu(books int) {
	r.Section("EXECUTION", r.s.Header)
	fmt.Fprintf(r.w, "  Found %d books to tidy.\n", books)
	fmt.Fprintf(r.w, "\n  [1] Apply ALL   [2] Review One-by-One   [3] Exit\n")
}

// ConfirmPrompt returns the per-book review prompt.
func (r *Renderer) ConfirmPrompt() string {
	key := r.s.Label.Bold(true)
	return fmt.Sprintf("\n  Apply Changes?  [%s] for Yes   [%s] for No   [%s] to Quit: ",
		key.Render("Y"), key.Render("N"), key.Render("Q"))
}

// Applied prints the per-book confirmation used in review mode.
func (r *Renderer) Applied() {
	fmt.Fprintf(r.w, "  %s\n", r.s.Success.Render("✓ Applied."))
}

// Results prints the RESULTS section.
func (r *Renderer) Results(v ResultsView) {
	style := r.s.Success
	if !v.Clean() {
		style = r.s.Warning
	}
	r.Section("RESULTS", style)
	fmt.Fprintf(r.w, "  Applied:    %s\n", r.s.Success.Render(fmt.Sprint(v.Applied)))
	fmt.Fprintf(r.w, "  Skipped:    %s\n", r.s.Warning.Render(fmt.Sprint(v.Skipped)))

	if len(v.Collisions) > 0 {
		fmt.Fprintf(r.w, "  Collisions: %s (Files already at target)\n", r.s.Error.Render(fmt.Sprint(len(v.Collisions))))
		for _, name := range v.Collisions {
			fmt.Fprintf(r.w, "    %s\n", r.s.Dim.Render("- "+name))
		}
	}
	if v.Errors > 0 {
		fmt.Fprintf(r.w, "  Errors:     %s\n", r.s.Error.Render(fmt.Sprint(v.Errors)))
	}
	if v.Aborted {
		fmt.Fprintf(r.w, "  %s\n", r.s.Warning.Render("Stopped before every book was considered."))
	}

	fmt.Fprintf(r.w, "\n  Log: %s\n\n", r.s.Dim.Render(v.LogPath))
}

// Exited prints the message for leaving without changes.
func (r *Renderer) Exited() {
	fmt.Fprintf(r.w, "\n%s\n\n", r.s.Warning.Render("Exited."))
}

func center(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
