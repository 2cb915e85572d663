// Package report renders the migration report on a terminal.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaroslav/dpmigrate/pkg/migrate"
)

// Report palette.
var (
	ColorObject   = lipgloss.Color("1") // red
	ColorKey      = lipgloss.Color("4") // blue
	ColorLocation = lipgloss.Color("2") // green
	ColorWarning  = lipgloss.Color("3")
	ColorError    = lipgloss.Color("1")
)

// noKey is printed for objects without a folder key, such as clusters.
const noKey = "n/a"

type styles struct {
	object   lipgloss.Style
	key      lipgloss.Style
	location lipgloss.Style
	success  lipgloss.Style
	warning  lipgloss.Style
	failure  lipgloss.Style
	title    lipgloss.Style
}

// Console writes the report to a writer, normally stdout.
type Console struct {
	w      io.Writer
	styles styles
}

var _ migrate.Reporter = (*Console)(nil)

// NewConsole returns a Console writing to w. With color false the output is
// plain text; otherwise colors follow what the writer's terminal supports.
func NewConsole(w io.Writer, color bool) *Console {
	c := &Console{w: w}
	if !color {
		plain := lipgloss.NewStyle()
		c.styles = styles{plain, plain, plain, plain, plain, plain, plain}
		return c
	}

	r := lipgloss.NewRenderer(w)
	c.styles = styles{
		object:   r.NewStyle().Foreground(ColorObject),
		key:      r.NewStyle().Foreground(ColorKey),
		location: r.NewStyle().Foreground(ColorLocation),
		success:  r.NewStyle().Bold(true),
		warning:  r.NewStyle().Foreground(ColorWarning),
		failure:  r.NewStyle().Foreground(ColorError).Bold(true),
		title:    r.NewStyle().Bold(true),
	}
	return c
}

// Report prints one touched object:
//
//	Migrating ext with key InterfaceConfig in acme/shop/web
func (c *Console) Report(ev migrate.Event) {
	key := ev.Key
	if key == "" {
		key = noKey
	}
	location := fmt.Sprintf("%s/%s/%s%s", ev.Tenant, ev.App, ev.EPG, ev.Path)
	fmt.Fprintf(c.w, "%s %s with key %s in %s\n",
		ev.Action,
		c.styles.object.Render(ev.Object),
		c.styles.key.Render(key),
		c.styles.location.Render(location))
}

// Notice prints an unstyled line.
func (c *Console) Notice(format string, args ...interface{}) {
	fmt.Fprintf(c.w, format+"\n", args...)
}

// Success prints a line in the success style.
func (c *Console) Success(format string, args ...interface{}) {
	fmt.Fprintln(c.w, c.styles.success.Render(fmt.Sprintf(format, args...)))
}

// Warning prints a line in the warning style.
func (c *Console) Warning(format string, args ...interface{}) {
	fmt.Fprintln(c.w, c.styles.warning.Render(fmt.Sprintf(format, args...)))
}

// Failure prints a "%% " prefixed error line.
func (c *Console) Failure(format string, args ...interface{}) {
	fmt.Fprintln(c.w, c.styles.failure.Render("%% "+fmt.Sprintf(format, args...)))
}

// List prints a titled, indented list of names:
//
//	Tenants on APIC:
//
//	  common
//	  acme
func (c *Console) List(title string, names []string) {
	fmt.Fprintf(c.w, "\n%s\n\n", c.styles.title.Render(title+" on APIC:"))
	for _, name := range names {
		fmt.Fprintf(c.w, "  %s\n", name)
	}
}

// Raw writes s followed by a newline, for payload dumps.
func (c *Console) Raw(s string) {
	fmt.Fprintln(c.w, s)
}
