package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/yaroslav/dpmigrate/internal/config"
	"github.com/yaroslav/dpmigrate/internal/journal"
)

// errNoJournal is returned when history is asked for without a journal.
var errNoJournal = errors.New("no journal configured; set journal_path in the config file or pass --journal")

type historyOptions struct {
	global *globalOptions

	journalPath string
	tenant      string
	limit       int
}

func newHistoryCmd(g *globalOptions) *cobra.Command {
	o := &historyOptions{global: g}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the pushes recorded in the journal",
		Args:  cobra.NoArgs,
		RunE:  o.list,
	}
	cmd.PersistentFlags().StringVar(&o.journalPath, "journal", "", "Path to the SQLite journal")
	cmd.Flags().StringVar(&o.tenant, "tenant", "", "Only show pushes for this tenant")
	cmd.Flags().IntVar(&o.limit, "limit", 20, "Maximum number of entries (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Print one journal entry with its payload",
		Args:  cobra.ExactArgs(1),
		RunE:  o.show,
	})
	return cmd
}

func (o *historyOptions) open(cmd *cobra.Command) (*journal.Store, error) {
	cfg, err := o.global.loadConfig(false, func(cfg *config.Config) {
		if cmd.Flags().Changed("journal") {
			cfg.JournalPath = o.journalPath
		}
	})
	if err != nil {
		return nil, err
	}
	if cfg.JournalPath == "" {
		return nil, errNoJournal
	}
	return journal.Open(cfg.JournalPath)
}

func (o *historyOptions) list(cmd *cobra.Command, args []string) error {
	if o.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	store, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), journal.Filter{Tenant: o.tenant, Limit: o.limit})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No pushes recorded")
		return nil
	}

	color := colorEnabled(out)
	header := lipgloss.NewStyle().Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	if color {
		header = header.Bold(true)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TIME", "TENANT", "APP", "ACTIONS", "STAGE", "STATUS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, e := range entries {
		t.Row(
			strconv.FormatInt(e.ID, 10),
			e.RecordedAt.Local().Format(time.DateTime),
			e.Tenant,
			dash(e.App),
			e.Actions,
			e.Stage,
			e.Status,
		)
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

func (o *historyOptions) show(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entry ID %q", args[0])
	}
	store, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := store.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	payload, err := e.PayloadObject()
	if err != nil {
		return err
	}
	dump, err := payload.Indent()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Entry:    %d\n", e.ID)
	fmt.Fprintf(out, "Run:      %s\n", e.RunID)
	fmt.Fprintf(out, "Time:     %s\n", e.RecordedAt.Local().Format(time.DateTime))
	fmt.Fprintf(out, "Tenant:   %s\n", e.Tenant)
	fmt.Fprintf(out, "App:      %s\n", dash(e.App))
	fmt.Fprintf(out, "Actions:  %s\n", e.Actions)
	fmt.Fprintf(out, "Stage:    %s\n", e.Stage)
	fmt.Fprintf(out, "Status:   %s\n", e.Status)
	if e.Error != "" {
		fmt.Fprintf(out, "Error:    %s\n", e.Error)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, dump)
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
