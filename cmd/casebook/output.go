package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/phrazzld/casebook/internal/domain"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// settingRow is one field of the registry as the CLI shows it.
type settingRow struct {
	Key     string   `json:"key"`
	Options []string `json:"options"`
	Help    string   `json:"help,omitempty"`
}

func printSettingsTable(w io.Writer, rows []settingRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tOPTIONS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r.Key, strings.Join(r.Options, ", "))
	}
	return tw.Flush()
}

func printSupportTable(w io.Writer, entries []*domain.PracticalSupport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSOURCE\tCONFIRMED\tUPDATED BY")
	for _, ps := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n",
			ps.ID, ps.SupportType, ps.Source, ps.Confirmed, ps.UpdatedBy)
	}
	return tw.Flush()
}

func printHistoryTable(w io.Writer, history []*domain.AuditEvent) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tACTION\tACTOR\tCHANGES")
	for _, e := range history {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.OccurredAt.Format("2006-01-02 15:04:05"), e.Action, e.Actor, describeChanges(e))
	}
	return tw.Flush()
}

func describeChanges(e *domain.AuditEvent) string {
	var parts []string
	for _, key := range []string{"key", "options", "support_type", "source", "confirmed"} {
		after, ok := e.Modified[key]
		if !ok {
			continue
		}
		if before, had := e.Original[key]; had {
			parts = append(parts, fmt.Sprintf("%s: %v -> %v", key, before, after))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %v", key, after))
		}
	}
	return strings.Join(parts, "; ")
}
