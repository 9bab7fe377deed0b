package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"relmap/internal/diagram"
	"relmap/internal/models"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func renderSnapshot(w io.Writer, snap diagram.Snapshot) {
	if len(snap.Nodes) == 0 {
		fmt.Fprintln(w, "(no tables)")
	} else {
		t := newTable(w)
		t.AppendHeader(table.Row{"Table", "Columns", "X", "Y", "Width", "Height"})
		for _, n := range snap.Nodes {
			cols := strings.Join(n.Columns, ", ")
			if n.LoadErr != nil {
				cols = "(columns unavailable)"
			}
			t.AppendRow(table.Row{n.ID, cols, round(n.Position.X), round(n.Position.Y), round(n.Size.Width), round(n.Size.Height)})
		}
		t.Render()
	}

	if len(snap.Edges) == 0 {
		fmt.Fprintln(w, "(no relationships)")
	} else {
		t := newTable(w)
		t.AppendHeader(table.Row{"ID", "Source", "Target", "Kind"})
		for _, e := range snap.Edges {
			t.AppendRow(table.Row{e.ID, e.Source.String(), e.Target.String(), string(e.Kind)})
		}
		t.Render()
	}

	fmt.Fprintf(w, "viewport: pan=(%.1f, %.1f) zoom=%.3f\n", snap.Viewport.Pan.X, snap.Viewport.Pan.Y, snap.Viewport.Zoom)
}

func renderRelationships(w io.Writer, rels []models.Relationship) {
	if len(rels) == 0 {
		fmt.Fprintln(w, "(no suggestions)")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Source", "Target", "Kind"})
	for _, r := range rels {
		t.AppendRow(table.Row{r.SourceTable + "." + r.SourceColumn, r.TargetTable + "." + r.TargetColumn, string(r.Kind)})
	}
	t.Render()
}

func renderNotifications(w io.Writer, notes []diagram.Notification) {
	for _, n := range notes {
		if n.Err != nil {
			fmt.Fprintf(w, "%s: %s: %v\n", n.Level, n.Message, n.Err)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", n.Level, n.Message)
	}
}

func round(v float64) string { return fmt.Sprintf("%.0f", v) }
