package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

const maxTitle = 80

func listLines(items []model.Item, group bool) []string {
	t := ui.Current()
	d, p := model.Stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(items),
	)

	lines := []string{header, t.Muted.Render(ui.ProgressBar(d, d+p, 28)), ""}
	if group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items)...)
	}
	lines = append(lines, "", t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	return lines
}

type indexed struct {
	n    int // 1-based position in the flat list
	item model.Item
}

func flatLines(items []model.Item) []string {
	rows := make([]indexed, 0, len(items))
	for i, it := range items {
		rows = append(rows, indexed{n: i + 1, item: it})
	}
	return itemLines(rows)
}

// groupLines splits by state. Lines keep their flat index so `done <n>` and
// `rm <n>` still point at what is shown.
func groupLines(items []model.Item) []string {
	t := ui.Current()
	var pend, done []indexed
	for i, it := range items {
		row := indexed{n: i + 1, item: it}
		if it.Done {
			done = append(done, row)
		} else {
			pend = append(pend, row)
		}
	}
	section := func(name string, rows []indexed) []string {
		lines := []string{t.Accent.Render(name)}
		if len(rows) == 0 {
			return append(lines, t.Muted.Render("(none)"))
		}
		return append(lines, itemLines(rows)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

func itemLines(rows []indexed) []string {
	t := ui.Current()
	if len(rows) == 0 {
		return []string{t.Muted.Render("No todos")}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		box := t.Muted.Render(t.BoxUnchecked)
		if r.item.Done {
			box = t.Success.Render(t.BoxChecked)
		}
		title := r.item.Title
		if rs := []rune(title); len(rs) > maxTitle {
			title = string(rs[:maxTitle-3]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Muted.Render(fmt.Sprintf("%2d.", r.n)), box, title))
	}
	return out
}

func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, d)
}
