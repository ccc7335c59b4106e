// File: internal/cli/render.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/momentics/furi-thread/rtos"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

func threadsTable(threads []rtos.ThreadInfo) *table.Table {
	t := newTable("ID", "NAME", "STATE", "FLAGS", "STACK", "HEAP TRACE", "ADOPTED")
	for _, th := range threads {
		name := th.Name
		if !th.HasName {
			name = "-"
		}
		t.Row(
			strconv.FormatUint(uint64(th.ID), 10),
			name,
			th.State.String(),
			fmt.Sprintf("%#08x", th.Flags),
			strconv.Itoa(th.StackSize),
			strconv.FormatBool(th.HeapTrace),
			strconv.FormatBool(th.Adopted),
		)
	}
	return t
}

func historyTable(records []rtos.ExitRecord) *table.Table {
	t := newTable("ID", "NAME", "EXIT", "STACK", "HEAP", "STOPPED")
	for _, r := range records {
		heap := "-"
		if r.HeapUsed >= 0 {
			heap = strconv.FormatInt(r.HeapUsed, 10)
		}
		t.Row(
			strconv.FormatUint(uint64(r.ID), 10),
			r.Name,
			strconv.FormatInt(int64(r.ReturnCode), 10),
			strconv.Itoa(r.StackSize),
			heap,
			r.StoppedAt.Format("15:04:05.000"),
		)
	}
	return t
}

// keyValueTable renders scalar entries of m sorted by key. Values that
// are slices or maps are skipped.
func keyValueTable(m map[string]any) *table.Table {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		switch v.(type) {
		case []rtos.ThreadInfo, []rtos.ExitRecord, map[string]any:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := newTable("KEY", "VALUE")
	for _, k := range keys {
		t.Row(k, fmt.Sprint(m[k]))
	}
	return t
}

func printMetrics(w io.Writer, stats map[string]any) {
	fmt.Fprintln(w, keyValueTable(stats).Render())
}
