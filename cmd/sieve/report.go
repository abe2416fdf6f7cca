package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/zoobzio/sieve"
)

// renderReport writes the final consumer sums and run counters as tables.
func renderReport(w io.Writer, sums []int, stats sieve.Stats) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle("Consumer sums")
	tbl.AppendHeader(table.Row{"Consumer", "Category", "Sum"})

	total := 0
	for i, sum := range sums {
		tbl.AppendRow(table.Row{i, sieve.CategoryFor(i).String(), sum})
		total += sum
	}
	tbl.AppendFooter(table.Row{"", "Total", total})
	tbl.Render()

	counters := table.NewWriter()
	counters.SetOutputMirror(w)
	counters.SetStyle(table.StyleLight)
	counters.SetTitle("Run")
	counters.AppendRows([]table.Row{
		{"Produced", stats.Produced},
		{"Consumed", stats.Consumed},
		{"Consumed even", stats.ConsumedEven},
		{"Consumed odd", stats.ConsumedOdd},
		{"Consumed prime", stats.ConsumedPrime},
		{"Left in buffer", stats.Size},
		{"Buffer utilization", fmt.Sprintf("%d%%", stats.Utilization())},
	})
	counters.Render()
}
