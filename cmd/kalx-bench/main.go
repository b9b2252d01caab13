// kalx-bench measures the two hot paths of the framework: dependency
// propagation through the reactive graph, and diff/patch over wide trees.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Odeneho-Calculus/kalx-go/pkg/reactive"
	"github.com/Odeneho-Calculus/kalx-go/pkg/render"
	"github.com/Odeneho-Calculus/kalx-go/pkg/vdom"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "kalx-bench",
		Short:         "Benchmarks for the Kalx reactive core and diff engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		reactiveCmd(),
		diffCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newResultTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func reactiveCmd() *cobra.Command {
	var (
		widths  []int
		heights []int
		iters   int
	)

	cmd := &cobra.Command{
		Use:   "reactive",
		Short: "Measure write-to-effect propagation through memo chains",
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl := newResultTable("Kalx Reactive Graph")

			for _, w := range widths {
				for _, h := range heights {
					runPropagate(tbl, w, h, iters)
				}
			}

			tbl.Render()
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&widths, "width", []int{1, 10, 100}, "parallel memo chains per source")
	cmd.Flags().IntSliceVar(&heights, "height", []int{1, 10, 100}, "memo chain depth")
	cmd.Flags().IntVar(&iters, "iterations", 1000, "writes per configuration")
	return cmd
}

// runPropagate builds w parallel chains of h memos off one source cell,
// with one effect per chain, and times source writes end to end.
func runPropagate(tbl table.Writer, w, h, iters int) {
	tach := tachymeter.New(&tachymeter.Config{Size: iters})

	src := reactive.NewCell(1)
	for i := 0; i < w; i++ {
		last := func() int { return src.Get() }
		for j := 0; j < h; j++ {
			prev := last
			m := reactive.NewMemo(func() int { return prev() + 1 })
			last = m.Get
		}

		sink := last
		reactive.NewEffect(func() reactive.Cleanup {
			sink()
			return nil
		})
	}

	for i := 0; i < iters; i++ {
		start := time.Now()
		src.Update(func(v int) int { return v + 1 })
		tach.AddTime(time.Since(start))
	}

	calc := tach.Calc()
	tbl.AppendRows([]table.Row{{
		fmt.Sprintf("propagate: %d * %d", w, h),
		calc.Time.Avg,
		calc.Time.Min,
		calc.Time.P75,
		calc.Time.P99,
		calc.Time.Max,
	}})
}

func diffCmd() *cobra.Command {
	var (
		sizes []int
		iters int
	)

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Measure diff and patch over keyed lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl := newResultTable("Kalx Diff Engine")

			var before runtime.MemStats
			runtime.ReadMemStats(&before)

			for _, n := range sizes {
				runDiff(tbl, n, iters)
			}

			tbl.Render()

			var after runtime.MemStats
			runtime.ReadMemStats(&after)
			fmt.Printf("allocated: %s across %s allocations\n",
				humanize.IBytes(after.TotalAlloc-before.TotalAlloc),
				humanize.Comma(int64(after.Mallocs-before.Mallocs)))
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&sizes, "nodes", []int{10, 100, 1000}, "keyed list sizes")
	cmd.Flags().IntVar(&iters, "iterations", 1000, "diff+apply rounds per size")
	return cmd
}

// runDiff times one full round: render a keyed list, rotate it by one,
// diff, and apply to the in-process backend.
func runDiff(tbl table.Writer, n, iters int) {
	tach := tachymeter.New(&tachymeter.Config{Size: iters})

	renderList := func(offset int) *vdom.VNode {
		items := make([]*vdom.VNode, n)
		for i := 0; i < n; i++ {
			k := (i + offset) % n
			items[i] = vdom.Li(
				vdom.Key(fmt.Sprintf("item-%d", k)),
				vdom.Textf("row %d of %d", k, offset),
			)
		}
		return vdom.Ul(items)
	}

	backend := render.NewBackend()
	prev := renderList(0)
	backend.InsertChild(nil, vdom.Build(backend, prev), 0)

	for i := 1; i <= iters; i++ {
		next := renderList(i)

		start := time.Now()
		patches := vdom.Diff(prev, next)
		if err := vdom.Apply(backend, patches); err != nil {
			fmt.Fprintln(os.Stderr, "apply:", err)
		}
		tach.AddTime(time.Since(start))

		prev = next
	}

	calc := tach.Calc()
	tbl.AppendRows([]table.Row{{
		fmt.Sprintf("diff+apply: %d keyed rows", n),
		calc.Time.Avg,
		calc.Time.Min,
		calc.Time.P75,
		calc.Time.P99,
		calc.Time.Max,
	}})
}
