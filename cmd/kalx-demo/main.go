// kalx-demo serves a small counter app over the live protocol. It is the
// smallest complete wiring of the framework: reactive state, render
// function, live server, metrics.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Odeneho-Calculus/kalx-go/pkg/live"
	"github.com/Odeneho-Calculus/kalx-go/pkg/reactive"
	"github.com/Odeneho-Calculus/kalx-go/pkg/telemetry"
	"github.com/Odeneho-Calculus/kalx-go/pkg/vdom"
)

func main() {
	var (
		addr    string
		verbose bool
	)

	rootCmd := &cobra.Command{
		Use:           "kalx-demo",
		Short:         "Serve the Kalx demo counter app",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)

			telemetry.SetDefault(telemetry.NewMetrics())

			srv := live.NewServer(counterApp,
				live.WithAddr(addr),
				live.WithLogger(logger),
				live.WithServerMetrics(telemetry.Default()),
				live.WithServerTracer(telemetry.NewTracer()),
			)

			ctx, stop := signal.NotifyContext(context.Background(),
				syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.ListenAndServe(ctx)
		},
	}

	rootCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// counterApp builds the per-session render function.
func counterApp() func() *vdom.VNode {
	count := reactive.NewCell(0)
	parity := reactive.NewMemo(func() string {
		if count.Get()%2 == 0 {
			return "even"
		}
		return "odd"
	})

	return func() *vdom.VNode {
		return vdom.Div(vdom.ID("app"),
			vdom.H1(vdom.Text("Kalx counter")),
			vdom.P(
				vdom.Textf("count: %d (", count.Get()),
				vdom.Span(vdom.Class(parity.Get()), vdom.Text(parity.Get())),
				vdom.Text(")"),
			),
			vdom.Button(
				vdom.OnClick(func() {
					count.Update(func(v int) int { return v + 1 })
				}),
				vdom.Text("increment"),
			),
			vdom.Button(
				vdom.OnClick(func() {
					count.Set(0)
				}),
				vdom.Text("reset"),
			),
		)
	}
}
