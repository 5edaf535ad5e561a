package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/cellparty/ripple"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	maxWidthKey  = "max-width"
	maxHeightKey = "max-height"
	itersKey     = "iterations"
	profileKey   = "profile"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure propagation latency across cell chains",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  maxWidthKey,
				Usage: "Largest number of parallel chains",
				Value: 1000,
			},
			&cli.UintFlag{
				Name:  maxHeightKey,
				Usage: "Largest chain depth",
				Value: 1000,
			},
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Writes per configuration",
				Value: 100,
			},
			&cli.BoolFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to default.pgo",
				Value: false,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool(profileKey) {
		f, err := os.Create("default.pgo")
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	iters := int(cmd.Uint(itersKey))
	sizes := sizesUpTo(int(cmd.Uint(maxWidthKey)))
	depths := sizesUpTo(int(cmd.Uint(maxHeightKey)))

	log.Print("warming up")
	benchmarkPropagate(sizes, depths, iters, true)
	return nil
}

// sizesUpTo expands a cap into the 1, 10, 100, ... series under it.
func sizesUpTo(max int) []int {
	var out []int
	for s := 1; s <= max; s *= 10 {
		out = append(out, s)
	}
	return out
}

func benchmarkPropagate(ww, hh []int, iters int, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Ripple Cells")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "digest"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rs := ripple.NewReactiveSystem()
			src := ripple.Cell(rs, 1)
			digest := xxhash.New()
			for i := 0; i < w; i++ {
				var last ripple.Observable[int] = src
				for j := 0; j < h; j++ {
					last = ripple.Select(rs, last, func(v int) int {
						return v + 1
					})
				}
				last.Subscribe(func(next, prev int) {
					fmt.Fprintf(digest, "%d,", next)
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.SetValue(src.Value() + 1)
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
					fmt.Sprintf("%016x", digest.Sum64()),
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
