// Command forkjoinbench runs the pool through the parallel-sum and
// independent-range-increment scenarios, optionally under the single-queue
// strategy, and prints timing and scheduler stats.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	forkjoin "github.com/kade-holloway/go-forkjoin"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

const leafSize = int64(50_000)

type sumTask struct {
	forkjoin.ForkJoinTask[int64]
	lo, hi int64
}

func newSumTask(lo, hi int64) *sumTask {
	t := &sumTask{lo: lo, hi: hi}
	t.Init(t)
	return t
}

func (t *sumTask) Compute() int64 {
	if t.hi-t.lo <= leafSize {
		var total int64
		for i := t.lo; i < t.hi; i++ {
			total += i
		}
		return total
	}
	mid := t.lo + (t.hi-t.lo)/2
	right := newSumTask(mid, t.hi)
	if err := right.Fork(); err != nil {
		panic(err)
	}
	left := newSumTask(t.lo, mid).Compute()
	sum, err := right.Join()
	if err != nil {
		panic(err)
	}
	return left + sum
}

const incrementLeafSize = 50_000

type incrementTask struct {
	forkjoin.ForkJoinTask[struct{}]
	counters []int
	lo, hi   int
}

func newIncrementTask(counters []int, lo, hi int) *incrementTask {
	t := &incrementTask{counters: counters, lo: lo, hi: hi}
	t.Init(t)
	return t
}

func (t *incrementTask) Compute() struct{} {
	if t.hi-t.lo <= incrementLeafSize {
		for i := t.lo; i < t.hi; i++ {
			t.counters[i]++
		}
		return struct{}{}
	}
	mid := t.lo + (t.hi-t.lo)/2
	right := newIncrementTask(t.counters, mid, t.hi)
	if err := right.Fork(); err != nil {
		panic(err)
	}
	newIncrementTask(t.counters, t.lo, mid).Compute()
	if _, err := right.Join(); err != nil {
		panic(err)
	}
	return struct{}{}
}

func main() {
	app := &cli.App{
		Name:  "forkjoinbench",
		Usage: "exercise the fork-join pool's scheduling engines",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a TOML config file"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := loadBenchConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	poolCfg := forkjoin.DefaultPoolConfig()
	if cfg.Workers > 0 {
		poolCfg.NumWorkers = cfg.Workers
	}
	if cfg.SingleQueue {
		poolCfg.Strategy = forkjoin.StrategySingleQueue
	}

	pool, err := forkjoin.NewPool(poolCfg)
	if err != nil {
		return fmt.Errorf("new pool: %w", err)
	}
	defer pool.Wait()
	defer pool.Terminate()

	bold := color.New(color.Bold)
	bold.Println("== parallel sum ==")
	if err := benchSum(pool, cfg); err != nil {
		return err
	}

	bold.Println("== independent-range increments ==")
	if err := benchIncrement(pool, cfg); err != nil {
		return err
	}

	stats := pool.Stats()
	color.Cyan("final stats: strategy=%s workers=%d steals=%d misses=%d",
		stats.Strategy, stats.Workers, stats.Steals, stats.Misses)
	return nil
}

func benchSum(pool *forkjoin.Pool, cfg benchConfig) error {
	want := cfg.SumRange * (cfg.SumRange - 1) / 2
	for i := 0; i < cfg.SumRounds; i++ {
		start := time.Now()
		got, err := forkjoin.Invoke[int64](pool, newSumTask(0, cfg.SumRange))
		if err != nil {
			return fmt.Errorf("invoke sum round %d: %w", i, err)
		}
		elapsed := time.Since(start)
		if got != want {
			color.Red("round %d: sum = %d, want %d", i, got, want)
			continue
		}
		fmt.Printf("round %d: sum(0..%d) = %d in %s\n", i, cfg.SumRange, got, elapsed)
	}
	return nil
}

func benchIncrement(pool *forkjoin.Pool, cfg benchConfig) error {
	counters := make([]int, cfg.Increments.Size)
	for i := 0; i < cfg.Increments.Passes; i++ {
		start := time.Now()
		if _, err := forkjoin.Invoke[struct{}](pool, newIncrementTask(counters, 0, cfg.Increments.Size)); err != nil {
			return fmt.Errorf("invoke increment pass %d: %w", i, err)
		}
		fmt.Printf("pass %d: incremented %d counters in %s\n", i, cfg.Increments.Size, time.Since(start))
	}
	for i, v := range counters {
		if v != cfg.Increments.Passes {
			color.Red("counters[%d] = %d, want %d", i, v, cfg.Increments.Passes)
			return fmt.Errorf("increment mismatch at index %d", i)
		}
	}
	return nil
}
