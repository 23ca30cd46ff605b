package main

import "github.com/BurntSushi/toml"

// benchConfig is the TOML-loadable configuration for the forkjoinbench CLI,
// covering the scenarios in the pool's design notes: parallel sum,
// independent-range increments, and a single-queue strategy comparison.
type benchConfig struct {
	Workers    int   `toml:"workers"`
	SumRange   int64 `toml:"sum_range"`
	SumRounds  int   `toml:"sum_rounds"`
	Increments struct {
		Size   int `toml:"size"`
		Passes int `toml:"passes"`
	} `toml:"increments"`
	SingleQueue bool `toml:"single_queue"`
}

func defaultBenchConfig() benchConfig {
	cfg := benchConfig{
		Workers:     0, // 0 means "use forkjoin's own default (GOMAXPROCS)"
		SumRange:    10_000_000,
		SumRounds:   5,
		SingleQueue: false,
	}
	cfg.Increments.Size = 5_000_000
	cfg.Increments.Passes = 3
	return cfg
}

func loadBenchConfig(path string) (benchConfig, error) {
	cfg := defaultBenchConfig()
	if path == "" {
		return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
