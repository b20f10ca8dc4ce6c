// Command cvrp solves a capacitated vehicle routing instance and
// writes the best solution found.
//
// Usage:
//
//	cvrp [flags] <instancePath> <solutionPath>
//
// Parameters layer in three steps: built-in defaults, then a -params
// YAML file, then explicitly set flags.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/solver"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, trace io.Writer) error {
	cfg, paths, err := parseConfig(args)
	if err != nil {
		return err
	}

	inst, err := instance.Load(paths[0], instance.Options{RoundCosts: cfg.round})
	if err != nil {
		return err
	}

	opts := cfg.solverOptions()
	if cfg.log {
		opts.Trace = trace
	}

	best, err := solver.Solve(inst, opts)
	if err != nil {
		return err
	}

	return best.Store(paths[1])
}

// config carries every tunable of the run. The zero value is not
// meaningful; parseConfig seeds it with the solver defaults.
type config struct {
	timeLimit          int
	stallLimit         int
	seed               int64
	vehicles           int
	round              bool
	log                bool
	granularNeighbors  int
	cacheSize          int
	coreOptIterations  int
	routeMinIterations int
	gammaBase          float64
	delta              float64
	shakingLowerBound  float64
	shakingUpperBound  float64
	saInitialFactor    float64
	saFinalFactor      float64
	tolerance          float64
	paramsPath         string
}

// parseConfig parses the flags and positionals, overlaying a -params
// file between the defaults and the explicitly set flags.
func parseConfig(args []string) (config, [2]string, error) {
	var (
		cfg   config
		paths [2]string
		fs    = flag.NewFlagSet("cvrp", flag.ContinueOnError)
	)

	fs.IntVar(&cfg.timeLimit, "t", 0, "wall-clock budget in seconds, 0 disables")
	fs.IntVar(&cfg.stallLimit, "it", 0, "iterations without a new best before stopping, 0 disables")
	fs.Int64Var(&cfg.seed, "seed", 0, "random seed")
	fs.IntVar(&cfg.vehicles, "veh", 0, "fleet cap for the giant-tour re-decode, 0 derives it from the instance")
	fs.BoolVar(&cfg.round, "round", true, "round distances to the nearest integer")
	fs.BoolVar(&cfg.log, "log", false, "print progress lines")
	fs.IntVar(&cfg.granularNeighbors, "nbGranular", solver.DefaultGranularNeighbors, "move generators kept per vertex")
	fs.IntVar(&cfg.cacheSize, "cache", solver.DefaultCacheSize, "recently-modified-vertex cache bound")
	fs.IntVar(&cfg.coreOptIterations, "coreopt-iterations", solver.DefaultCoreOptIterations, "shaking loop budget")
	fs.IntVar(&cfg.routeMinIterations, "routemin-iterations", solver.DefaultRouteMinIterations, "fleet-reduction budget")
	fs.Float64Var(&cfg.gammaBase, "granular-gamma-base", solver.DefaultGammaBase, "initial fraction of active move generators")
	fs.Float64Var(&cfg.delta, "granular-delta", solver.DefaultDelta, "non-improving threshold multiplier")
	fs.Float64Var(&cfg.shakingLowerBound, "shaking-lower-bound", solver.DefaultShakingLowerBound, "shaking window lower factor")
	fs.Float64Var(&cfg.shakingUpperBound, "shaking-upper-bound", solver.DefaultShakingUpperBound, "shaking window upper factor")
	fs.Float64Var(&cfg.saInitialFactor, "sa-initial-factor", solver.DefaultSAInitialFactor, "starting temperature factor")
	fs.Float64Var(&cfg.saFinalFactor, "sa-final-factor", solver.DefaultSAFinalFactor, "final temperature factor")
	fs.Float64Var(&cfg.tolerance, "tolerance", solver.DefaultTolerance, "improvement threshold of the descent")
	fs.StringVar(&cfg.paramsPath, "params", "", "YAML parameter file")

	if err := fs.Parse(args); err != nil {
		return cfg, paths, err
	}
	if fs.NArg() != 2 {
		return cfg, paths, fmt.Errorf("usage: cvrp [flags] <instancePath> <solutionPath>")
	}
	paths[0], paths[1] = fs.Arg(0), fs.Arg(1)

	if cfg.paramsPath == "" {
		return cfg, paths, nil
	}

	p, err := loadParams(cfg.paramsPath)
	if err != nil {
		return cfg, paths, err
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	cfg.applyParams(p, explicit)

	return cfg, paths, nil
}

func (cfg config) solverOptions() solver.Options {
	opts := solver.DefaultOptions()
	opts.Seed = cfg.seed
	opts.CoreOptIterations = cfg.coreOptIterations
	opts.RouteMinIterations = cfg.routeMinIterations
	opts.GranularNeighbors = cfg.granularNeighbors
	opts.CacheSize = cfg.cacheSize
	opts.MaxRoutes = cfg.vehicles
	opts.GammaBase = cfg.gammaBase
	opts.Delta = cfg.delta
	opts.ShakingLowerBound = cfg.shakingLowerBound
	opts.ShakingUpperBound = cfg.shakingUpperBound
	opts.SAInitialFactor = cfg.saInitialFactor
	opts.SAFinalFactor = cfg.saFinalFactor
	opts.Tolerance = cfg.tolerance
	opts.TimeLimit = time.Duration(cfg.timeLimit) * time.Second
	opts.StallLimit = cfg.stallLimit

	return opts
}

// params mirrors the flag set in a YAML file. Pointer fields tell an
// absent key apart from an explicit zero.
type params struct {
	TimeLimit          *int     `yaml:"t"`
	StallLimit         *int     `yaml:"it"`
	Seed               *int64   `yaml:"seed"`
	Vehicles           *int     `yaml:"veh"`
	Round              *bool    `yaml:"round"`
	Log                *bool    `yaml:"log"`
	GranularNeighbors  *int     `yaml:"nbGranular"`
	CacheSize          *int     `yaml:"cache"`
	CoreOptIterations  *int     `yaml:"coreopt-iterations"`
	RouteMinIterations *int     `yaml:"routemin-iterations"`
	GammaBase          *float64 `yaml:"granular-gamma-base"`
	Delta              *float64 `yaml:"granular-delta"`
	ShakingLowerBound  *float64 `yaml:"shaking-lower-bound"`
	ShakingUpperBound  *float64 `yaml:"shaking-upper-bound"`
	SAInitialFactor    *float64 `yaml:"sa-initial-factor"`
	SAFinalFactor      *float64 `yaml:"sa-final-factor"`
	Tolerance          *float64 `yaml:"tolerance"`
}

func loadParams(path string) (params, error) {
	var p params

	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err = yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse %s: %w", path, err)
	}

	return p, nil
}

// applyParams overlays the file values onto the defaults, skipping
// every flag the command line set explicitly.
func (cfg *config) applyParams(p params, explicit map[string]bool) {
	if p.TimeLimit != nil && !explicit["t"] {
		cfg.timeLimit = *p.TimeLimit
	}
	if p.StallLimit != nil && !explicit["it"] {
		cfg.stallLimit = *p.StallLimit
	}
	if p.Seed != nil && !explicit["seed"] {
		cfg.seed = *p.Seed
	}
	if p.Vehicles != nil && !explicit["veh"] {
		cfg.vehicles = *p.Vehicles
	}
	if p.Round != nil && !explicit["round"] {
		cfg.round = *p.Round
	}
	if p.Log != nil && !explicit["log"] {
		cfg.log = *p.Log
	}
	if p.GranularNeighbors != nil && !explicit["nbGranular"] {
		cfg.granularNeighbors = *p.GranularNeighbors
	}
	if p.CacheSize != nil && !explicit["cache"] {
		cfg.cacheSize = *p.CacheSize
	}
	if p.CoreOptIterations != nil && !explicit["coreopt-iterations"] {
		cfg.coreOptIterations = *p.CoreOptIterations
	}
	if p.RouteMinIterations != nil && !explicit["routemin-iterations"] {
		cfg.routeMinIterations = *p.RouteMinIterations
	}
	if p.GammaBase != nil && !explicit["granular-gamma-base"] {
		cfg.gammaBase = *p.GammaBase
	}
	if p.Delta != nil && !explicit["granular-delta"] {
		cfg.delta = *p.Delta
	}
	if p.ShakingLowerBound != nil && !explicit["shaking-lower-bound"] {
		cfg.shakingLowerBound = *p.ShakingLowerBound
	}
	if p.ShakingUpperBound != nil && !explicit["shaking-upper-bound"] {
		cfg.shakingUpperBound = *p.ShakingUpperBound
	}
	if p.SAInitialFactor != nil && !explicit["sa-initial-factor"] {
		cfg.saInitialFactor = *p.SAInitialFactor
	}
	if p.SAFinalFactor != nil && !explicit["sa-final-factor"] {
		cfg.saFinalFactor = *p.SAFinalFactor
	}
	if p.Tolerance != nil && !explicit["tolerance"] {
		cfg.tolerance = *p.Tolerance
	}
}
