package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/fauna/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	preset := flag.String("preset", "", "Flocking preset to start from (empty = base flocking config)")
	ticks := flag.Int("ticks", 4000, "Simulation ticks per evaluation")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 120, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	baseFlck := baseCfg.Flocking
	if *preset != "" {
		p, err := baseCfg.Preset(*preset)
		if err != nil {
			log.Fatalf("unknown preset: %v", err)
		}
		baseFlck = p
	}

	params := NewParamVector()

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, *ticks, evalSeeds, baseCfg, baseFlck)

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	logWriter.Write(header)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)

			row := []string{
				strconv.Itoa(evaluator.Evals()),
				strconv.FormatFloat(fitness, 'g', 6, 64),
			}
			for _, v := range raw {
				row = append(row, strconv.FormatFloat(v, 'g', 6, 64))
			}
			logWriter.Write(row)
			logWriter.Flush()

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
	}

	initX := params.Normalize(params.DefaultVector())

	slog.Info("starting tuning run",
		"dims", params.Dim(),
		"seeds", *seeds,
		"ticks", *ticks,
		"max_evals", *maxEvals,
	)
	start := time.Now()

	result, err := optimize.Minimize(problem, initX, settings, &optimize.NelderMead{})
	if err != nil && result == nil {
		log.Fatalf("optimization failed: %v", err)
	}

	bestRaw, bestFitness := evaluator.Best()
	if bestRaw == nil {
		log.Fatal("no successful evaluations")
	}

	slog.Info("tuning complete",
		"evals", evaluator.Evals(),
		"fitness", bestFitness,
		"elapsed", time.Since(start).String(),
	)
	for i, spec := range params.Specs {
		fmt.Printf("%-22s %.4f\n", spec.Name, bestRaw[i])
	}

	// Write the winning config alongside the log.
	tuned := *baseCfg
	tuned.Flocking = params.Apply(bestRaw, baseFlck)
	if err := tuned.WriteYAML(filepath.Join(*outputDir, "tuned.yaml")); err != nil {
		log.Fatalf("failed to write tuned config: %v", err)
	}
}
