package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/phil-mansfield/shove/agent"
	"github.com/phil-mansfield/shove/io"
	"github.com/phil-mansfield/shove/logging"
	"github.com/phil-mansfield/shove/metrics"
	"github.com/phil-mansfield/shove/population"
	"github.com/phil-mansfield/shove/voxel"
)

type FileGroup struct {
	log, prof *os.File
}

func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil { log.Fatal(err.Error()) }
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil { log.Fatal(err.Error()) }
	}
}

func main() {
	var run, exampleConfig string
	vars := map[string]*string {
		"Run": &run,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(&run, "Run", "", "Configuration file for [Run] mode.")
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the " +
			"specified type to stdout. The only accepted argument is 'Run'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil { log.Fatal(err.Error()) }

	switch modeName {
	case "Run":
		wrap, err := io.ReadRunConfig(run)
		if err != nil { log.Fatal(err.Error()) }
		runMain(wrap)
	case "ExampleConfig":
		switch exampleConfig {
		case "Run":
			fmt.Println(io.ExampleRunFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only recognized " +
					"argument is 'Run'.",
			)
		}
	default:
		panic("Impossible")
	}
}

func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" { setNames = append(setNames, name) }
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but shove only accepts " +
				"one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func setupFiles(con *io.RunConfig) (logging.Logger, *FileGroup) {
	fg := &FileGroup{}

	w := os.Stderr
	if con.ValidLogFile() {
		var err error
		fg.log, err = os.Create(con.LogFile)
		if err != nil { log.Fatal(err.Error()) }
		w = fg.log
	}

	if con.ValidProfileFile() {
		var err error
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil { log.Fatal(err.Error()) }
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil { log.Fatal(err.Error()) }
	}

	return logging.New(w, con.LogLevel), fg
}

func runMain(wrap *io.RunWrapper) {
	con := &wrap.Run
	logger, files := setupFiles(con)
	defer files.Close()

	params, err := wrap.Params()
	if err != nil { log.Fatal(err.Error()) }
	d, err := wrap.BuildDomain()
	if err != nil { log.Fatal(err.Error()) }
	grid, err := voxel.New(d, wrap.AgentGrid.Resolution, len(params), logger)
	if err != nil { log.Fatal(err.Error()) }

	seed := uint64(con.Seed)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	space := agent.NewSpace(grid, rng, logger, con.AgentTimeStep)

	rec := metrics.New()
	pop, err := population.New(space, wrap.ContainerConfig(), rec)
	if err != nil { log.Fatal(err.Error()) }

	seeds, err := io.ReadSeedTable(con.SeedFile, params)
	if err != nil { log.Fatal(err.Error()) }
	for _, s := range seeds {
		_, err := pop.AddProgenitor(params[s.Species], s.Location, s.Masses, 0)
		if err != nil { log.Fatal(err.Error()) }
	}
	pop.RemoveAllDead()
	logger.Infof("Seeded %d of %d agents.", pop.Len(), len(seeds))

	pop.RelaxGrid()
	pop.RefreshGroups()

	model := agent.ConstantRate{}
	now := 0.0
	for step := 0; step < con.Steps; step++ {
		stats, err := pop.Step(con.TimeStep, now, model)
		if err != nil { log.Fatal(err.Error()) }
		now += con.TimeStep

		logger.Infof(
			"Step %d (t = %g): %d agents, %d born, %d dead, %d shove "+
				"iterations.",
			step, now, pop.Len(), stats.Born, stats.Dead, stats.ShoveIter,
		)

		if con.ValidMetricsFile() {
			if err := rec.WriteFile(con.MetricsFile); err != nil {
				log.Fatal(err.Error())
			}
		}
	}

	if con.ValidOutputFile() {
		err := io.WriteSeedTable(con.OutputFile, pop.Agents(), params)
		if err != nil { log.Fatal(err.Error()) }
	}
}
