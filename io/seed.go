package io

import (
	"bufio"
	"fmt"
	"os"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/shove/agent"
	"github.com/phil-mansfield/shove/geom"
)

// Seed is one row of a seed table.
type Seed struct {
	Species int
	Location geom.Vec
	Masses []float64
}

func maxCompartments(params []*agent.Param) int {
	n := 0
	for _, p := range params {
		if p.Compartments() > n { n = p.Compartments() }
	}
	return n
}

// ReadSeedTable reads the agents listed in file. Each row holds a species
// index, a position and one mass per compartment of the species with the
// most compartments. Species with fewer compartments ignore the trailing
// columns.
func ReadSeedTable(file string, params []*agent.Param) ([]Seed, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("No species given for seed file '%s'.", file)
	}

	nMass := maxCompartments(params)
	colIdxs := make([]int, 4+nMass)
	for i := range colIdxs { colIdxs[i] = i }

	cols, err := table.ReadTable(file, colIdxs, nil)
	if err != nil { return nil, err }

	seeds := make([]Seed, len(cols[0]))
	for i := range seeds {
		sp := int(cols[0][i])
		if float64(sp) != cols[0][i] || sp < 0 || sp >= len(params) {
			return nil, fmt.Errorf(
				"Row %d of seed file '%s' has species index %g, but only "+
					"species [0, %d) exist.", i, file, cols[0][i], len(params),
			)
		}

		s := &seeds[i]
		s.Species = sp
		s.Location = geom.Vec{cols[1][i], cols[2][i], cols[3][i]}
		s.Masses = make([]float64, params[sp].Compartments())
		for j := range s.Masses { s.Masses[j] = cols[4+j][i] }
	}
	return seeds, nil
}

// WriteSeedTable writes agents to file in the format read by
// ReadSeedTable. Dead agents are skipped.
func WriteSeedTable(
	file string, agents []*agent.Located, params []*agent.Param,
) error {
	f, err := os.Create(file)
	if err != nil { return err }
	defer f.Close()

	nMass := maxCompartments(params)
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# species x y z")
	for j := 0; j < nMass; j++ { fmt.Fprintf(w, " mass-%d", j) }
	fmt.Fprintln(w)

	for _, a := range agents {
		if a.IsDead() { continue }
		loc := a.Location()
		fmt.Fprintf(
			w, "%d %.9g %.9g %.9g", a.SpeciesIndex(), loc[0], loc[1], loc[2],
		)
		masses := a.Masses()
		for j := 0; j < nMass; j++ {
			m := 0.0
			if j < len(masses) { m = masses[j] }
			fmt.Fprintf(w, " %.9g", m)
		}
		fmt.Fprintln(w)
	}

	if err := w.Flush(); err != nil { return err }
	return f.Close()
}
