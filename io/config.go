/*package io reads the files a run is configured from: the gcfg run file
describing the domain, its boundaries, the agent grid and every species,
and the whitespace-separated table of seed agents.
*/
package io

import (
	"fmt"
	"sort"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/shove/agent"
	"github.com/phil-mansfield/shove/boundary"
	"github.com/phil-mansfield/shove/domain"
	"github.com/phil-mansfield/shove/geom"
	"github.com/phil-mansfield/shove/population"
)

const ExampleRunFile = `[Run]

#######################
# Required Parameters #
#######################

# Number of outer steps and the length of each one.
Steps = 24
TimeStep = 1

# Table of seed agents. Each row is
#     species-index x y z mass-1 ... mass-n
# where n is the largest number of compartments of any species. Lines
# starting with '#' are ignored.
SeedFile = path/to/seed.txt

#######################
# Optional Parameters #
#######################

# Agents are stepped in sub-steps no longer than AgentTimeStep. This is also
# the shortest time between two division checks. Defaults to TimeStep.
# AgentTimeStep = 0.25

# Seed of the random number generator. Default is 0.
# Seed = 1234

# One of [ debug | info | warn | error ]. Default is info.
# LogLevel = info

# Output files which are useful for profiling and debugging.
# LogFile = log.out
# ProfileFile = prof.out

# Population counters are written here in the Prometheus text format at the
# end of every step.
# MetricsFile = run.prom

# The surviving population is written here, in the SeedFile format, at the
# end of the run.
# OutputFile = final.txt

[Domain]

#######################
# Required Parameters #
#######################

# Width of a domain cell and the number of cells along each axis. NK is
# ignored for 2D domains.
Resolution = 4
NI = 33
NJ = 33
NK = 33

#######################
# Optional Parameters #
#######################

# Name = MyBiofilm
# Dimensions must be 2 or 3. Default is 3.
# Dimensions = 2

# A chemostat is a single well-mixed voxel. Agents do not shove, and a
# fraction Dilution*dt of them is washed out every sub-step.
# Chemostat = true
# Dilution = 0.3

[AgentGrid]

# Width of a voxel of the agent grid. It is corrected so that a whole number
# of voxels spans the domain.
Resolution = 8

#######################
# Optional Parameters #
#######################

# A relaxation run stops once fewer than ShovingFraction of the agents are
# still moving, or after ShovingMaxIter passes. Defaults are 0.025 and 250.
# ShovingFraction = 0.025
# ShovingMaxIter = 250

# Split each push between both agents. Default is true.
# ShovingMutual = false

# Compute every movement of a pass before moving any agent. Passes that are
# synchronous and not mutual can use several goroutines.
# Synchronous = true
# Workers = 4

[Species "MyHeterotroph"]

# Mean and coefficient of variation of the radius at which agents divide,
# the radius at which they die and the fraction of mass given to a child.
# Defaults are 0.97, 0.2 and 0.5 for the means.
DivRadius = 0.97
DivRadiusCV = 0.1
DeathRadius = 0.2
DeathRadiusCV = 0.1
BabyMassFrac = 0.5
BabyMassFracCV = 0.1

# Shove radius as a multiple of the total radius, and the extra gap kept
# between agents. Defaults are 1.15 and 0.
# ShoveFactor = 1.15
# ShoveLimit = 0

# One Density line per mass compartment. Capsule makes the last compartment
# an extracellular capsule that is excluded from the core radius.
Density = 290
Density = 290
# Capsule = true

# Growth rate of each compartment. Missing rates are zero.
GrowthRate = 0.1

[Boundary "y0z"]
# Boundaries are named after a face of the domain box, one of
# [ y0z | yNz | x0z | xNz | x0y | xNy ], where "y0z" is the x = 0 face.
# Class is one of [ Cyclic | Bulk | Constant | ZeroFlux | GasMembrane | Agar ].
# A cyclic face also creates its opposite face.
Class = Cyclic

[Boundary "x0z"]
Class = ZeroFlux
# Faces are tested in increasing Priority, then by name. Default is 0.
Priority = -1

[Boundary "xNz"]
Class = Bulk
Bulk = MyTank

[Boundary "x0y"]
Class = Cyclic

# Sides that are not faces of the box give PointIn and VectorOut (and, for
# cyclic sides, OppPointIn and OppVectorOut) as three lines each, in units
# of domain cells:
# [Boundary "tilted"]
# Class = ZeroFlux
# PointIn = 0
# PointIn = -1
# PointIn = 0
# VectorOut = 0
# VectorOut = -1
# VectorOut = 0`

type RunConfig struct {
	// Required
	Steps int
	TimeStep float64
	SeedFile string

	// Optional
	AgentTimeStep float64
	Seed int64
	LogLevel, LogFile, ProfileFile string
	MetricsFile, OutputFile string
}

func (con *RunConfig) ValidSteps() bool { return con.Steps > 0 }
func (con *RunConfig) ValidTimeStep() bool { return con.TimeStep > 0 }
func (con *RunConfig) ValidSeedFile() bool { return con.SeedFile != "" }
func (con *RunConfig) ValidAgentTimeStep() bool {
	return con.AgentTimeStep > 0
}
func (con *RunConfig) ValidLogFile() bool { return con.LogFile != "" }
func (con *RunConfig) ValidProfileFile() bool { return con.ProfileFile != "" }
func (con *RunConfig) ValidMetricsFile() bool { return con.MetricsFile != "" }
func (con *RunConfig) ValidOutputFile() bool { return con.OutputFile != "" }

type DomainConfig struct {
	// Required
	Resolution float64
	NI, NJ, NK int

	// Optional
	Name string
	Dimensions int
	Chemostat bool
	Dilution float64
}

func (con *DomainConfig) ValidResolution() bool { return con.Resolution > 0 }
func (con *DomainConfig) ValidDimensions() bool {
	return con.Dimensions == 2 || con.Dimensions == 3
}
func (con *DomainConfig) ValidCells() bool {
	if con.Chemostat { return true }
	return con.NI > 0 && con.NJ > 0 && (con.Dimensions == 2 || con.NK > 0)
}
func (con *DomainConfig) ValidDilution() bool { return con.Dilution >= 0 }

type AgentGridConfig struct {
	// Required
	Resolution float64

	// Optional
	ShovingFraction float64
	ShovingMaxIter int
	ShovingMutual, Synchronous bool
	Workers int
}

func (con *AgentGridConfig) ValidResolution() bool {
	return con.Resolution > 0
}
func (con *AgentGridConfig) ValidShovingFraction() bool {
	return con.ShovingFraction >= 0 && con.ShovingFraction <= 1
}
func (con *AgentGridConfig) ValidShovingMaxIter() bool {
	return con.ShovingMaxIter > 0
}
func (con *AgentGridConfig) ValidWorkers() bool { return con.Workers > 0 }

type SpeciesConfig struct {
	DivRadius, DivRadiusCV float64
	DeathRadius, DeathRadiusCV float64
	BabyMassFrac, BabyMassFracCV float64
	ShoveFactor, ShoveLimit float64
	Density []float64
	Capsule bool
	GrowthRate []float64

	// Optional, "undocumented"
	Name string
}

// CheckInit fills in the defaults of unset fields and checks the rest.
func (con *SpeciesConfig) CheckInit(name string) error {
	def := agent.DefaultParam(name, 0)
	if con.DivRadius == 0 { con.DivRadius = def.DivRadius }
	if con.DeathRadius == 0 { con.DeathRadius = def.DeathRadius }
	if con.BabyMassFrac == 0 { con.BabyMassFrac = def.BabyMassFrac }
	if con.ShoveFactor == 0 { con.ShoveFactor = def.ShoveFactor }
	if len(con.Density) == 0 { con.Density = def.Densities }
	con.Name = name

	_, err := con.Param(0)
	return err
}

// Param converts the section into the species parameters of the given
// index.
func (con *SpeciesConfig) Param(index int) (*agent.Param, error) {
	p := agent.DefaultParam(con.Name, index)
	p.DivRadius, p.DivRadiusCV = con.DivRadius, con.DivRadiusCV
	p.DeathRadius, p.DeathRadiusCV = con.DeathRadius, con.DeathRadiusCV
	p.BabyMassFrac, p.BabyMassFracCV = con.BabyMassFrac, con.BabyMassFracCV
	p.ShoveFactor, p.ShoveLimit = con.ShoveFactor, con.ShoveLimit
	p.Densities = append([]float64{}, con.Density...)
	p.Capsule = con.Capsule
	p.GrowthRates = append([]float64{}, con.GrowthRate...)

	if err := p.Validate(); err != nil { return nil, err }
	return p, nil
}

type BoundaryConfig struct {
	// Required
	Class string

	// Optional
	Priority int
	PointIn, VectorOut []int
	OppPointIn, OppVectorOut []int
	Bulk string
	PermeableTo []string
	Permeability []float64

	// Optional, "undocumented"
	Name string
	Kind boundary.Kind
}

func (con *BoundaryConfig) CheckInit(name string) error {
	kind, ok := boundary.KindFromString(con.Class)
	if !ok {
		return fmt.Errorf(
			"Boundary '%s' has unrecognized Class '%s'. Expected one of "+
				"[ Cyclic | Bulk | Constant | ZeroFlux | GasMembrane | Agar ].",
			name, con.Class,
		)
	}
	con.Kind, con.Name = kind, name

	if len(con.PointIn) == 0 && len(con.VectorOut) == 0 {
		return nil
	} else if len(con.PointIn) != 3 || len(con.VectorOut) != 3 {
		return fmt.Errorf(
			"Boundary '%s' must give three PointIn and three VectorOut "+
				"values, but gave %d and %d.",
			name, len(con.PointIn), len(con.VectorOut),
		)
	} else if kind == boundary.Cyclic &&
		(len(con.OppPointIn) != 3 || len(con.OppVectorOut) != 3) {
		return fmt.Errorf(
			"Cyclic boundary '%s' must give three OppPointIn and three "+
				"OppVectorOut values.", name,
		)
	} else if len(con.PermeableTo) != len(con.Permeability) {
		return fmt.Errorf(
			"Boundary '%s' gives %d PermeableTo values but %d "+
				"Permeability values.",
			name, len(con.PermeableTo), len(con.Permeability),
		)
	}
	return nil
}

func (con *BoundaryConfig) IsStandardSide() bool {
	return len(con.PointIn) == 0
}

func toDVec(x []int) geom.DVec {
	if len(x) != 3 { return geom.DVec{} }
	return geom.DVec{x[0], x[1], x[2]}
}

// Spec returns the boundary spec of the section inside d.
func (con *BoundaryConfig) Spec(d *domain.Domain) (*boundary.Spec, error) {
	var spec *boundary.Spec
	if con.IsStandardSide() {
		var err error
		if spec, err = d.StandardSide(con.Name); err != nil { return nil, err }
	} else {
		spec = &boundary.Spec{
			Side: con.Name, Resolution: d.Resolution, Is3D: d.Is3D,
			PointIn: toDVec(con.PointIn), VectorOut: toDVec(con.VectorOut),
			OppPointIn: toDVec(con.OppPointIn),
			OppVectorOut: toDVec(con.OppVectorOut),
		}
	}

	spec.Bulk = con.Bulk
	if len(con.PermeableTo) > 0 {
		spec.Permeability = map[string]float64{}
		for i, solute := range con.PermeableTo {
			spec.Permeability[solute] = con.Permeability[i]
		}
	}
	return spec, nil
}

type RunWrapper struct {
	Run RunConfig
	Domain DomainConfig
	AgentGrid AgentGridConfig
	Species map[string]*SpeciesConfig
	Boundary map[string]*BoundaryConfig
}

func DefaultRunWrapper() *RunWrapper {
	w := &RunWrapper{}
	w.Run.LogLevel = "info"
	w.Domain.Name = "MyBiofilm"
	w.Domain.Dimensions = 3

	def := population.DefaultConfig()
	w.AgentGrid.ShovingFraction = def.ShovingFraction
	w.AgentGrid.ShovingMaxIter = def.ShovingMaxIter
	w.AgentGrid.ShovingMutual = def.Mutual
	w.AgentGrid.Synchronous = def.Synchronous
	w.AgentGrid.Workers = def.Workers
	return w
}

// ReadRunConfig reads the run file at fname on top of the defaults and
// checks it.
func ReadRunConfig(fname string) (*RunWrapper, error) {
	w := DefaultRunWrapper()
	if err := gcfg.ReadFileInto(w, fname); err != nil { return nil, err }
	if err := w.CheckInit(); err != nil { return nil, err }
	return w, nil
}

// ReadRunConfigString is ReadRunConfig for a configuration held in memory.
func ReadRunConfigString(text string) (*RunWrapper, error) {
	w := DefaultRunWrapper()
	if err := gcfg.ReadStringInto(w, text); err != nil { return nil, err }
	if err := w.CheckInit(); err != nil { return nil, err }
	return w, nil
}

func (w *RunWrapper) CheckInit() error {
	run, dom, grid := &w.Run, &w.Domain, &w.AgentGrid

	if !run.ValidSteps() {
		return fmt.Errorf("Invalid/non-existent 'Steps' value.")
	} else if !run.ValidTimeStep() {
		return fmt.Errorf("Invalid/non-existent 'TimeStep' value.")
	} else if !run.ValidSeedFile() {
		return fmt.Errorf("Invalid/non-existent 'SeedFile' value.")
	} else if run.AgentTimeStep < 0 {
		return fmt.Errorf("Invalid 'AgentTimeStep' value.")
	}
	if !run.ValidAgentTimeStep() { run.AgentTimeStep = run.TimeStep }

	if !dom.ValidResolution() {
		return fmt.Errorf("Invalid/non-existent Domain 'Resolution' value.")
	} else if !dom.ValidDimensions() {
		return fmt.Errorf(
			"Domain 'Dimensions' must be 2 or 3, but is %d.", dom.Dimensions,
		)
	} else if !dom.ValidCells() {
		return fmt.Errorf("Invalid/non-existent 'NI', 'NJ' or 'NK' value.")
	} else if !dom.ValidDilution() {
		return fmt.Errorf("Invalid 'Dilution' value.")
	}

	if !grid.ValidResolution() {
		return fmt.Errorf(
			"Invalid/non-existent AgentGrid 'Resolution' value.",
		)
	} else if !grid.ValidShovingFraction() {
		return fmt.Errorf("Invalid 'ShovingFraction' value.")
	} else if !grid.ValidShovingMaxIter() {
		return fmt.Errorf("Invalid 'ShovingMaxIter' value.")
	} else if !grid.ValidWorkers() {
		return fmt.Errorf("Invalid 'Workers' value.")
	}

	if len(w.Species) == 0 {
		return fmt.Errorf("Must supply at least one Species section.")
	}
	for name, sp := range w.Species {
		if err := sp.CheckInit(name); err != nil { return err }
	}
	for name, b := range w.Boundary {
		if err := b.CheckInit(name); err != nil { return err }
	}
	return nil
}

// SpeciesNames returns the species section names in index order.
func (w *RunWrapper) SpeciesNames() []string {
	names := make([]string, 0, len(w.Species))
	for name := range w.Species { names = append(names, name) }
	sort.Strings(names)
	return names
}

// Params returns the parameters of every species. A species' index is the
// position of its name in sorted order.
func (w *RunWrapper) Params() ([]*agent.Param, error) {
	names := w.SpeciesNames()
	out := make([]*agent.Param, len(names))
	for i, name := range names {
		p, err := w.Species[name].Param(i)
		if err != nil { return nil, err }
		out[i] = p
	}
	return out, nil
}

// boundaries returns the boundary sections ordered by priority and name.
func (w *RunWrapper) boundaries() []*BoundaryConfig {
	out := make([]*BoundaryConfig, 0, len(w.Boundary))
	for _, b := range w.Boundary { out = append(out, b) }
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// BuildDomain creates the domain and every configured boundary.
func (w *RunWrapper) BuildDomain() (*domain.Domain, error) {
	con := &w.Domain
	d, err := domain.New(
		con.Name, con.Resolution, geom.DVec{con.NI, con.NJ, con.NK},
		con.Dimensions == 3, con.Chemostat,
	)
	if err != nil { return nil, err }

	for _, bc := range w.boundaries() {
		spec, err := bc.Spec(d)
		if err != nil { return nil, err }
		bs, err := boundary.New(bc.Kind, spec)
		if err != nil { return nil, err }
		d.AddBoundaries(bs...)
	}
	return d, nil
}

// ContainerConfig returns the relaxation settings of the population.
func (w *RunWrapper) ContainerConfig() population.Config {
	return population.Config{
		ShovingFraction: w.AgentGrid.ShovingFraction,
		ShovingMaxIter: w.AgentGrid.ShovingMaxIter,
		Mutual: w.AgentGrid.ShovingMutual,
		Synchronous: w.AgentGrid.Synchronous,
		Workers: w.AgentGrid.Workers,
		DilutionRate: w.Domain.Dilution,
	}
}
