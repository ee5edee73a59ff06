package boundary

import (
	"strings"
)

// Kind enumerates the boundary conditions a domain side can carry.
type Kind int
const (
	Cyclic Kind = iota
	Bulk
	Constant
	ZeroFlux
	GasMembrane
	Agar
	EndKind
)

// KindFromString parses a boundary class name. Names are case insensitive
// and may carry the "Boundary" prefix used by protocol files.
func KindFromString(s string) (k Kind, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "boundary")
	switch s {
	case "cyclic", "periodic":
		return Cyclic, true
	case "bulk":
		return Bulk, true
	case "constant":
		return Constant, true
	case "zeroflux", "zero-flux":
		return ZeroFlux, true
	case "gasmembrane", "membrane":
		return GasMembrane, true
	case "agar":
		return Agar, true
	}
	return Cyclic, false
}

func (k Kind) String() string {
	switch k {
	case Cyclic:
		return "Cyclic"
	case Bulk:
		return "Bulk"
	case Constant:
		return "Constant"
	case ZeroFlux:
		return "ZeroFlux"
	case GasMembrane:
		return "GasMembrane"
	case Agar:
		return "Agar"
	}
	panic(":3")
}

// Status is the classification of a voxel of the agent grid.
type Status int
const (
	StatusOutside Status = -1
	StatusCarrier Status = 0
	StatusPopulated Status = 1
	StatusLiquid Status = 2
	StatusBulk Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusOutside:
		return "outside"
	case StatusCarrier:
		return "carrier"
	case StatusPopulated:
		return "biofilm"
	case StatusLiquid:
		return "liquid"
	case StatusBulk:
		return "bulk"
	}
	return "unknown"
}
