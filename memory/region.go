package memory

// RegionType classifies a named memory region (spec.md §6 `#type|addr|size`
// record), independent of the Descriptor bits tracked per byte.
type RegionType int

const (
	// RegionUnspecified is the zero value, used when a label declaration
	// omits the optional type field.
	RegionUnspecified RegionType = iota
	RegionROM
	RegionRAM
	RegionIO
)

var regionNames = map[RegionType]string{
	RegionUnspecified: "",
	RegionROM:         "ROM",
	RegionRAM:         "RAM",
	RegionIO:          "IO",
}

func (t RegionType) String() string {
	return regionNames[t]
}

// ParseRegionType is the inverse of String; an empty string parses to
// RegionUnspecified without error.
func ParseRegionType(s string) (RegionType, bool) {
	switch s {
	case "":
		return RegionUnspecified, true
	case "ROM":
		return RegionROM, true
	case "RAM":
		return RegionRAM, true
	case "IO":
		return RegionIO, true
	default:
		return RegionUnspecified, false
	}
}
