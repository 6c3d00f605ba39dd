package desim

import "strings"

// Name is an object identifier split into its dot-separated segments, e.g.
// "Ring.NodeA" has segments "Ring" and "NodeA". A SimulationObject has no
// parent/child structure of its own — the segments exist only so a model
// can group related object names (a ring's members, a pipeline's stages)
// without inventing its own convention.
type Name struct {
	Segments []string
}

// ParseName splits a dotted name string into its segments.
func ParseName(sname string) Name {
	return Name{Segments: strings.Split(sname, ".")}
}

// NameMustBeValid panics if name does not follow the object naming
// convention: dot-separated segments, each non-empty, starting with a
// capital letter, and free of underscores, dashes, and quote characters.
func NameMustBeValid(name string) {
	n := ParseName(name)
	for _, segment := range n.Segments {
		segmentMustBeValid(name, segment)
	}
}

func segmentMustBeValid(fullName, segment string) {
	if segment == "" {
		panic("name " + fullName + " is not valid: segment must not be empty")
	}

	for _, c := range []string{"_", "\"", "'", "-"} {
		if strings.Contains(segment, c) {
			panic("name " + fullName + " is not valid: segment must not contain " + c)
		}
	}

	if segment[0] < 'A' || segment[0] > 'Z' {
		panic("name " + fullName + " is not valid: segment must start with a capital letter")
	}
}

// BuildName joins a parent name and a child element name with a dot. An
// empty parentName yields elementName unchanged, so the top of a naming
// hierarchy doesn't need special-casing by its caller.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}
