package material

import "fmt"

// Kind selects the procedural shader of a surface. The set is closed.
type Kind int

const (
	Star Kind = iota
	Rocky
	GasGiant
	Moon
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case Star:
		return "star"
	case Rocky:
		return "rocky"
	case GasGiant:
		return "gas-giant"
	case Moon:
		return "moon"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Emits reports whether surfaces of this kind produce emissive color
func (k Kind) Emits() bool {
	return k == Star
}
