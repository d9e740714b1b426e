package game

import "fmt"

// SphereType identifies the kind of sphere occupying a grid cell.
type SphereType int

const (
	// SphereNone marks an empty cell between clearing and refill.
	SphereNone SphereType = iota - 1
	Red
	Cyan
	Green
	Yellow
	Key
	Dark
)

// AllSpheres lists every real sphere type, in ledger order.
var AllSpheres = []SphereType{Red, Cyan, Green, Yellow, Key, Dark}

// SpawnableSpheres are the types refill and random boards may produce.
// Dark is never spawned.
var SpawnableSpheres = []SphereType{Red, Cyan, Green, Yellow, Key}

var sphereNames = map[SphereType]string{
	SphereNone: "none",
	Red:        "red",
	Cyan:       "cyan",
	Green:      "green",
	Yellow:     "yellow",
	Key:        "key",
	Dark:       "dark",
}

func (s SphereType) String() string {
	if n, ok := sphereNames[s]; ok {
		return n
	}
	return fmt.Sprintf("sphere(%d)", int(s))
}

// Valid reports whether s is one of the six real sphere types.
func (s SphereType) Valid() bool {
	return s >= Red && s <= Dark
}

// MarshalText encodes the sphere by name so JSON maps keyed by SphereType
// read as {"red": 3} instead of {"0": 3}.
func (s SphereType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (s *SphereType) UnmarshalText(b []byte) error {
	for k, v := range sphereNames {
		if v == string(b) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown sphere type %q", string(b))
}

// StockCounts is a snapshot of the stock ledger keyed by sphere type.
type StockCounts map[SphereType]int
