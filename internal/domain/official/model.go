package official

import (
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/synced-sports/internal/domain/location"
)

// Level is an ordered qualification tier. The zero value means no level
// has been assigned.
type Level int

const (
	LevelNone Level = iota
	LevelRookie
	LevelJunior
	LevelSenior
	LevelExpert
)

const (
	CapabilityEvaluate = "can_evaluate"
	CapabilityMentor   = "can_mentor"
)

var levelNames = map[Level]string{
	LevelNone:   "",
	LevelRookie: "rookie",
	LevelJunior: "junior",
	LevelSenior: "senior",
	LevelExpert: "expert",
}

// named tiers used by some associations map onto the same ladder.
var levelAliases = map[string]Level{
	"learning":   LevelRookie,
	"developing": LevelJunior,
	"proficient": LevelSenior,
}

// AllLevels lists assignable levels in ascending order.
var AllLevels = []Level{LevelRookie, LevelJunior, LevelSenior, LevelExpert}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func (l Level) Valid() bool {
	return l >= LevelRookie && l <= LevelExpert
}

func (l Level) Assigned() bool {
	return l != LevelNone
}

// ParseLevel maps a stored level name to a Level. An empty value yields
// LevelNone without error.
func ParseLevel(value string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if name == "" {
		return LevelNone, nil
	}
	for level, levelName := range levelNames {
		if level != LevelNone && levelName == name {
			return level, nil
		}
	}
	if level, ok := levelAliases[name]; ok {
		return level, nil
	}
	return LevelNone, fmt.Errorf("unknown qualification level %q", value)
}

// Official is the read-only snapshot the assignment engine evaluates.
type Official struct {
	ID               string
	Name             string
	Level            Level
	AllowedDivisions []string
	Home             location.Location
	MaxDistance      float64
	IsAvailable      bool
	BaseWage         float64
	Capabilities     []string
}

func (o Official) HasCapability(tag string) bool {
	return slices.Contains(o.Capabilities, tag)
}

func (o Official) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("official id is required")
	}
	if o.Level != LevelNone && !o.Level.Valid() {
		return fmt.Errorf("official level is invalid: %d", int(o.Level))
	}
	if o.MaxDistance < 0 {
		return fmt.Errorf("official max distance must not be negative")
	}

	return nil
}
