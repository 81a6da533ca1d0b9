// Package types defines the shared scenario data structures for the WarCore
// engine. This package contains only type definitions — no logic, no methods.
package types

// VariableCategory distinguishes the two kinds of numeric variables.
type VariableCategory int

const (
	// Attribute values always derive from initial value plus modifiers.
	Attribute VariableCategory = iota
	// Resource values are spent and gained during play.
	Resource
)

// VariableClass is the immutable template of a Variable, owned by the
// scenario layer. The engine never mutates class definitions.
type VariableClass struct {
	ID       string
	Name     string
	Category VariableCategory
	Min      int
	Max      int
	Scale    int
	// Limited caps a basic resource's current value at its initial value.
	Limited bool
}

// EntityKind identifies the concrete variant of an entity class.
type EntityKind int

const (
	KindUnit EntityKind = iota
	KindTerrain
	KindEffect
	KindUpgrade
)

// EntityClass is the immutable template of an Entity.
type EntityClass struct {
	ID   string
	Name string
	Kind EntityKind

	// Initial variable values keyed by VariableClass ID.
	Attributes map[string]int
	Resources  map[string]int

	// Cost to build, keyed by resource VariableClass ID.
	Cost map[string]int
	// BuildCount limits how many instances one faction may build.
	// Zero means the class cannot be built at all.
	BuildCount int
	// Multiple allows several live instances; they receive numbered names.
	Multiple bool

	// Decisive lists resource class IDs whose depletion removes the entity.
	Decisive []string

	// LineOfSight makes a unit's attacks require clear sight to the
	// target in addition to being in range.
	LineOfSight bool

	// Terrain-only fields.
	Background   bool
	BlocksAttack bool
	MoveCost     int
	Valuation    int
}

// FactionClass is the immutable template of a Faction.
type FactionClass struct {
	ID    string
	Name  string
	Color string
	// Buildable lists the entity class IDs this faction may build.
	Buildable []string
	// Resources holds starting resource values keyed by VariableClass ID.
	Resources map[string]int
	// HomeX/HomeY locate the faction's home site on the map.
	HomeX int
	HomeY int
}

// MapDef describes the scenario's site grid.
type MapDef struct {
	Width          int
	Height         int
	DefaultTerrain string // terrain EntityClass ID
}

// AreaDef populates a rectangular map region during initialization.
type AreaDef struct {
	X      int
	Y      int
	Width  int
	Height int

	Owner   string   // FactionClass ID, empty for neutral
	Terrain string   // background terrain class, empty keeps the default
	Units   []string // unit class IDs placed in reading order
	Effects []string // effect class IDs placed on every site of the area
}

// ScenarioDef is the complete compiled scenario: metadata, class
// definitions, map geometry, and initial areas.
type ScenarioDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
	Seed    int64

	Variables map[string]*VariableClass
	Entities  map[string]*EntityClass
	// Factions is ordered: turn order follows definition order.
	Factions []*FactionClass

	// IncomeResource names the resource class credited with each
	// faction's site valuation during its start-of-turn upkeep. Empty
	// disables income.
	IncomeResource string

	Map   MapDef
	Areas []AreaDef
}

// FactionSettings is the read-only per-faction player configuration.
type FactionSettings struct {
	IsComputer   bool `yaml:"computer"`
	UseScripting bool `yaml:"scripting"`
}

// Settings holds per-faction player configuration keyed by FactionClass ID.
type Settings struct {
	Factions map[string]FactionSettings `yaml:"factions"`
}
