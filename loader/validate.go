package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/warcore/engine/world"
	"github.com/nathoo/warcore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled scenario for referential integrity and
// consistency.
func validate(scn *types.ScenarioDef) error {
	ve := &ValidationError{}

	if scn.Title == "" {
		ve.Errors = append(ve.Errors, "Scenario.title is required")
	}
	if len(scn.Factions) == 0 {
		ve.Errors = append(ve.Errors, "at least one Faction is required")
	}

	if scn.Map.Width <= 0 || scn.Map.Height <= 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"Map dimensions %dx%d are not positive", scn.Map.Width, scn.Map.Height))
	}
	if scn.Map.DefaultTerrain == "" {
		ve.Errors = append(ve.Errors, "Map.terrain is required")
	} else if dt, ok := scn.Entities[scn.Map.DefaultTerrain]; !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"Map.terrain references undefined class %q", scn.Map.DefaultTerrain))
	} else if dt.Kind != types.KindTerrain || !dt.Background {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"Map.terrain %q must be a background terrain class", scn.Map.DefaultTerrain))
	}

	if scn.IncomeResource != "" {
		if vc, ok := scn.Variables[scn.IncomeResource]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"Scenario.income references undefined variable %q", scn.IncomeResource))
		} else if vc.Category != types.Resource {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"Scenario.income %q is not a resource", scn.IncomeResource))
		}
	}

	for id, vc := range scn.Variables {
		if vc.Max < vc.Min {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"variable %q has max %d below min %d", id, vc.Max, vc.Min))
		}
		if vc.Limited && vc.Category != types.Resource {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"variable %q is limited but not a resource", id))
		}
	}

	for id, ec := range scn.Entities {
		validateEntityClass(id, ec, scn, ve)
	}

	factionIDs := map[string]bool{}
	for _, fc := range scn.Factions {
		if factionIDs[fc.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate faction ID %q", fc.ID))
		}
		factionIDs[fc.ID] = true
		validateFactionClass(fc, scn, ve)
	}

	for i, area := range scn.Areas {
		validateArea(i, area, scn, factionIDs, ve)
	}

	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateEntityClass(id string, ec *types.EntityClass, scn *types.ScenarioDef, ve *ValidationError) {
	for varID := range ec.Attributes {
		if vc, ok := scn.Variables[varID]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"class %q attribute references undefined variable %q", id, varID))
		} else if vc.Category != types.Attribute {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"class %q lists resource %q as an attribute", id, varID))
		}
	}
	for varID := range ec.Resources {
		if vc, ok := scn.Variables[varID]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"class %q resource references undefined variable %q", id, varID))
		} else if vc.Category != types.Resource {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"class %q lists attribute %q as a resource", id, varID))
		}
	}
	for varID := range ec.Cost {
		if vc, ok := scn.Variables[varID]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"class %q cost references undefined variable %q", id, varID))
		} else if vc.Category != types.Resource {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"class %q cost uses attribute %q", id, varID))
		}
	}
	for _, varID := range ec.Decisive {
		if _, ok := ec.Resources[varID]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"class %q decisive resource %q is not among its resources", id, varID))
		}
	}

	switch ec.Kind {
	case types.KindUnit:
		for _, varID := range [...]string{world.VarMovement, world.VarStrength, world.VarRange} {
			if _, ok := ec.Attributes[varID]; !ok {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"unit class %q has no %q attribute", id, varID))
			}
		}
		if _, ok := ec.Resources[world.VarHits]; !ok {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"unit class %q has no %q resource and cannot be destroyed", id, world.VarHits))
		}
	case types.KindTerrain:
		if ec.Background && len(ec.Cost) > 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"background terrain %q cannot be buildable", id))
		}
	case types.KindUpgrade:
		if ec.Background || ec.BlocksAttack || ec.MoveCost != 0 || ec.Valuation != 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"upgrade class %q uses terrain-only fields", id))
		}
	}
}

func validateFactionClass(fc *types.FactionClass, scn *types.ScenarioDef, ve *ValidationError) {
	for _, classID := range fc.Buildable {
		ec, ok := scn.Entities[classID]
		if !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"faction %q buildable references undefined class %q", fc.ID, classID))
			continue
		}
		if ec.BuildCount <= 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"faction %q lists %q as buildable but its build_count is zero", fc.ID, classID))
		}
	}
	for varID := range fc.Resources {
		if vc, ok := scn.Variables[varID]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"faction %q resource references undefined variable %q", fc.ID, varID))
		} else if vc.Category != types.Resource {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"faction %q starting resource %q is an attribute", fc.ID, varID))
		}
	}
	if fc.HomeX < 0 || fc.HomeX >= scn.Map.Width || fc.HomeY < 0 || fc.HomeY >= scn.Map.Height {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"faction %q home (%d,%d) is outside the %dx%d map",
			fc.ID, fc.HomeX, fc.HomeY, scn.Map.Width, scn.Map.Height))
	}
}

func validateArea(i int, area types.AreaDef, scn *types.ScenarioDef, factionIDs map[string]bool, ve *ValidationError) {
	if area.Width <= 0 || area.Height <= 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("area %d has empty extent", i))
	}
	if area.X < 0 || area.Y < 0 ||
		area.X+area.Width > scn.Map.Width || area.Y+area.Height > scn.Map.Height {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"area %d exceeds the %dx%d map", i, scn.Map.Width, scn.Map.Height))
	}
	if area.Owner != "" && !factionIDs[area.Owner] {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"area %d owner references undefined faction %q", i, area.Owner))
	}
	if area.Terrain != "" {
		if ec, ok := scn.Entities[area.Terrain]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"area %d terrain references undefined class %q", i, area.Terrain))
		} else if ec.Kind != types.KindTerrain {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"area %d terrain %q is not a terrain class", i, area.Terrain))
		}
	}
	for _, classID := range area.Units {
		if ec, ok := scn.Entities[classID]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"area %d unit references undefined class %q", i, classID))
		} else if ec.Kind != types.KindUnit {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"area %d places %q which is not a unit class", i, classID))
		}
	}
	for _, classID := range area.Effects {
		if ec, ok := scn.Entities[classID]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"area %d effect references undefined class %q", i, classID))
		} else if ec.Kind != types.KindEffect {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"area %d places %q which is not an effect class", i, classID))
		}
	}
}
