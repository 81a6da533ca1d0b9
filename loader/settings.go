package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/warcore/types"
)

// LoadSettings reads the per-faction player configuration from a YAML
// file next to the scenario. A missing file means every faction is a
// human player.
func LoadSettings(path string) (*types.Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &types.Settings{Factions: map[string]types.FactionSettings{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	var s types.Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	if s.Factions == nil {
		s.Factions = map[string]types.FactionSettings{}
	}
	return &s, nil
}
