package cli

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Intent
		wantErr bool
	}{
		{"empty line", "   ", Intent{}, false},
		{"build placed", "build warrior 2 3", Intent{Kind: IntentBuild, ClassID: "warrior", X: 2, Y: 3, Place: true}, false},
		{"build upgrade", "build steel", Intent{Kind: IntentBuild, ClassID: "steel"}, false},
		{"build alias", "b warrior 0 0", Intent{Kind: IntentBuild, ClassID: "warrior", Place: true}, false},
		{"build wrong arity", "build warrior 2", Intent{}, true},
		{"build bad coord", "build warrior two 3", Intent{}, true},
		{"move one unit", "move warrior-1 4 0", Intent{Kind: IntentMove, UnitIDs: []string{"warrior-1"}, X: 4}, false},
		{"move group", "mv warrior-1 warrior-2 1 1", Intent{Kind: IntentMove, UnitIDs: []string{"warrior-1", "warrior-2"}, X: 1, Y: 1}, false},
		{"move too few words", "move warrior-1 4", Intent{}, true},
		{"attack", "attack warrior-1 warrior-3", Intent{Kind: IntentAttack, UnitIDs: []string{"warrior-1", "warrior-3"}}, false},
		{"attack alias", "atk warrior-1 warrior-3", Intent{Kind: IntentAttack, UnitIDs: []string{"warrior-1", "warrior-3"}}, false},
		{"attack wrong arity", "attack warrior-1", Intent{}, true},
		{"end", "end", Intent{Kind: IntentEndTurn}, false},
		{"end alias", "pass", Intent{Kind: IntentEndTurn}, false},
		{"resign", "resign", Intent{Kind: IntentResign}, false},
		{"resign alias", "quit", Intent{Kind: IntentResign}, false},
		{"case folding", "MOVE WARRIOR-1 2 2", Intent{Kind: IntentMove, UnitIDs: []string{"warrior-1"}, X: 2, Y: 2}, false},
		{"unknown verb", "dance", Intent{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %+v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
