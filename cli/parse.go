// Package cli provides terminal I/O, command parsing, and meta-command
// dispatch for the WarCore engine.
package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// IntentKind identifies the parsed player intent.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentBuild
	IntentMove
	IntentAttack
	IntentEndTurn
	IntentResign
)

// Intent is one parsed game command line.
type Intent struct {
	Kind    IntentKind
	ClassID string   // build
	UnitIDs []string // move: units, attack: attacker then target
	X, Y    int
	Place   bool // build: placement coordinates given
}

var verbAliases = map[string]string{
	"b":       "build",
	"con":     "build",
	"make":    "build",
	"m":       "move",
	"mv":      "move",
	"walk":    "move",
	"a":       "attack",
	"atk":     "attack",
	"hit":     "attack",
	"strike":  "attack",
	"e":       "end",
	"done":    "end",
	"pass":    "end",
	"quit":    "resign",
	"concede": "resign",
}

// Parse converts a raw command line into an Intent. Intentionally dumb:
// no NLP, just word patterns.
//
//	build <class> [x y]
//	move <unit> [unit...] <x> <y>
//	attack <attacker> <target>
//	end
//	resign
func Parse(input string) (Intent, error) {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(words) == 0 {
		return Intent{}, nil
	}

	verb := words[0]
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}
	rest := words[1:]

	switch verb {
	case "build":
		return parseBuild(rest)
	case "move":
		return parseMove(rest)
	case "attack":
		if len(rest) != 2 {
			return Intent{}, fmt.Errorf("usage: attack <attacker> <target>")
		}
		return Intent{Kind: IntentAttack, UnitIDs: rest}, nil
	case "end":
		return Intent{Kind: IntentEndTurn}, nil
	case "resign":
		return Intent{Kind: IntentResign}, nil
	}
	return Intent{}, fmt.Errorf("unknown command %q (try: build, move, attack, end, resign)", words[0])
}

func parseBuild(rest []string) (Intent, error) {
	switch len(rest) {
	case 1:
		return Intent{Kind: IntentBuild, ClassID: rest[0]}, nil
	case 3:
		x, y, err := parseCoords(rest[1], rest[2])
		if err != nil {
			return Intent{}, err
		}
		return Intent{Kind: IntentBuild, ClassID: rest[0], X: x, Y: y, Place: true}, nil
	}
	return Intent{}, fmt.Errorf("usage: build <class> [x y]")
}

func parseMove(rest []string) (Intent, error) {
	if len(rest) < 3 {
		return Intent{}, fmt.Errorf("usage: move <unit> [unit...] <x> <y>")
	}
	x, y, err := parseCoords(rest[len(rest)-2], rest[len(rest)-1])
	if err != nil {
		return Intent{}, err
	}
	return Intent{Kind: IntentMove, UnitIDs: rest[:len(rest)-2], X: x, Y: y}, nil
}

func parseCoords(xs, ys string) (int, int, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a coordinate", xs)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a coordinate", ys)
	}
	return x, y, nil
}
