package gate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linecard/bpsync/pkg/convention/config"
)

// State is the outcome of a single gate. A disabled gate is NotEvaluated,
// which never blocks.
type State int

const (
	NotEvaluated State = iota
	True
	False
)

func (s State) String() string {
	switch s {
	case True:
		return "true"
	case False:
		return "false"
	}
	return "not evaluated"
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}

	switch str {
	case "true":
		*s = True
	case "false":
		*s = False
	case "not evaluated":
		*s = NotEvaluated
	default:
		return fmt.Errorf("unknown gate state %q", str)
	}

	return nil
}

type Result struct {
	CustomProperty  State `json:"customProperty"`
	BlueprintOption State `json:"blueprintOption"`
}

// Permits is true unless an enabled gate evaluated false.
func (r Result) Permits() bool {
	return r.CustomProperty != False && r.BlueprintOption != False
}

// Match tests whether rule occurs within candidate, ignoring case. Rules are
// `key: value` fragments and candidates hold many such pairs, so this is
// containment rather than equality.
func Match(enabled bool, rule, candidate string) State {
	if !enabled {
		return NotEvaluated
	}

	if strings.Contains(strings.ToLower(candidate), strings.ToLower(rule)) {
		return True
	}

	return False
}

func Evaluate(c config.Config) Result {
	return Result{
		CustomProperty:  Match(c.Options.RunOnCustomProperty, c.Match.CustomPropertyRule, c.Match.CustomPropertyCandidate),
		BlueprintOption: Match(c.Options.RunOnBlueprintOption, c.Match.BlueprintOptionRule, c.Match.BlueprintOptionCandidate),
	}
}
