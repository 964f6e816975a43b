package gate

import (
	"encoding/json"
	"testing"

	"github.com/linecard/bpsync/pkg/convention/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		rule      string
		candidate string
		expected  State
	}{
		{"disabled gate is not evaluated", false, "a: b", "", NotEvaluated},
		{"disabled gate ignores a mismatch", false, "a: b", "c: d", NotEvaluated},
		{"rule contained in candidate", true, "cloudZoneProp: aws", "cloudzoneprop: aws, region: us-west", True},
		{"containment ignores case both ways", true, "GITLABSYNCENABLE: TRUE", "{gitlabsyncenable: true}", True},
		{"rule absent from candidate", true, "cloudZoneProp: aws", "cloudzoneprop: azure", False},
		{"empty candidate never matches a rule", true, "gitlabSyncEnable: true", "", False},
		{"empty rule matches anything", true, "", "whatever", True},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Match(tc.enabled, tc.rule, tc.candidate))
		})
	}
}

func TestPermits(t *testing.T) {
	states := []State{NotEvaluated, True, False}

	for _, cp := range states {
		for _, bo := range states {
			r := Result{CustomProperty: cp, BlueprintOption: bo}
			expected := cp != False && bo != False
			assert.Equalf(t, expected, r.Permits(), "customProperty=%s blueprintOption=%s", cp, bo)
		}
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("both gates disabled always permit", func(t *testing.T) {
		c := config.Config{
			Match: config.Match{
				CustomPropertyRule:  "cloudzoneprop: aws",
				BlueprintOptionRule: "gitlabsyncenable: true",
			},
		}

		r := Evaluate(c)
		assert.Equal(t, Result{NotEvaluated, NotEvaluated}, r)
		assert.True(t, r.Permits())
	})

	t.Run("enabled property gate against a matching candidate", func(t *testing.T) {
		c := config.Config{
			Options: config.Options{RunOnCustomProperty: true},
			Match: config.Match{
				CustomPropertyRule:      "cloudZoneProp: aws",
				CustomPropertyCandidate: "cloudzoneprop: aws, region: us-west",
			},
		}

		r := Evaluate(c)
		assert.Equal(t, True, r.CustomProperty)
		assert.Equal(t, NotEvaluated, r.BlueprintOption)
		assert.True(t, r.Permits())
	})

	t.Run("enabled option gate mismatch blocks", func(t *testing.T) {
		c := config.Config{
			Options: config.Options{RunOnBlueprintOption: true},
			Match: config.Match{
				BlueprintOptionRule:      "gitlabsyncenable: true",
				BlueprintOptionCandidate: "{gitlabsyncenable: false}",
			},
		}

		r := Evaluate(c)
		assert.Equal(t, False, r.BlueprintOption)
		assert.False(t, r.Permits())
	})
}

func TestStateJson(t *testing.T) {
	b, err := json.Marshal(Result{CustomProperty: True, BlueprintOption: NotEvaluated})
	require.NoError(t, err)
	assert.JSONEq(t, `{"customProperty":"true","blueprintOption":"not evaluated"}`, string(b))

	var r Result
	require.NoError(t, json.Unmarshal(b, &r))
	assert.Equal(t, Result{True, NotEvaluated}, r)
}
