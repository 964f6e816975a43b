package method

import (
	"path/filepath"
	"testing"

	mockfixture "github.com/linecard/bpsync/pkg/mock/fixture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "events", "create.json")
	require.NoError(t, mockfixture.Copy("create.json", dst))

	got, err := Payload(dst)
	assert.NoError(t, err)
	assert.JSONEq(t, mockfixture.Read("create.json"), string(got))

	got, err = Payload("")
	assert.NoError(t, err)
	assert.Empty(t, got)

	_, err = Payload(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
