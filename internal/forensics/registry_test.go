package forensics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustBuiltin(t *testing.T) {
	r := MustBuiltin()
	require.NotNil(t, r)
	assert.GreaterOrEqual(t, r.Len(), 40, "builtin table should carry the full indicator set")
}

func TestRegisterRejectsDuplicateKind(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("ip", `\b(?:\d{1,3}\.){3}\d{1,3}\b`, "Endereços IPv4", 0))
	err := r.Register("ip", `\d+`, "duplicado", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestRegisterRejectsMalformedPattern(t *testing.T) {
	r := NewRegistry()
	err := r.Register("broken", `[unclosed`, "quebrado", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestAllSortsByTierKeepingRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("loose", `x+`, "loose", 2))
	require.NoError(t, r.Register("first", `a+`, "first", 0))
	require.NoError(t, r.Register("second", `b+`, "second", 0))

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Kind)
	assert.Equal(t, "second", all[1].Kind)
	assert.Equal(t, "loose", all[2].Kind)
}

func TestLabel(t *testing.T) {
	r := MustBuiltin()
	assert.Equal(t, "Endereços IPv4", r.Label("ip"))
	assert.Equal(t, "E-mails", r.Label("email"))
	// Unknown kinds fall back to the kind identifier.
	assert.Equal(t, "nope", r.Label("nope"))
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Endereços IPv4", KindLabel("ip"))
	assert.Equal(t, "Hashes SHA256", KindLabel("sha256"))
	assert.Equal(t, "nope", KindLabel("nope"))
}
