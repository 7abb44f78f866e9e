package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvergnes/edtcal/internal/domain"
)

func TestScopeValue_AcceptsKnownScopes(t *testing.T) {
	for _, v := range []string{"service", "main", "visible", "all"} {
		var s scopeValue
		require.NoError(t, s.Set(v), v)
		assert.Equal(t, v, s.String())
	}
}

func TestScopeValue_RejectsUnknownScope(t *testing.T) {
	s := scopeValue(domain.ScopeVisible)

	err := s.Set("everything")

	require.Error(t, err)
	assert.Equal(t, string(domain.ScopeVisible), s.String(), "failed Set leaves the value unchanged")
}
