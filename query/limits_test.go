package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultLimits_Valid(t *testing.T) {
	require.NoError(t, DefaultLimits().Validate())
}

func TestLimits_Validate_RejectsNonPositiveFields(t *testing.T) {
	base := DefaultLimits()

	withPaths := base
	withPaths.MaxPaths = 0
	require.Error(t, withPaths.Validate())

	withNodes := base
	withNodes.MaxNodes = -1
	require.Error(t, withNodes.Validate())

	withDepth := base
	withDepth.MaxDepth = 0
	require.Error(t, withDepth.Validate())

	withTimeout := base
	withTimeout.Timeout = 0
	require.Error(t, withTimeout.Validate())
}

func TestLimits_Validate_ErrorIdentifiesSubterm(t *testing.T) {
	l := Limits{MaxPaths: 0, MaxNodes: 1, MaxDepth: 1, Timeout: time.Second}
	err := l.Validate()
	qerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, ErrInvalidLimits, qerr.Code)
	require.Equal(t, "limit_paths", qerr.Subterm)
}
