package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateConnectivity_AllowsListedPair(t *testing.T) {
	err := ValidateConnectivity(ClassFunc, ClassFunc, Edges(EdgeCalls))
	require.NoError(t, err)
}

func TestValidateConnectivity_RejectsUnlistedPair(t *testing.T) {
	err := ValidateConnectivity(ClassVar, ClassFunc, Edges(EdgeCalls))
	require.Error(t, err)
	qerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, ErrInvalidConnectivity, qerr.Code)
}

func TestValidateConnectivity_RejectsDisallowedEdgeClassForListedPair(t *testing.T) {
	err := ValidateConnectivity(ClassFunc, ClassVar, Edges(EdgeCalls))
	require.Error(t, err)
}

func TestValidateConnectivity_SkipsCheckWhenEitherEndpointIsAny(t *testing.T) {
	require.NoError(t, ValidateConnectivity(ClassAny, ClassFunc, Edges(EdgeCalls)))
	require.NoError(t, ValidateConnectivity(ClassFunc, ClassAny, Edges(EdgeCalls)))
}

func TestValidateConnectivity_EdgeAllAlwaysAllowed(t *testing.T) {
	require.NoError(t, ValidateConnectivity(ClassFunc, ClassFunc, All()))
}
