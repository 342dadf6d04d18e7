package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_ImplementsErrorInterface(t *testing.T) {
	err := NewError(ErrUnknownSelector, "no selector named foo", "foo")
	require.Equal(t, "query: UnknownSelector: no selector named foo (at foo)", err.Error())

	var asErr error = err
	require.EqualError(t, asErr, err.Error())
}
