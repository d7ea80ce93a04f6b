package tokens

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNilEstimatorReportsUnavailable(t *testing.T) {
	var e *Estimator
	n, ok := e.Count("hello")
	require.False(t, ok)
	require.Zero(t, n)
}
