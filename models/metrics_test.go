package models

import (
	"errors"
	"go/types"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyIndex struct{}

func (emptyIndex) LookupType(string) (*types.TypeName, error) {
	return nil, errors.New("empty")
}

type level int

func (l level) String() string { return "HIGH" }

func TestResolutionCounter(t *testing.T) {
	okBefore := testutil.ToFloat64(classResolutions.WithLabelValues("reflection", "ok"))
	errBefore := testutil.ToFloat64(classResolutions.WithLabelValues("source", "error"))

	v, err := FromRuntimeValue(level(2))
	require.NoError(t, err)
	for range 3 {
		_, err := v.ClassInfo()
		require.NoError(t, err)
	}

	broken, err := FromStaticRecord(&EnumRecord{Name: "X", DeclaringType: "nowhere.T", Index: emptyIndex{}})
	require.NoError(t, err)
	_, _ = broken.ClassInfo()
	_, _ = broken.ClassInfo()

	assert.Equal(t, okBefore+1, testutil.ToFloat64(classResolutions.WithLabelValues("reflection", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(classResolutions.WithLabelValues("source", "error")))
}
