package graph_test

import (
	"context"
	"errors"
	"fmt"
	"go/types"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablor21/annomodel/graph"
	"github.com/pablor21/annomodel/internal/fixtures/palette"
	"github.com/pablor21/annomodel/models"
)

var palettePath = reflect.TypeOf(palette.Red).PkgPath()

type mapIndex struct {
	types   map[string]*types.TypeName
	lookups atomic.Int64
}

func newPaletteIndex() *mapIndex {
	pkg := types.NewPackage(palettePath, "palette")
	idx := &mapIndex{types: map[string]*types.TypeName{}}
	for _, name := range []string{"Color", "Finish"} {
		tn := types.NewTypeName(0, pkg, name, nil)
		types.NewNamed(tn, types.Typ[types.Int], nil)
		idx.types[models.Descriptor(palettePath, name)] = tn
	}
	return idx
}

func (m *mapIndex) LookupType(descriptor string) (*types.TypeName, error) {
	m.lookups.Add(1)
	tn, ok := m.types[descriptor]
	if !ok {
		return nil, fmt.Errorf("no type %s", descriptor)
	}
	return tn, nil
}

func static(t *testing.T, idx models.TypeIndex, typ, name string) *models.EnumValue {
	t.Helper()
	v, err := models.FromStaticRecord(&models.EnumRecord{
		Name:          name,
		DeclaringType: models.Descriptor(palettePath, typ),
		Index:         idx,
	})
	require.NoError(t, err)
	return v
}

func runtime(t *testing.T, e models.Enum) *models.EnumValue {
	t.Helper()
	v, err := models.FromRuntimeValue(e)
	require.NoError(t, err)
	return v
}

func classNames(classes []*models.ClassInfo) []string {
	var out []string
	for _, ci := range classes {
		out = append(out, ci.Name)
	}
	return out
}

func TestResolveInternsClasses(t *testing.T) {
	idx := newPaletteIndex()
	g := graph.New(graph.WithWorkers(2))
	g.Add(
		runtime(t, palette.Red),
		runtime(t, palette.Glossy),
		static(t, idx, "Color", "Red"),
		static(t, idx, "Finish", "Matte"),
		nil,
	)
	require.Len(t, g.Nodes(), 4)

	require.NoError(t, g.Resolve(context.Background()))
	assert.Equal(t, []string{"Color", "Finish"}, classNames(g.Classes()))

	for _, n := range g.Nodes() {
		deps, err := models.CollectDependencies(n)
		require.NoError(t, err)
		require.Len(t, deps, 1)
		interned := g.Intern(deps[0])
		assert.True(t, interned.Equal(deps[0]))
	}
}

func TestInternReturnsFirstInstance(t *testing.T) {
	g := graph.New()
	a, err := models.NewClassInfoFromReflect(reflect.TypeOf(palette.Red))
	require.NoError(t, err)
	b, err := models.NewClassInfoFromType(newPaletteIndex().types[models.Descriptor(palettePath, "Color")])
	require.NoError(t, err)

	assert.Same(t, a, g.Intern(a))
	assert.Same(t, a, g.Intern(b))
	assert.Nil(t, g.Intern(nil))
	assert.Len(t, g.Classes(), 1)
}

func TestResolveJoinsFailures(t *testing.T) {
	idx := newPaletteIndex()
	g := graph.New()
	g.Add(
		static(t, idx, "Color", "Blue"),
		static(t, idx, "Texture", "Rough"),
		static(t, idx, "Sheen", "Satin"),
	)

	err := g.Resolve(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrResolution)

	var re *models.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, models.BackendSource, re.Backend)
	assert.Equal(t, []string{"Color"}, classNames(g.Classes()))
}

func TestResolveHonoursCancellation(t *testing.T) {
	g := graph.New()
	g.Add(runtime(t, palette.Green))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.Resolve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, g.Classes())
}

func TestResolveManyNodesResolvesEachOnce(t *testing.T) {
	idx := newPaletteIndex()
	g := graph.New(graph.WithWorkers(8))
	const n = 200
	for i := range n {
		name := []string{"Red", "Green", "Blue"}[i%3]
		g.Add(static(t, idx, "Color", name))
	}

	require.NoError(t, g.Resolve(context.Background()))
	require.NoError(t, g.Resolve(context.Background()))
	assert.Equal(t, int64(n), idx.lookups.Load())
	assert.Len(t, g.Classes(), 1)
}

func TestWalkVisitsEachClassOnce(t *testing.T) {
	idx := newPaletteIndex()
	g := graph.New()
	g.Add(
		runtime(t, palette.Red),
		static(t, idx, "Color", "Green"),
		runtime(t, palette.Matte),
		static(t, idx, "Missing", "X"),
	)

	var visited []string
	err := g.Walk(func(ci *models.ClassInfo) error {
		visited = append(visited, ci.Name)
		return nil
	})
	assert.ErrorIs(t, err, models.ErrResolution)
	assert.Equal(t, []string{"Color", "Finish"}, visited)

	stop := errors.New("stop")
	calls := 0
	err = g.Walk(func(*models.ClassInfo) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestDedupeCollapsesEqualValues(t *testing.T) {
	idx := newPaletteIndex()
	g := graph.New()
	red := runtime(t, palette.Red)
	broken := static(t, idx, "Missing", "Red")
	g.Add(
		red,
		static(t, idx, "Color", "Red"),
		runtime(t, palette.Blue),
		broken,
		static(t, idx, "Missing", "Red"),
	)

	got := g.Dedupe()
	require.Len(t, got, 4)
	assert.Same(t, red, got[0])
	assert.Same(t, broken, got[2])
}
