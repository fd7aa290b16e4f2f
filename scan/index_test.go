package scan

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablor21/annomodel/config"
	"github.com/pablor21/annomodel/internal/fixtures/palette"
	"github.com/pablor21/annomodel/models"
)

const (
	fixtures   = "github.com/pablor21/annomodel/internal/fixtures"
	palettePkg = fixtures + "/palette"
	canvasPkg  = fixtures + "/canvas"
)

func loadFixtures(t *testing.T, patterns ...string) *Index {
	t.Helper()
	if len(patterns) == 0 {
		patterns = []string{fixtures + "/..."}
	}
	pkgs, err := LoadPackages(context.Background(), LoadOptions{}, patterns...)
	require.NoError(t, err)
	require.NotEmpty(t, pkgs)
	return NewIndex(pkgs...)
}

func TestIndexDetectsEnums(t *testing.T) {
	idx := loadFixtures(t)

	got := map[string][]string{}
	for _, e := range idx.Enums() {
		for _, c := range e.Constants {
			got[e.Descriptor()] = append(got[e.Descriptor()], c.Name())
		}
	}
	want := map[string][]string{
		palettePkg + ".Color":  {"Red", "Green", "Blue"},
		palettePkg + ".Finish": {"Matte", "Glossy"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Enums() mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, idx.Records(), 5)
}

func TestLookupType(t *testing.T) {
	idx := loadFixtures(t)

	tn, err := idx.LookupType(palettePkg + ".Swatch")
	require.NoError(t, err)
	assert.Equal(t, "Swatch", tn.Name())

	_, err = idx.LookupType(palettePkg + ".Nope")
	assert.ErrorIs(t, err, ErrTypeNotFound)
	assert.Equal(t, int64(2), idx.Lookups())
}

func TestRecord(t *testing.T) {
	idx := loadFixtures(t)

	rec, err := idx.Record(palettePkg+".Color", "Green")
	require.NoError(t, err)
	assert.Equal(t, "Green", rec.Name)
	assert.Equal(t, palettePkg+".Color", rec.DeclaringType)
	assert.Same(t, idx, rec.Index)

	_, err = idx.Record(palettePkg+".Color", "Purple")
	assert.ErrorIs(t, err, ErrConstantNotFound)
	_, err = idx.Record(palettePkg+".Swatch", "Red")
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestStaticRecordsMatchRuntimeValues(t *testing.T) {
	idx := loadFixtures(t)

	runtime := map[string]models.Enum{
		"Red": palette.Red, "Green": palette.Green, "Blue": palette.Blue,
		"Matte": palette.Matte, "Glossy": palette.Glossy,
	}
	for _, rec := range idx.Records() {
		static, err := models.FromStaticRecord(rec)
		require.NoError(t, err)
		live, err := models.FromRuntimeValue(runtime[rec.Name])
		require.NoError(t, err)

		eq, err := static.Equal(live)
		require.NoError(t, err)
		assert.Truef(t, eq, "%s should equal runtime %v", rec.Name, runtime[rec.Name])

		hs, _ := static.Hash()
		hl, _ := live.Hash()
		assert.Equal(t, hs, hl)
	}

	red, _ := models.FromRuntimeValue(palette.Red)
	glossyRec, err := idx.Record(palettePkg+".Finish", "Glossy")
	require.NoError(t, err)
	glossy, _ := models.FromStaticRecord(glossyRec)
	eq, err := red.Equal(glossy)
	require.NoError(t, err)
	assert.False(t, eq)
}

type paramRow struct {
	Target string
	Param  string
	Value  string
}

func rows(t *testing.T, params []AnnotationParam) []paramRow {
	t.Helper()
	var out []paramRow
	for _, p := range params {
		require.NotNil(t, p.Value)
		out = append(out, paramRow{Target: p.Target, Param: p.Param, Value: p.Value.String()})
	}
	return out
}

func TestAnnotationParams(t *testing.T) {
	idx := loadFixtures(t, palettePkg, canvasPkg)

	got := rows(t, idx.AnnotationParams())
	want := []paramRow{
		{palettePkg + ".Swatch", "color", "Color.Red"},
		{palettePkg + ".Swatch", "finish", "Finish.Matte"},
		{palettePkg + ".Swatch.Accent", "", "Color.Green"},
		{canvasPkg + ".Canvas", "finish", "Finish.Glossy"},
		{canvasPkg + ".Canvas", "", "Color.Blue"},
		{canvasPkg + ".Canvas.Prime", "colors", "Color.Red"},
		{canvasPkg + ".Canvas.Prime", "colors", "Color.Green"},
		{canvasPkg + ".Background", "", "Color.Blue"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AnnotationParams() mismatch (-want +got):\n%s", diff)
	}

	again := idx.AnnotationParams()
	for i, p := range idx.AnnotationParams() {
		assert.Equal(t, "paint", p.Annotation.Name)
		assert.NotZero(t, p.Position.Line)
		assert.Same(t, p.Value, again[i].Value)
		assert.Same(t, p.Record, p.Value.Origin())
	}
}

func TestLoadFiltersAnnotationsAndExcludes(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Scanning.Packages = []string{fixtures + "/...", "!" + canvasPkg}
	cfg.Scanning.Annotations = []string{"@Paint"}

	idx, err := Load(context.Background(), cfg)
	require.NoError(t, err)

	for _, p := range idx.AnnotationParams() {
		assert.NotContains(t, p.Target, canvasPkg)
	}
	assert.Len(t, idx.AnnotationParams(), 3)

	cfg.Scanning.Annotations = []string{"label"}
	idx, err = Load(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, idx.AnnotationParams())
}

func TestLoadPackagesByFileGlob(t *testing.T) {
	pkgs, err := LoadPackages(context.Background(), LoadOptions{}, "../internal/fixtures/palette/*.go")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, palettePkg, pkgs[0].PkgPath)

	_, err = LoadPackages(context.Background(), LoadOptions{}, "../internal/fixtures/nothing/*.go")
	assert.Error(t, err)
}
