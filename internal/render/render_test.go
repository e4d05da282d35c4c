package render

import (
	"bytes"
	"errors"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/omv.report/internal/fsutil"
	"github.com/banshee-data/omv.report/internal/voter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCounties() ([]voter.CountySummary, []voter.PartyCategory) {
	counties := []voter.CountySummary{
		{
			County: "Benton", Total: 50, MotorVoterCount: 25, Proportion: 0.5, MeanProportion: 0.5,
			ByCategory: map[voter.PartyCategory]float64{voter.Democrat: 0.3, voter.Republican: 0.1, "XYZ": 0.1},
		},
		{
			County: "Baker", Total: 100, MotorVoterCount: 20, Proportion: 0.2, MeanProportion: 0.2,
			ByCategory: map[voter.PartyCategory]float64{voter.Democrat: 0.1, voter.NonAffiliated: 0.05, voter.Other: 0.05},
		},
		{
			County: "", Total: 1, MotorVoterCount: 0, Proportion: 0, MeanProportion: 0,
			ByCategory: map[voter.PartyCategory]float64{voter.Democrat: 0},
		},
	}
	categories := []voter.PartyCategory{voter.Democrat, voter.Republican, voter.NonAffiliated, voter.Other, "XYZ"}
	return counties, categories
}

func TestRender_PNG(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	r := NewRenderer(mfs, Options{OutputDir: "/out"})

	counties, categories := sampleCounties()
	paths, err := r.Render(counties, categories)
	require.NoError(t, err)

	want := []string{filepath.Join("/out", "motor_voter_share.png"), filepath.Join("/out", "county_size.png")}
	assert.Equal(t, want, paths)
	assert.ElementsMatch(t, want, mfs.Files())

	for _, p := range paths {
		data, err := mfs.ReadFile(p)
		require.NoError(t, err)
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err, p)
		assert.Greater(t, cfg.Width, 0)
	}
}

func TestRender_HTML(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	r := NewRenderer(mfs, Options{OutputDir: "/out", Formats: []string{FormatHTML}, Subtitle: "run test"})

	counties, categories := sampleCounties()
	paths, err := r.Render(counties, categories)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	share, err := mfs.ReadFile("/out/motor_voter_share.html")
	require.NoError(t, err)
	page := string(share)
	assert.Contains(t, page, "Benton")
	assert.Contains(t, page, "50.0%")
	assert.Contains(t, page, "Republican")
	assert.Contains(t, page, "XYZ")

	size, err := mfs.ReadFile("/out/county_size.html")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(size), "\"log\""), "x axis should be log scaled")
}

func TestRender_NoData(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	_, err := NewRenderer(mfs, Options{OutputDir: "/out"}).Render(nil, nil)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Empty(t, mfs.Files())
}

func TestRender_UnknownFormatWritesNothing(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	counties, categories := sampleCounties()

	_, err := NewRenderer(mfs, Options{OutputDir: "/out", Formats: []string{FormatPNG, "svg"}}).Render(counties, categories)
	assert.Error(t, err)
	assert.Empty(t, mfs.Files())
}

func TestPlots_CarrySubtitle(t *testing.T) {
	counties, categories := sampleCounties()
	const sub = "150 active registrations, 2 counties, 2026-03-09"

	share, _, err := sharePlot(counties, categories, sub)
	require.NoError(t, err)
	assert.Equal(t, "Motor voter share of active registrations by county\n"+sub, share.Title.Text)

	size, err := sizePlot(counties, sub)
	require.NoError(t, err)
	assert.Equal(t, "County size vs motor voter share\n"+sub, size.Title.Text)

	plain, err := sizePlot(counties, "")
	require.NoError(t, err)
	assert.Equal(t, "County size vs motor voter share", plain.Title.Text)
}

// failingRenameFS fails to move one file into place.
type failingRenameFS struct {
	*fsutil.MemoryFileSystem
	fail string
}

var errRename = errors.New("disk full")

func (f failingRenameFS) Rename(oldpath, newpath string) error {
	if newpath == f.fail {
		return errRename
	}
	return f.MemoryFileSystem.Rename(oldpath, newpath)
}

func TestRender_WriteFailureRemovesWrittenCharts(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	fsys := failingRenameFS{MemoryFileSystem: mfs, fail: filepath.Join("/out", "motor_voter_share.html")}
	counties, categories := sampleCounties()

	paths, err := NewRenderer(fsys, Options{OutputDir: "/out", Formats: []string{FormatPNG, FormatHTML}}).Render(counties, categories)
	assert.ErrorIs(t, err, errRename)
	assert.Nil(t, paths)
	assert.Empty(t, mfs.Files())
}

func TestRender_SingleCounty(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	counties := []voter.CountySummary{{
		County: "Wheeler", Total: 1, MotorVoterCount: 1, Proportion: 1, MeanProportion: 1,
		ByCategory: map[voter.PartyCategory]float64{voter.Republican: 1},
	}}

	_, err := NewRenderer(mfs, Options{OutputDir: "/out"}).Render(counties, []voter.PartyCategory{voter.Republican})
	require.NoError(t, err)
	assert.Len(t, mfs.Files(), 2)
}

func TestCategoryPalette(t *testing.T) {
	cats := []voter.PartyCategory{voter.Democrat, "AAA", voter.Republican, "BBB"}
	colors := categoryPalette(cats)
	require.Len(t, colors, 4)
	assert.Equal(t, categoryColors[voter.Democrat], colors[0])
	assert.Equal(t, categoryColors[voter.Republican], colors[2])
	assert.NotEqual(t, colors[1], colors[3])
	assert.Equal(t, "#1f5fbf", hexColor(colors[0]))
}

func TestHSLToRGB(t *testing.T) {
	r, g, b := hslToRGB(0, 0, 0.5)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)

	r, g, b = hslToRGB(0, 1, 0.5)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(0), b)
}
