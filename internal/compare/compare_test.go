package compare

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ral-nujan/filterattrs/internal/filter"
)

func newFilter(t *testing.T) *filter.Filter {
	t.Helper()

	f, err := filter.New(filter.DefaultOptions())
	require.NoError(t, err)

	return f
}

// ---------------------------------------------------------------------------
// ComputeDiff
// ---------------------------------------------------------------------------

func TestComputeDiff_Identical(t *testing.T) {
	doc := []string{`GROUP "/" {`, `}`}
	result, err := ComputeDiff(doc, doc, DefaultDiffOptions())
	require.NoError(t, err)
	assert.False(t, result.HasDifferences)
	assert.Empty(t, result.Hunks)
}

func TestComputeDiff_Different(t *testing.T) {
	old := []string{`DATASET "temp" {`, `   DATATYPE  H5T_IEEE_F32LE`, `}`}
	new := []string{`DATASET "temp" {`, `   DATATYPE  H5T_IEEE_F64LE`, `}`}
	result, err := ComputeDiff(old, new, DefaultDiffOptions())
	require.NoError(t, err)
	assert.True(t, result.HasDifferences)
	require.Len(t, result.Hunks, 1)
	assert.Contains(t, result.Unified, "-   DATATYPE  H5T_IEEE_F32LE")
	assert.Contains(t, result.Unified, "+   DATATYPE  H5T_IEEE_F64LE")
	assert.NotContains(t, result.Hunks[0], "--- expected")
}

func TestComputeDiff_Labels(t *testing.T) {
	opts := DefaultDiffOptions()
	opts.OldLabel = "testa.expected"
	opts.NewLabel = "testa.actual"
	result, err := ComputeDiff([]string{"a"}, []string{"b"}, opts)
	require.NoError(t, err)
	assert.Contains(t, result.Unified, "--- testa.expected")
	assert.Contains(t, result.Unified, "+++ testa.actual")
}

func TestComputeDiff_EmptySides(t *testing.T) {
	result, err := ComputeDiff(nil, []string{"x"}, DefaultDiffOptions())
	require.NoError(t, err)
	assert.True(t, result.HasDifferences)

	result, err = ComputeDiff([]string{"x"}, nil, DefaultDiffOptions())
	require.NoError(t, err)
	assert.True(t, result.HasDifferences)

	result, err = ComputeDiff(nil, nil, DefaultDiffOptions())
	require.NoError(t, err)
	assert.False(t, result.HasDifferences)
}

func TestComputeDiff_SeparateHunks(t *testing.T) {
	var old, new []string
	for i := 0; i < 30; i++ {
		old = append(old, fmt.Sprintf("line %d", i))
		new = append(new, fmt.Sprintf("line %d", i))
	}

	new[2] = "changed-early"
	new[27] = "changed-late"

	opts := DefaultDiffOptions()
	opts.Context = 1

	result, err := ComputeDiff(old, new, opts)
	require.NoError(t, err)
	assert.Len(t, result.Hunks, 2)
}

// ---------------------------------------------------------------------------
// Dumps
// ---------------------------------------------------------------------------

func TestDumps_FillValueDifferencesIgnored(t *testing.T) {
	expected := []string{
		"DATASET \"temp\" {\n",
		"   ATTRIBUTE \"_FillValue\" {\n",
		"      DATA { (0): -999 }\n",
		"   }\n",
		"}\n",
	}
	actual := []string{
		"DATASET \"temp\" {\n",
		"}\n",
	}

	res, err := Dumps(newFilter(t), expected, actual, DefaultDiffOptions())
	require.NoError(t, err)
	assert.False(t, res.Diff.HasDifferences)
	assert.Len(t, res.Expected.Removals, 1)
	assert.Empty(t, res.Actual.Removals)
}

func TestDumps_RealDifferenceReported(t *testing.T) {
	expected := []string{"temp:units = \"K\" ;", "temp:_FillValue = 1 ;"}
	actual := []string{"temp:units = \"degC\" ;"}

	res, err := Dumps(newFilter(t), expected, actual, DefaultDiffOptions())
	require.NoError(t, err)
	assert.True(t, res.Diff.HasDifferences)
	assert.Contains(t, res.Diff.Unified, `+temp:units = "degC" ;`)
	assert.NotContains(t, res.Diff.Unified, "_FillValue")
}

func TestDumps_MalformedActual(t *testing.T) {
	actual := []string{`  ATTRIBUTE "_Unsigned" {`, "    DATA {"}

	_, err := Dumps(newFilter(t), nil, actual, DefaultDiffOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filtering actual")

	var mbe *filter.MalformedBlockError
	assert.ErrorAs(t, err, &mbe)
}

// ---------------------------------------------------------------------------
// WriteDiff
// ---------------------------------------------------------------------------

func TestWriteDiff_NoColor(t *testing.T) {
	result, err := ComputeDiff([]string{"line1", "line2"}, []string{"line1", "line3"}, DefaultDiffOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteDiff(&buf, result, false)
	out := buf.String()
	assert.NotContains(t, out, "\033[")
	assert.Contains(t, out, "-line2\n")
	assert.Contains(t, out, "+line3\n")
	assert.NotContains(t, out, "\n\n", "no trailing blank line")
}

func TestWriteDiff_WithColor(t *testing.T) {
	result, err := ComputeDiff([]string{"line1", "line2"}, []string{"line1", "line3"}, DefaultDiffOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteDiff(&buf, result, true)
	out := buf.String()
	assert.Contains(t, out, "\033[31m-line2\033[0m")
	assert.Contains(t, out, "\033[32m+line3\033[0m")
}

func TestWriteDiff_NoDifferences(t *testing.T) {
	result, err := ComputeDiff([]string{"same"}, []string{"same"}, DefaultDiffOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteDiff(&buf, result, true)
	assert.Equal(t, "No differences found.\n", buf.String())
}
