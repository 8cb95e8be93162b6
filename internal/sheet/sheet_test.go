package sheet

import (
	"path/filepath"
	"testing"

	"github.com/pfrederiksen/racecard/internal/race"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func testCard() *race.Card {
	return &race.Card{
		URL: "https://example.com/card",
		Entrants: []race.Entrant{
			{Number: "1", Name: "ウマA", Jockey: "騎手X"},
			{Number: "", Name: "ウマB", Jockey: "騎手Y"},
		},
		Metadata: race.Metadata{Date: "20250501", Venue: "京都", RaceLabel: "11R", Title: "天皇賞（秋）"},
	}
}

func rowValues(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.String()
	}
	return out
}

func TestBuild(t *testing.T) {
	f, err := Build(testCard())
	require.NoError(t, err)

	require.Len(t, f.Sheets, 1)
	sh := f.Sheets[0]
	assert.Equal(t, Name, sh.Name)
	require.Len(t, sh.Rows, 4)

	title := sh.Rows[0].Cells[0]
	assert.Equal(t, "天皇賞（秋）", title.String())
	assert.Equal(t, 4, title.HMerge)
	assert.True(t, title.GetStyle().Font.Bold)
	assert.Equal(t, titleSize, title.GetStyle().Font.Size)
	assert.Equal(t, float64(titleRowHt), sh.Rows[0].Height)

	assert.Equal(t, Header, rowValues(sh.Rows[1]))
	assert.Equal(t, headerFill, sh.Rows[1].Cells[0].GetStyle().Fill.FgColor)
	assert.Equal(t, []string{"1", "ウマA", "騎手X", "", ""}, rowValues(sh.Rows[2]))
	assert.Equal(t, []string{"", "ウマB", "騎手Y", "", ""}, rowValues(sh.Rows[3]))

	body := sh.Rows[3].Cells[4].GetStyle()
	assert.Equal(t, "thin", body.Border.Left)
	assert.Equal(t, "center", body.Alignment.Horizontal)
}

func TestBuild_ColumnWidths(t *testing.T) {
	f, err := Build(testCard())
	require.NoError(t, err)
	sh := f.Sheets[0]

	for i, want := range []float64{6, 28, 20, 10, 50} {
		col := sh.Cols.FindColByIndex(i + 1)
		require.NotNil(t, col, "column %d has no width", i+1)
		assert.Equal(t, want, col.Width, "column %d width", i+1)
	}
	assert.Nil(t, sh.Cols.FindColByIndex(6))
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := Write(testCard(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20250501_京都_11R.xlsx"), path)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	sh, ok := f.Sheet[Name]
	require.True(t, ok, "sheet %q missing", Name)
	require.GreaterOrEqual(t, len(sh.Rows), 4)
	assert.Equal(t, "天皇賞（秋）", sh.Rows[0].Cells[0].String())
	assert.Equal(t, Header, rowValues(sh.Rows[1])[:len(Header)])
	assert.Equal(t, "ウマA", sh.Rows[2].Cells[1].String())
	assert.Equal(t, "騎手Y", sh.Rows[3].Cells[2].String())
}

func TestBuild_NoEntrants(t *testing.T) {
	card := testCard()
	card.Entrants = nil

	f, err := Build(card)
	require.NoError(t, err)
	assert.Len(t, f.Sheets[0].Rows, 2)
}
