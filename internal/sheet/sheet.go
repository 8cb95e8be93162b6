package sheet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pfrederiksen/racecard/internal/race"
	"github.com/tealeg/xlsx/v2"
)

// Name is the worksheet title
const Name = "出馬表"

// Header is the column header row. The last two columns are left blank for
// the reader's own notes.
var Header = []string{"馬番", "馬名", "騎手名", "評価", "短評"}

var columnWidths = []float64{6, 28, 20, 10, 50}

const (
	titleFill  = "FFFADADD"
	headerFill = "FFCCFFFF"
	titleSize  = 18
	titleRowHt = 30
)

// Build lays a card out as a workbook: a merged title row, the header row,
// then one row per entrant.
func Build(card *race.Card) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sh, err := f.AddSheet(Name)
	if err != nil {
		return nil, fmt.Errorf("adding sheet: %w", err)
	}

	title := sh.AddRow()
	title.SetHeight(titleRowHt)
	cell := title.AddCell()
	cell.SetString(card.Metadata.Title)
	cell.SetStyle(titleStyle())
	cell.Merge(len(Header)-1, 0)
	for range Header[1:] {
		title.AddCell()
	}

	header := sh.AddRow()
	hs := headerStyle()
	for _, label := range Header {
		c := header.AddCell()
		c.SetString(label)
		c.SetStyle(hs)
	}

	bs := bodyStyle()
	for _, e := range card.Entrants {
		row := sh.AddRow()
		for _, v := range []string{e.Number, e.Name, e.Jockey, "", ""} {
			c := row.AddCell()
			c.SetString(v)
			c.SetStyle(bs)
		}
	}

	// Columns are numbered from 1.
	for i, w := range columnWidths {
		sh.SetColWidth(i+1, i+1, w)
	}

	return f, nil
}

// Write saves card into dir under card.Filename() and returns the path.
func Write(card *race.Card, dir string) (string, error) {
	f, err := Build(card)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, card.Filename())
	if err := f.Save(path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}

func centered() xlsx.Alignment {
	return xlsx.Alignment{Horizontal: "center", Vertical: "center"}
}

func titleStyle() *xlsx.Style {
	s := xlsx.NewStyle()
	s.Font = *xlsx.DefaultFont()
	s.Font.Size = titleSize
	s.Font.Bold = true
	s.Fill = *xlsx.NewFill("solid", titleFill, titleFill)
	s.Alignment = centered()
	s.ApplyFont = true
	s.ApplyFill = true
	s.ApplyAlignment = true
	return s
}

func headerStyle() *xlsx.Style {
	s := bodyStyle()
	s.Font.Bold = true
	s.Fill = *xlsx.NewFill("solid", headerFill, headerFill)
	s.ApplyFont = true
	s.ApplyFill = true
	return s
}

func bodyStyle() *xlsx.Style {
	s := xlsx.NewStyle()
	s.Font = *xlsx.DefaultFont()
	s.Border = *xlsx.NewBorder("thin", "thin", "thin", "thin")
	s.Alignment = centered()
	s.ApplyBorder = true
	s.ApplyAlignment = true
	return s
}
