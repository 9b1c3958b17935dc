package documents

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"

	"lending_docs/internal/ports"
)

// sheetWriter appends rows to one sheet and tracks the cursor.
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	row    int
	styles styles
}

type styles struct {
	title    int
	header   int
	critical int
	warning  int
	wrap     int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1F4E78"}},
	}); err != nil {
		return s, err
	}
	if s.critical, err = f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#F4CCCC"}}}); err != nil {
		return s, err
	}
	if s.warning, err = f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFF2CC"}}}); err != nil {
		return s, err
	}
	s.wrap, err = f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	return s, err
}

func (w *sheetWriter) cell(col int) string {
	name, _ := excelize.CoordinatesToCellName(col, w.row)
	return name
}

func (w *sheetWriter) title(text string) error {
	w.row++
	if err := w.f.SetCellValue(w.sheet, w.cell(1), text); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(w.sheet, w.cell(1), w.cell(1), w.styles.title); err != nil {
		return err
	}
	w.row++
	return nil
}

func (w *sheetWriter) values(vals ...any) error {
	w.row++
	return w.f.SetSheetRow(w.sheet, w.cell(1), &vals)
}

func (w *sheetWriter) header(cols ...any) error {
	if err := w.values(cols...); err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, w.cell(1), w.cell(len(cols)), w.styles.header)
}

func (w *sheetWriter) styleRow(cols, style int) error {
	return w.f.SetCellStyle(w.sheet, w.cell(1), w.cell(cols), style)
}

func (w *sheetWriter) blank() { w.row++ }

func writeProse(f *excelize.File, st styles, p ports.Prose) error {
	const sheet = "Narrative"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	w := &sheetWriter{f: f, sheet: sheet, styles: st}
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 100); err != nil {
		return err
	}
	if err := w.header("Section", "Text"); err != nil {
		return err
	}
	for _, para := range p.Paragraphs {
		if err := w.values(para.Heading, para.Body); err != nil {
			return err
		}
		if err := w.styleRow(2, st.wrap); err != nil {
			return err
		}
	}
	w.blank()
	return w.values("Source", p.Source)
}

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func wholeMoney(v float64) string {
	return "$" + humanize.Commaf(math.Round(v))
}

func rate(decimal float64) string {
	return fmt.Sprintf("%.3f%%", decimal*100)
}

func percent(p float64) string {
	return fmt.Sprintf("%.3f%%", p)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
