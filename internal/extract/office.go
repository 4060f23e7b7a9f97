package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"
)

// extractDocx reads the document body of a Word file.
func extractDocx(path string) (Result, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	return Result{
		Text:   content,
		Method: "docx",
		Pages:  len(strings.Split(content, "\n\n")),
	}, nil
}

// extractXlsx flattens every sheet into "cell: value" lines. Equipment
// inventories often arrive as spreadsheets, so cell references are kept to
// preserve row/column context for the reasoning stage.
func extractXlsx(ctx context.Context, path string) (Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("parse xlsx: %w", err)
	}
	defer f.Close()

	var parts []string
	sheets := f.GetSheetList()

	for _, sheetName := range sheets {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}

		var sheetText strings.Builder
		sheetText.WriteString(fmt.Sprintf("--- Sheet: %s ---\n", sheetName))
		for rowIndex, row := range rows {
			for colIndex, cell := range row {
				if text := strings.TrimSpace(cell); text != "" {
					name, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+1)
					if err != nil {
						continue
					}
					sheetText.WriteString(fmt.Sprintf("%s: %s\n", name, text))
				}
			}
		}

		if text := strings.TrimSpace(sheetText.String()); text != "" {
			parts = append(parts, text)
		}
	}

	return Result{
		Text:   strings.Join(parts, "\n\n"),
		Method: "xlsx",
		Pages:  len(sheets),
	}, nil
}

// extractPptx reads the slide XML parts of a PowerPoint archive and collects
// the text runs of each slide in order.
func extractPptx(path string) (Result, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return Result{}, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	type slideFile struct {
		nr   int
		file *zip.File
	}
	var slides []slideFile
	for _, f := range r.File {
		nr, ok := slideNumber(f.Name)
		if !ok {
			continue
		}
		slides = append(slides, slideFile{nr: nr, file: f})
	}
	if len(slides) == 0 {
		return Result{}, fmt.Errorf("no slides found in archive")
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].nr < slides[j].nr })

	var parts []string
	for _, s := range slides {
		text, err := slideText(s.file)
		if err != nil {
			continue
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	return Result{
		Text:   strings.Join(parts, "\n\n"),
		Method: "pptx",
		Pages:  len(slides),
	}, nil
}

// slideNumber parses N out of "ppt/slides/slideN.xml".
func slideNumber(name string) (int, bool) {
	const prefix, suffix = "ppt/slides/slide", ".xml"
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return 0, false
	}
	nr, err := strconv.Atoi(name[len(prefix) : len(name)-len(suffix)])
	if err != nil {
		return 0, false
	}
	return nr, true
}

// slideText collects the <a:t> text runs of one slide, one line per run.
func slideText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var sb strings.Builder
	var inTextRun bool

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.CharData:
			if inTextRun {
				sb.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "t" && inTextRun {
				inTextRun = false
				sb.WriteByte('\n')
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
