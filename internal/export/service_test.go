package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/obafemi-akin/policy-extract/constants"
	"github.com/obafemi-akin/policy-extract/internal/batch"
)

func TestBatchReportXLSX(t *testing.T) {
	out := "out/a.json"
	summary := batch.Summary{
		Total:      2,
		Successful: 1,
		Failed:     1,
		Files: []batch.FileResult{
			{Input: "in/a.pdf", Output: &out, Status: constants.DocStatusSuccess},
			{Input: "in/b.pdf", Status: constants.DocStatusFailed, Error: "open pdf: no such file"},
		},
	}

	data, err := NewService(nil).BatchReportXLSX(summary)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook not readable: %v", err)
	}
	defer f.Close()

	const sheet = "Documents"
	cell := func(ref string) string {
		v, err := f.GetCellValue(sheet, ref)
		if err != nil {
			t.Fatalf("read %s: %v", ref, err)
		}
		return v
	}

	if cell("A3") != "Input" || cell("C3") != "Status" {
		t.Error("header row missing")
	}
	if cell("A4") != "in/a.pdf" || cell("C4") != "success" {
		t.Errorf("success row = %q/%q", cell("A4"), cell("C4"))
	}
	if cell("B5") != "" || cell("D5") != "open pdf: no such file" {
		t.Errorf("failure row = %q/%q", cell("B5"), cell("D5"))
	}
	if cell("B1") != "2" {
		t.Errorf("total = %q, want 2", cell("B1"))
	}
}
