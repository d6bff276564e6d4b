package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"
)

func renderedDocumentXML(t *testing.T, output []byte) string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(output), int64(len(output)))
	if err != nil {
		t.Fatalf("open rendered archive: %v", err)
	}
	for _, f := range reader.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read document.xml: %v", err)
		}
		return string(content)
	}
	t.Fatal("rendered archive has no word/document.xml")
	return ""
}

func TestRenderSubstitutesTags(t *testing.T) {
	template, err := WriteDocument(`<w:t>{facility_name} inspected on {inspection_date}, score {risk_score}</w:t>`)
	if err != nil {
		t.Fatalf("build template: %v", err)
	}

	out, err := Render(template, map[string]interface{}{
		"facility_name":   "Acme Pharma",
		"inspection_date": "05-03-2024",
		"risk_score":      3,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := renderedDocumentXML(t, out)
	want := `<w:t>Acme Pharma inspected on 05-03-2024, score 3</w:t>`
	if doc != want {
		t.Errorf("document = %q, want %q", doc, want)
	}
}

func TestRenderExpandsLoops(t *testing.T) {
	template, err := WriteDocument(`<w:t>{#findings}{index}: {observation} [{classification}] {/findings}</w:t>`)
	if err != nil {
		t.Fatalf("build template: %v", err)
	}

	out, err := Render(template, map[string]interface{}{
		"findings": []map[string]string{
			{"index": "1", "observation": "Leak", "classification": "Major"},
			{"index": "2", "observation": "Dust", "classification": "Others"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := renderedDocumentXML(t, out)
	if !strings.Contains(doc, "1: Leak [Major]") || !strings.Contains(doc, "2: Dust [Others]") {
		t.Errorf("loop not expanded: %q", doc)
	}
	if strings.Contains(doc, "{#findings}") || strings.Contains(doc, "{/findings}") {
		t.Errorf("loop markers left in output: %q", doc)
	}
}

func TestRenderEmptyLoopProducesNothing(t *testing.T) {
	template, _ := WriteDocument(`<w:t>before {#personnel}{name}{/personnel} after</w:t>`)

	out, err := Render(template, map[string]interface{}{
		"personnel": []map[string]string{},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc := renderedDocumentXML(t, out); doc != `<w:t>before  after</w:t>` {
		t.Errorf("document = %q", doc)
	}
}

func TestRenderUnresolvedTagErrors(t *testing.T) {
	template, _ := WriteDocument(`<w:t>{facility_name} {missing_tag}</w:t>`)

	_, err := Render(template, map[string]interface{}{"facility_name": "X"})
	if err == nil {
		t.Fatal("expected error for unresolved tag")
	}
	if !strings.Contains(err.Error(), "missing_tag") {
		t.Errorf("error does not name the tag: %v", err)
	}
}

func TestRenderUnterminatedLoopErrors(t *testing.T) {
	template, _ := WriteDocument(`<w:t>{#findings}{observation}</w:t>`)

	_, err := Render(template, map[string]interface{}{"findings": []map[string]string{}})
	if err == nil || !strings.Contains(err.Error(), "closing tag") {
		t.Fatalf("expected unterminated loop error, got %v", err)
	}
}

func TestRenderEscapesMarkupInValues(t *testing.T) {
	template, _ := WriteDocument(`<w:t>{facility_name}</w:t><w:t>{#findings}{observation}{/findings}</w:t>`)

	out, err := Render(template, map[string]interface{}{
		"facility_name": "A&B <Pharma>",
		"findings": []map[string]string{
			{"observation": "Stored at <25°C & humid"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := renderedDocumentXML(t, out)
	if !strings.Contains(doc, `<w:t>A&amp;B &lt;Pharma&gt;</w:t>`) {
		t.Errorf("scalar value not escaped: %q", doc)
	}
	if !strings.Contains(doc, `Stored at &lt;25°C &amp; humid`) {
		t.Errorf("row value not escaped: %q", doc)
	}
}

func TestRenderTurnsNewlinesIntoLineBreaks(t *testing.T) {
	template, _ := WriteDocument(`<w:t>{major_findings_grouped}</w:t>`)

	out, err := Render(template, map[string]interface{}{
		"major_findings_grouped": "1. Leak\n2. Dust",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc := renderedDocumentXML(t, out); doc != `<w:t>1. Leak<w:br/>2. Dust</w:t>` {
		t.Errorf("document = %q", doc)
	}
}

func TestRenderOrphanCloseTagErrors(t *testing.T) {
	template, _ := WriteDocument(`<w:t>{observation}{/findings}</w:t>`)

	_, err := Render(template, map[string]interface{}{"observation": "Leak"})
	if err == nil {
		t.Fatal("expected error for orphan close tag")
	}
	if !strings.Contains(err.Error(), "findings") || !strings.Contains(err.Error(), "no opening tag") {
		t.Errorf("error does not name the tag: %v", err)
	}
}

func TestRenderNotADocxErrors(t *testing.T) {
	if _, err := Render([]byte("just text"), nil); err == nil {
		t.Fatal("expected error for non-zip template")
	}
}

func TestRenderFormatsValues(t *testing.T) {
	template, _ := WriteDocument(`<w:t>{has_critical}/{has_major}/{timestamp}</w:t>`)

	out, err := Render(template, map[string]interface{}{
		"has_critical": true,
		"has_major":    false,
		"timestamp":    time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc := renderedDocumentXML(t, out); doc != `<w:t>Yes/No/01-09-2026</w:t>` {
		t.Errorf("document = %q", doc)
	}
}
