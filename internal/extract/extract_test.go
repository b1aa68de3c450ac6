package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := map[string]string{
		"word/document.xml": documentXML,
		"word/_rels/document.xml.rels": `<?xml version="1.0"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractPlainText(t *testing.T) {
	text, err := ExtractTextFromBytes([]byte("Jane Doe\nSenior Engineer"), "resume.txt")
	if err != nil {
		t.Fatalf("extract txt: %v", err)
	}
	if text != "Jane Doe\nSenior Engineer" {
		t.Fatalf("unexpected text: %q", text)
	}

	if _, err := ExtractTextFromBytes([]byte("also fine"), "resume.text"); err != nil {
		t.Fatalf("extract .text: %v", err)
	}
}

func TestExtractUnsupportedExtension(t *testing.T) {
	for _, name := range []string{"resume.rtf", "resume.odt", "resume", "resume.PDF.exe"} {
		text, err := ExtractTextFromBytes([]byte("content"), name)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
		if text != "" {
			t.Fatalf("%s: expected empty text on failure, got %q", name, text)
		}
	}
}

func TestExtractExtensionCaseInsensitive(t *testing.T) {
	if _, err := ExtractTextFromBytes([]byte("content"), "RESUME.TXT"); err != nil {
		t.Fatalf("expected upper-cased extension to be accepted, got %v", err)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	_, err := ExtractTextFromBytes([]byte("definitely not a pdf"), "resume.pdf")
	if !errors.Is(err, ErrCorruptFile) {
		t.Fatalf("expected ErrCorruptFile, got %v", err)
	}
}

func TestExtractCorruptDocx(t *testing.T) {
	_, err := ExtractTextFromBytes([]byte{0x01, 0x02, 0x03}, "resume.docx")
	if !errors.Is(err, ErrCorruptFile) {
		t.Fatalf("expected ErrCorruptFile, got %v", err)
	}
}

func TestExtractInvalidUTF8Text(t *testing.T) {
	_, err := ExtractTextFromBytes([]byte{0xff, 0xfe, 0x00}, "resume.txt")
	if !errors.Is(err, ErrCorruptFile) {
		t.Fatalf("expected ErrCorruptFile, got %v", err)
	}
}

func TestExtractDocxParagraphs(t *testing.T) {
	docXML := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Senior Engineer</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	data := buildDocx(t, docXML)

	text, err := ExtractTextFromBytes(data, "resume.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 || lines[0] != "Jane Doe" || lines[1] != "Senior Engineer" {
		t.Fatalf("unexpected docx text: %q", text)
	}
}

func TestSupported(t *testing.T) {
	for _, name := range []string{"a.txt", "b.pdf", "c.docx", "D.TEXT"} {
		if !Supported(name) {
			t.Fatalf("expected %s to be supported", name)
		}
	}
	for _, name := range []string{"a.rtf", "b", "c.doc"} {
		if Supported(name) {
			t.Fatalf("expected %s to be unsupported", name)
		}
	}
}
