package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"smart-ats/internal/shared/storage/object/local"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Skills: Python, SQL</w:t></w:r></w:p>
</w:body>
</w:document>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func buildDocx(t *testing.T) []byte {
	return buildZip(t, map[string]string{
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": relsXML,
	})
}

func TestExtractTextFromBytes_Docx(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), buildDocx(t), MimeDOCX, "cv.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") || !strings.Contains(text, "Skills: Python, SQL") {
		t.Fatalf("unexpected docx text %q", text)
	}
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	if _, err := ExtractTextFromBytes(context.Background(), buildDocx(t), "application/zip", "cv.docx"); err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	data := buildZip(t, map[string]string{"notes.txt": "hello"})

	_, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if !strings.Contains(err.Error(), "application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractTextFromBytes_PlainText(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), []byte("Python and SQL developer"), "text/plain; charset=utf-8", "cv.txt")
	if err != nil {
		t.Fatalf("extract text: %v", err)
	}
	if text != "Python and SQL developer" {
		t.Fatalf("unexpected text %q", text)
	}

	if _, err := ExtractTextFromBytes(context.Background(), []byte{0xff, 0xfe, 0xfd}, MimeText, "cv.txt"); err == nil {
		t.Fatal("expected invalid utf-8 error")
	}
}

func TestExtractTextFromBytes_CorruptPDF(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("not really a pdf"), MimePDF, "cv.pdf")
	if err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
	if errors.Is(err, ErrUnsupported) {
		t.Fatalf("corrupt pdf should not be reported as unsupported: %v", err)
	}
}

func TestExtractTextFromBytes_Unsupported(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png", "photo.png")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestExtractTextFromBytes_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractTextFromBytes(ctx, []byte("x"), MimeText, "cv.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNormalizeMimeType(t *testing.T) {
	docxData := buildDocx(t)
	tests := []struct {
		name     string
		mime     string
		fileName string
		data     []byte
		want     string
	}{
		{name: "declared pdf", mime: "Application/PDF", fileName: "x", want: MimePDF},
		{name: "octet stream pdf ext", mime: "application/octet-stream", fileName: "cv.PDF", want: MimePDF},
		{name: "empty mime txt ext", mime: "", fileName: "cv.txt", want: MimeText},
		{name: "zip with word part", mime: "application/zip", fileName: "cv.zip", data: docxData, want: MimeDOCX},
		{name: "sniffed pdf", mime: "", fileName: "upload", data: []byte("%PDF-1.7 body"), want: MimePDF},
		{name: "sniffed docx", mime: "application/octet-stream", fileName: "upload", data: docxData, want: MimeDOCX},
		{name: "other declared", mime: "image/png", fileName: "cv.pdf", want: "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMimeType(tt.mime, tt.fileName, tt.data); got != tt.want {
				t.Fatalf("NormalizeMimeType(%q, %q) = %q, want %q", tt.mime, tt.fileName, got, tt.want)
			}
		})
	}
}

func TestArchiveWritesUploadAndExtractedCopy(t *testing.T) {
	store := local.New(t.TempDir())
	ctx := context.Background()

	key, err := Archive(ctx, store, "analyses", "cv.txt", []byte("raw bytes"), "python sql")
	if err != nil {
		t.Fatalf("archive: %v", err)
	}

	for path, want := range map[string]string{key: "raw bytes", ExtractedKey(key): "python sql"} {
		rc, err := store.Open(ctx, path)
		if err != nil {
			t.Fatalf("open %s: %v", path, err)
		}
		got, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if string(got) != want {
			t.Fatalf("%s: expected %q, got %q", path, want, got)
		}
	}
}
