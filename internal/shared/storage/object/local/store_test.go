package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	body := "%PDF-1.4 fake resume body"
	key, size, mimeType, err := store.Save(ctx, "analyses", "my resume.pdf", strings.NewReader(body))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len(body)) {
		t.Fatalf("expected size %d, got %d", len(body), size)
	}
	if mimeType != "application/pdf" {
		t.Fatalf("expected sniffed application/pdf, got %q", mimeType)
	}
	if !strings.HasSuffix(key, "_my resume.pdf") {
		t.Fatalf("unexpected key %q", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != body {
		t.Fatalf("expected %q, got %q", body, got)
	}
}

func TestSaveWithKeyWritesDerivedObject(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	n, err := store.SaveWithKey(ctx, "ns/file.pdf.extracted.txt", "text/plain", strings.NewReader("python sql"))
	if err != nil {
		t.Fatalf("save with key: %v", err)
	}
	if n != int64(len("python sql")) {
		t.Fatalf("unexpected size %d", n)
	}
	rc, err := store.Open(ctx, "ns/file.pdf.extracted.txt")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = rc.Close()
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"../outside.txt", "/etc/passwd", ""} {
		if _, err := store.SaveWithKey(ctx, key, "text/plain", strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
		if _, err := store.Open(ctx, key); err == nil {
			t.Fatalf("expected open error for key %q", key)
		}
	}
	if _, _, _, err := store.Save(ctx, "ns", "../x.pdf", strings.NewReader("x")); err == nil {
		t.Fatal("expected sanitize error")
	}
}
