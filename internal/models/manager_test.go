package models

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(content))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRegistry(t *testing.T) {
	m, ok := GetModel(DefaultModelID())
	if !ok {
		t.Fatal("Default model must be registered")
	}
	if m.Engine != EngineVosk || !m.IsZip {
		t.Errorf("Unexpected default model %+v", m)
	}
	if _, ok := GetModel("missing"); ok {
		t.Error("Expected unknown model lookup to fail")
	}
	if len(GetModelsByEngine(EngineVosk)) != len(Registry) {
		t.Error("Expected every model to be a vosk model")
	}
}

func TestDownloadUnpacksArchive(t *testing.T) {
	archive := buildZip(t, map[string]string{
		"test-model/conf/model.conf": "--sample-frequency=16000",
		"test-model/am/final.mdl":    "weights",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	mgr, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	info := ModelInfo{ID: "test", Engine: EngineVosk, Filename: "test-model", URL: srv.URL, IsZip: true}
	if mgr.IsDownloaded(info) {
		t.Fatal("Model must not be present yet")
	}

	progress := make(chan Progress, 16)
	if err := mgr.Download(context.Background(), info, progress); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if !mgr.IsDownloaded(info) {
		t.Fatal("Expected model to be downloaded")
	}
	data, err := os.ReadFile(filepath.Join(mgr.GetModelPath(info), "conf", "model.conf"))
	if err != nil || string(data) != "--sample-frequency=16000" {
		t.Errorf("Unexpected unpacked file %q, %v", data, err)
	}

	var done bool
	for len(progress) > 0 {
		if p := <-progress; p.Done {
			done = true
		}
	}
	if !done {
		t.Error("Expected a final progress update")
	}

	if err := mgr.Delete(info); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if mgr.IsDownloaded(info) {
		t.Error("Expected model to be removed")
	}
}

func TestDownloadRejectsWrongArchive(t *testing.T) {
	archive := buildZip(t, map[string]string{"other/file": "x"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	mgr, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	info := ModelInfo{ID: "test", Engine: EngineVosk, Filename: "test-model", URL: srv.URL, IsZip: true}
	if err := mgr.Download(context.Background(), info, nil); err == nil {
		t.Error("Expected error when archive lacks the model directory")
	}
}

func TestDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	mgr, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	info := ModelInfo{ID: "test", Engine: EngineVosk, Filename: "test-model", URL: srv.URL, IsZip: true}
	if err := mgr.Download(context.Background(), info, nil); err == nil {
		t.Error("Expected error for 404")
	}
}

func TestUnzipRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.zip")
	if err := os.WriteFile(src, buildZip(t, map[string]string{"../escape.txt": "x"}), 0644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(dir, "out")
	if err := unzip(src, dest); err == nil {
		t.Error("Expected error for path traversal")
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); err == nil {
		t.Error("File escaped the destination")
	}
}
