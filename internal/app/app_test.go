package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"aura/internal/config"
	"aura/internal/session"
)

type recordingView struct {
	calls []string
}

func (r *recordingView) SetStatus(s session.Status) { r.calls = append(r.calls, "status:"+s.Text) }
func (r *recordingView) SetTranscript(t session.Transcript) { r.calls = append(r.calls, "transcript:"+t.Text) }
func (r *recordingView) SetControl(c session.Control) { r.calls = append(r.calls, "control") }
func (r *recordingView) SetState(s session.State) { r.calls = append(r.calls, "state:"+s.String()) }
func (r *recordingView) DimStatus() { r.calls = append(r.calls, "dim") }

func TestMultiViewFansOut(t *testing.T) {
	a, b := &recordingView{}, &recordingView{}
	v := multiView{a, b}

	v.SetStatus(session.Status{Text: "hello"})
	v.SetTranscript(session.Transcript{Text: "you said"})
	v.SetControl(session.Control{Enabled: true})
	v.SetState(session.StateRecording)
	v.DimStatus()

	for _, r := range []*recordingView{a, b} {
		if len(r.calls) != 5 {
			t.Fatalf("Expected 5 calls, got %v", r.calls)
		}
		if r.calls[0] != "status:hello" || r.calls[1] != "transcript:you said" || r.calls[4] != "dim" {
			t.Errorf("Unexpected calls %v", r.calls)
		}
	}
}

func TestRemoteUploaderFollowsServerChange(t *testing.T) {
	hits := make(map[string]int)
	newServer := func(name string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.Copy(io.Discard, r.Body)
			hits[name]++
			w.Header().Set("Content-Type", "audio/wav")
			w.Header().Set("X-Transcript", name)
			w.Write([]byte("RIFF"))
		}))
	}
	first, second := newServer("first"), newServer("second")
	defer first.Close()
	defer second.Close()

	cfg := config.Load(filepath.Join(t.TempDir(), "config.json"))
	if err := cfg.SetServerURL(first.URL); err != nil {
		t.Fatal(err)
	}

	u, err := newRemoteUploader(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("newRemoteUploader failed: %v", err)
	}

	blob := session.Blob{Data: []byte("RIFF"), MediaType: "audio/wav", Filename: "recording.wav"}
	reply, err := u.Upload(context.Background(), blob)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if reply.Transcript != "first" {
		t.Errorf("Unexpected transcript %q", reply.Transcript)
	}

	if err := cfg.SetServerURL(second.URL); err != nil {
		t.Fatal(err)
	}
	if err := u.Reset(cfg); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if u.URL() != second.URL+"/process" {
		t.Errorf("Unexpected url %q", u.URL())
	}

	reply, err = u.Upload(context.Background(), blob)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if reply.Transcript != "second" {
		t.Errorf("Unexpected transcript %q", reply.Transcript)
	}
	if hits["first"] != 1 || hits["second"] != 1 {
		t.Errorf("Unexpected hits %v", hits)
	}
}
