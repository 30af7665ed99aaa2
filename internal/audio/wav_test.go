package audio

import (
	"bytes"
	"io"
	"testing"
)

func TestWAVEncoderPreservesPCM(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 1234, -4321, 7}
	raw := int16ToBytes(samples)

	// Склеивание чанков не зависит от границ
	chunks := [][]byte{raw[:4], raw[4:10], raw[10:]}

	blob, err := NewWAVEncoder().Encode(chunks)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if blob.MediaType != "audio/wav" {
		t.Errorf("Expected audio/wav, got %q", blob.MediaType)
	}
	if blob.Filename != "recorded.wav" {
		t.Errorf("Expected recorded.wav, got %q", blob.Filename)
	}
	if !bytes.HasPrefix(blob.Data, []byte("RIFF")) {
		t.Fatalf("Expected RIFF header")
	}

	pcm, err := DecodeWAV(blob.Data)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if pcm.SampleRate != SampleRate || pcm.Channels != Channels {
		t.Errorf("Unexpected format %d Hz %d ch", pcm.SampleRate, pcm.Channels)
	}
	if len(pcm.Samples) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(pcm.Samples))
	}
	for i := range samples {
		if pcm.Samples[i] != samples[i] {
			t.Errorf("Sample %d: expected %d, got %d", i, samples[i], pcm.Samples[i])
		}
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	if _, err := DecodeWAV([]byte("not a wav file at all")); err == nil {
		t.Error("Expected error for invalid data")
	}
}

func TestDecodeSniffsFormat(t *testing.T) {
	data, err := EncodeWAV([]int16{1, 2, 3}, 22050, 1)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	pcm, err := Decode(data, "application/octet-stream")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if pcm.SampleRate != 22050 {
		t.Errorf("Expected 22050 Hz, got %d", pcm.SampleRate)
	}

	if _, err := Decode([]byte("plain text"), "text/plain"); err == nil {
		t.Error("Expected error for unsupported data")
	}
}

func TestDecodeMP3RejectsGarbage(t *testing.T) {
	if _, err := DecodeMP3([]byte{0x00, 0x01, 0x02}); err == nil {
		t.Error("Expected error for invalid mp3")
	}
}

func TestDownmixAveragesChannels(t *testing.T) {
	got := downmix([]int16{100, 200, -100, 100, 32767, 32767})
	want := []int16{150, 0, 32767}
	if len(got) != len(want) {
		t.Fatalf("Expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sample %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestNormalizeRange(t *testing.T) {
	got := normalize([]int16{-32768, 0, 16384})
	if got[0] != -1 || got[1] != 0 || got[2] != 0.5 {
		t.Errorf("Unexpected normalization %v", got)
	}
}

func TestMemWriteSeekerOverwrite(t *testing.T) {
	ws := &memWriteSeeker{}
	ws.Write([]byte("hello world"))
	if _, err := ws.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	ws.Write([]byte("HELLO"))
	if _, err := ws.Seek(0, io.SeekEnd); err != nil {
		t.Fatal(err)
	}
	ws.Write([]byte("!"))

	if got := string(ws.Bytes()); got != "HELLO world!" {
		t.Errorf("Unexpected buffer %q", got)
	}
	if _, err := ws.Seek(-100, io.SeekCurrent); err == nil {
		t.Error("Expected error for negative position")
	}
}

func TestPCMDuration(t *testing.T) {
	p := &PCM{Samples: make([]int16, 32000), SampleRate: 16000, Channels: 2}
	if d := p.Duration(); d != 1 {
		t.Errorf("Expected 1s, got %v", d)
	}
}

func TestMonoAtResamplesAndDownmixes(t *testing.T) {
	p := &PCM{Samples: []int16{100, 300, 100, 300, 100, 300, 100, 300}, SampleRate: 8000, Channels: 2}

	got := p.MonoAt(16000)
	if len(got) != 8 {
		t.Fatalf("Expected 8 samples after upsampling, got %d", len(got))
	}
	for i, v := range got {
		if v != 200 {
			t.Errorf("Sample %d: expected 200, got %d", i, v)
		}
	}

	same := (&PCM{Samples: []int16{1, 2, 3}, SampleRate: 16000, Channels: 1}).MonoAt(16000)
	if len(same) != 3 || same[2] != 3 {
		t.Errorf("Expected unchanged samples, got %v", same)
	}
}
