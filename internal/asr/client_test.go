package asr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestClient_Recognize(t *testing.T) {
	var gotLang, gotITN string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotLang = r.FormValue("language")
		gotITN = r.FormValue("use_itn")
		if _, _, err := r.FormFile("audio"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"你好","language":"zh","duration":0.5}`))
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "in.wav")
	if err := os.WriteFile(audio, []byte("RIFFdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	res, err := c.Recognize(context.Background(), audio, Options{Language: "zh", UseNormalization: true})
	if err != nil {
		t.Fatalf("Recognize() failed: %v", err)
	}
	if res.Text != "你好" || res.Language != "zh" {
		t.Errorf("Recognize() = %+v", res)
	}
	if gotLang != "zh" {
		t.Errorf("language field = %q, want zh", gotLang)
	}
	if gotITN != "true" {
		t.Errorf("use_itn field = %q, want true", gotITN)
	}
}

func TestClient_Recognize_EngineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "in.wav")
	if err := os.WriteFile(audio, []byte("RIFFdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	if _, err := c.Recognize(context.Background(), audio, Options{}); err == nil {
		t.Error("Recognize() succeeded on engine error")
	}
}

func TestClient_Recognize_MissingAudio(t *testing.T) {
	c, err := NewClient("http://localhost:1")
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	if _, err := c.Recognize(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), Options{}); err == nil {
		t.Error("Recognize() succeeded with missing audio file")
	}
}
