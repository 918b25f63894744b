package updater

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
)

func TestNewer(t *testing.T) {
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"0.1.0", "0.2.0", true},
		{"0.2.0", "0.2.0", false},
		{"0.3.0", "0.2.9", false},
		{"1.9.0", "1.10.0", true},
		{"1.0", "1.0.1", true},
		{"dev", "99.0.0", false},
		{"", "1.0.0", false},
		{"1.0.0", "", false},
	}
	for _, tt := range tests {
		if got := newer(tt.current, tt.latest); got != tt.want {
			t.Errorf("newer(%q, %q) = %v, want %v", tt.current, tt.latest, got, tt.want)
		}
	}
}

func TestCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "marvin-mcp/0.1.0" {
			t.Errorf("User-Agent = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tag_name": "v0.2.0",
			"html_url": "https://example.com/release",
		})
	}))
	defer srv.Close()

	orig := releaseEndpoint
	releaseEndpoint = srv.URL
	defer func() { releaseEndpoint = orig }()

	st := Check("0.1.0")
	if !st.UpdateAvailable {
		t.Error("UpdateAvailable = false, want true")
	}
	if st.LatestVersion != "0.2.0" {
		t.Errorf("LatestVersion = %q, want 0.2.0", st.LatestVersion)
	}
	if st.ReleaseURL != "https://example.com/release" {
		t.Errorf("ReleaseURL = %q", st.ReleaseURL)
	}
}

func TestCheck_NetworkFailureIsQuiet(t *testing.T) {
	orig := releaseEndpoint
	releaseEndpoint = "http://127.0.0.1:1/nope"
	defer func() { releaseEndpoint = orig }()

	st := Check("0.1.0")
	if st.UpdateAvailable {
		t.Error("a failed check must never report an update")
	}
	if st.CurrentVersion != "0.1.0" {
		t.Errorf("CurrentVersion = %q", st.CurrentVersion)
	}
}

func TestExtractBinary(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	payload := []byte("#!/bin/true binary payload")
	for _, f := range []struct {
		name string
		data []byte
	}{
		{"README.md", []byte("docs")},
		{"dist/marvin-mcp", payload},
	} {
		if err := tw.WriteHeader(&tar.Header{Name: f.name, Mode: 0o755, Size: int64(len(f.data))}); err != nil {
			t.Fatalf("tar header: %v", err)
		}
		if _, err := tw.Write(f.data); err != nil {
			t.Fatalf("tar write: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	got, err := extractBinary(&buf)
	if err != nil {
		t.Fatalf("extractBinary() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("extracted %q, want %q", got, payload)
	}
}

func TestExtractBinary_Missing(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	_ = tw.WriteHeader(&tar.Header{Name: "other", Mode: 0o644, Size: 0})
	_ = tw.Close()
	_ = gz.Close()

	if _, err := extractBinary(&buf); err == nil {
		t.Error("expected an error for an archive without the binary")
	}
}

func TestAssetName(t *testing.T) {
	want := fmt.Sprintf("marvin-mcp_0.2.0_%s_%s.tar.gz", runtime.GOOS, runtime.GOARCH)
	if got := assetName("0.2.0"); got != want {
		t.Errorf("assetName = %q, want %q", got, want)
	}
}
