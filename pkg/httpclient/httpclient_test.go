package httpclient

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestIsGitHubURL(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"github.com", true},
		{"api.github.com", true},
		{"objects.githubusercontent.com", true},
		{"example.com", false},
		{"127.0.0.1:8080", false},
		{"notgithub.com", false},
	}

	for _, tt := range tests {
		if got := isGitHubURL(tt.host); got != tt.want {
			t.Errorf("isGitHubURL(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestTokenNotSentToOtherHosts(t *testing.T) {
	os.Setenv("GITHUB_TOKEN", "ghp_testtoken123")
	defer os.Unsetenv("GITHUB_TOKEN")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("token leaked to non-GitHub host: %q", auth)
		}
	}))
	defer srv.Close()

	resp, err := NewGitHubClient().Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
}

func TestTransportDoesNotMutateRequest(t *testing.T) {
	os.Setenv("GITHUB_TOKEN", "ghp_testtoken123")
	defer os.Unsetenv("GITHUB_TOKEN")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	req, err := http.NewRequest("GET", srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := NewGitHubClient().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if auth := req.Header.Get("Authorization"); auth != "" {
		t.Errorf("original request was mutated: %q", auth)
	}
}
