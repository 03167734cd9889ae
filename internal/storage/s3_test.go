// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"strings"
	"testing"
)

func TestNewUnconfigured(t *testing.T) {
	client, err := New("", "us-east-1", "", "", "bucket", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client != nil {
		t.Error("expected nil client without endpoint and credentials")
	}
}

func TestFileURLAndExtractKeyRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		endpoint  string
		publicURL string
	}{
		{"path-style endpoint", "http://localhost:9000", ""},
		{"public cdn url", "http://localhost:9000", "https://cdn.example.com"},
		{"trailing slashes trimmed", "http://localhost:9000/", "https://cdn.example.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.endpoint, "us-east-1", "key", "secret", "covers", tt.publicURL)
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			url := client.FileURL("cover-images/123-abcd.png")
			got, ok := client.ExtractKey(url)
			if !ok {
				t.Fatalf("ExtractKey(%q) did not recognize our own URL", url)
			}
			if got != "cover-images/123-abcd.png" {
				t.Errorf("key = %q", got)
			}
		})
	}
}

func TestExtractKeyForeignURL(t *testing.T) {
	client, err := New("http://localhost:9000", "us-east-1", "key", "secret", "covers", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Covers hot-linked from elsewhere are not ours to delete.
	if _, ok := client.ExtractKey("https://images.example.org/photo.jpg"); ok {
		t.Error("foreign URL treated as a stored object")
	}
}

func TestCoverKey(t *testing.T) {
	key, err := coverKey("Photo Of My Cat.PNG")
	if err != nil {
		t.Fatalf("coverKey: %v", err)
	}

	if !strings.HasPrefix(key, coverPrefix) {
		t.Errorf("key %q missing prefix %q", key, coverPrefix)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("key %q should keep a lowercased extension", key)
	}

	// Two keys for the same name must differ.
	other, err := coverKey("Photo Of My Cat.PNG")
	if err != nil {
		t.Fatalf("coverKey: %v", err)
	}
	if key == other {
		t.Errorf("coverKey produced a duplicate: %q", key)
	}
}
