package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectNameFromURL(t *testing.T) {
	tests := []struct {
		url    string
		name   string
		wantOK bool
	}{
		{"https://storage.googleapis.com/candy-photos/progress-photos/abc/def.jpg", "progress-photos/abc/def.jpg", true},
		{"https://storage.googleapis.com/candy-photos/x.png", "x.png", true},
		{"https://storage.googleapis.com/bucket-only", "", false},
		{"https://example.com/candy-photos/x.png", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		name, ok := objectNameFromURL(tt.url)
		assert.Equal(t, tt.wantOK, ok, tt.url)
		assert.Equal(t, tt.name, name, tt.url)
	}
}
