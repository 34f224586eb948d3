package source

import "testing"

func TestIsVideoURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		url  string
		want bool
	}{
		{"https://v.redd.it/abc123", true},
		{"https://cdn.example/clip.mp4", true},
		{"https://example.com/article", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := isVideoURL(tc.url); got != tc.want {
			t.Fatalf("isVideoURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}
