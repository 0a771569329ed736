package cache

import "testing"

func TestNormalizeID(t *testing.T) {
	got := NormalizeID("28e0b827-f233-8013-846d-e7a6257a4480")
	want := "28e0b827f2338013846de7a6257a4480"
	if got != want {
		t.Errorf("NormalizeID = %q, want %q", got, want)
	}
}

func TestFormatID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"28e0b827f2338013846de7a6257a4480", "28e0b827-f233-8013-846d-e7a6257a4480"},
		{"28e0b827-f233-8013-846d-e7a6257a4480", "28e0b827-f233-8013-846d-e7a6257a4480"},
		{"not-an-id", "not-an-id"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatID(tt.in); got != tt.want {
			t.Errorf("FormatID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"28e0b827f2338013846de7a6257a4480", true},
		{"28e0b827-f233-8013-846d-e7a6257a4480", true},
		{"28E0B827F2338013846DE7A6257A4480", true},
		{"28e0b827f2338013846de7a6257a448", false},
		{"28e0b827f2338013846de7a6257a4480ff", false},
		{"zze0b827f2338013846de7a6257a4480", false},
		{"Meeting Notes", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsID(tt.in); got != tt.want {
			t.Errorf("IsID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
