package service

import (
	"errors"
	"testing"
	"time"
)

func TestCleanDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{
			name: "rfc3339",
			raw:  "2014-05-01T12:00:00Z",
			want: time.Date(2014, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "rfc3339 with offset",
			raw:  "2014-05-01T12:00:00-05:00",
			want: time.Date(2014, 5, 1, 17, 0, 0, 0, time.UTC),
		},
		{
			name: "fractional seconds",
			raw:  "2014-05-01T12:00:00.123456Z",
			want: time.Date(2014, 5, 1, 12, 0, 0, 123456000, time.UTC),
		},
		{
			name: "no zone",
			raw:  "2014-05-01T12:00:00",
			want: time.Date(2014, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "space separated",
			raw:  "2014-05-01 12:00:00",
			want: time.Date(2014, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "date only",
			raw:  "2014-05-01",
			want: time.Date(2014, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			raw:     "last tuesday",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cleanDate(tt.raw, time.UTC)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedRecord) {
					t.Fatalf("expected ErrMalformedRecord, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCleanContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"title and body", "My Title\nBody line 1\nBody line 2", "Body line 1\nBody line 2"},
		{"title and empty body", "My Title\n", ""},
		{"no line break", "just one line", "just one line"},
		{"empty", "", ""},
		{"leading newline", "\nbody", "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanContent(tt.content); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseStartupFlag(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"True", false},
		{"TRUE", false},
		{"false", false},
		{"1", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := parseStartupFlag(tt.value); got != tt.want {
			t.Errorf("parseStartupFlag(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
