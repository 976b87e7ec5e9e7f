package shared

import (
	"bytes"
	"testing"
)

func TestNormalizeTitleKey(t *testing.T) {
	tc := []struct {
		name     string
		title    string
		director string
		want     string
	}{
		{
			name:     "basic normalization",
			title:    "The Iron Giant",
			director: "Brad Bird",
			want:     "the iron giant|brad bird",
		},
		{
			name:     "extra whitespace",
			title:    "  The   Iron  Giant  ",
			director: "  Brad   Bird  ",
			want:     "the iron giant|brad bird",
		},
		{
			name:     "mixed case",
			title:    "ThE IrOn GiAnT",
			director: "BrAd BiRd",
			want:     "the iron giant|brad bird",
		},
		{
			name:     "empty director",
			title:    "Alien",
			director: "",
			want:     "alien|",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTitleKey(tt.title, tt.director)
			if got != tt.want {
				t.Errorf("NormalizeTitleKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("With Writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		logger.Info("hello")
		if buf.Len() == 0 {
			t.Error("expected log output to be written to buffer")
		}
	})

	t.Run("With Nil Writer", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("expected logger instance")
		}
	})
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty IDs")
	}
	if a == b {
		t.Error("expected unique IDs")
	}
}
