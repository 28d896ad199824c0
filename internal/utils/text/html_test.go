package text_test

import (
	"testing"

	"github.com/3weTN/latest-news/internal/utils/text"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"tags removed", "<p>Résumé</p>", "Résumé"},
		{"nested tags", "<div><a href=\"x\">Lire</a> la suite</div>", "Lire la suite"},
		{"named entities", "Foire &amp; Salon &nbsp;2024", "Foire & Salon  2024"},
		{"numeric entity", "caf&#233;", "café"},
		{"guillemets", "&#171;Officiel&#187;", "«Officiel»"},
		{"unknown entity passes through", "x &unknown; y", "x &unknown; y"},
		{"whitespace trimmed", "  <b>titre</b>  ", "titre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.StripHTML(tt.input); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := make([]rune, 0, 300)
	for i := 0; i < 300; i++ {
		long = append(long, 'é')
	}

	got := text.Truncate(string(long), 280)
	if text.CountRunes(got) != 280 {
		t.Errorf("Truncate length = %d runes, want 280", text.CountRunes(got))
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("Truncate missing ellipsis marker: %q", got[len(got)-10:])
	}

	short := "Résumé"
	if text.Truncate(short, 280) != short {
		t.Errorf("Truncate modified short input")
	}
}
