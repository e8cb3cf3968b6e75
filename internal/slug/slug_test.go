//go:build unit

package slug

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Déjà vu: l'été à Paris!  ", "deja-vu-l-ete-a-paris"},
		{"Go 1.24 -- nouveautés", "go-1-24-nouveautes"},
		{"---", ""},
		{"Ça marche", "ca-marche"},
	}
	for _, tt := range tests {
		if got := Make(tt.in); got != tt.want {
			t.Errorf("Make(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestFold(t *testing.T) {
	if got := Fold("ÉLÈVE Noël"); got != "eleve noel" {
		t.Errorf("Fold = %q", got)
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Quels sont vos tarifs ? Les tarifs du site vitrine, SVP.")
	want := []string{"quels", "sont", "vos", "tarifs", "site", "vitrine", "svp"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTitle(t *testing.T) {
	if got := Title("mon-premier_article"); got != "Mon Premier Article" {
		t.Errorf("Title = %q", got)
	}
}
