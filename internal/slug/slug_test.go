//go:build unit

package slug

import "testing"

func TestGenerate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"L'Été à Paris, 2024!", "l-ete-a-paris-2024"},
		{"Cuisine française traditionnelle", "cuisine-francaise-traditionnelle"},
		{"El niño y el mañana", "el-nino-y-el-manana"},
		{"  spaces  everywhere  ", "spaces-everywhere"},
		{"déjà---vu", "deja-vu"},
		{"œuvre & cætera", "oeuvre-caetera"},
		{"", ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := Generate(tc.in); got != tc.want {
				t.Errorf("Generate(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
