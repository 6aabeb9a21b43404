package survey

import (
	"reflect"
	"testing"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "comma separated",
			raw:  "/docs, /pricing, /about",
			want: []string{"/docs", "/pricing", "/about"},
		},
		{
			name: "newline separated",
			raw:  "/docs\n/pricing\r\n/about",
			want: []string{"/docs", "/pricing", "/about"},
		},
		{
			name: "mixed separators with blanks",
			raw:  "/docs,,\n ,/pricing",
			want: []string{"/docs", "/pricing"},
		},
		{
			name: "placeholder tokens dropped",
			raw:  "none, /docs, N/A, na, -",
			want: []string{"/docs"},
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			raw:  "   \n\t ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseList(tt.raw)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseList(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
