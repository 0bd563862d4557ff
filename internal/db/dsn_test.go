package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"url form untouched", "postgres://u:p@localhost:5432/gestion?sslmode=disable", "postgres://u:p@localhost:5432/gestion?sslmode=disable"},
		{"quotes trimmed", `"host=localhost user=u dbname=gestion sslmode=disable"`, "host=localhost user=u dbname=gestion sslmode=disable"},
		{"sslmode defaulted", "host=localhost user=u dbname=gestion", "host=localhost user=u dbname=gestion sslmode=disable"},
		{"spaces collapsed", "host=localhost   user=u  dbname=gestion sslmode=require", "host=localhost user=u dbname=gestion sslmode=require"},
		{"empty", "", ""},
		{"garbage unchanged", "not a dsn", "not a dsn"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeDSN(tc.in); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestToURLDSN(t *testing.T) {
	got := ToURLDSN("host=localhost port=5432 user=u password=p dbname=gestion sslmode=disable")
	want := "postgres://u:p@localhost:5432/gestion?sslmode=disable"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	// missing mandatory parts: passed through for the driver to reject
	in := "host=localhost"
	if got := ToURLDSN(in); got != in {
		t.Fatalf("partial dsn should pass through, got %q", got)
	}
}
