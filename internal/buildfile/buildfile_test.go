package buildfile

import "testing"

func TestParseMinimal(t *testing.T) {
	data := []byte("adept 3.0\nmain src/main.adept\n")
	f, err := Parse("adept.build", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Adept != "3.0" || f.Main != "src/main.adept" {
		t.Fatalf("unexpected file: %+v", f)
	}
	if f.IntervalMs != -1 || f.MaxIdleTimeMs != -1 {
		t.Fatalf("expected unset timing knobs to stay -1, got %+v", f)
	}
}

func TestParseFullWithCommentsAndQuotes(t *testing.T) {
	data := []byte(`
// project config
adept 3.0
main "src/main.adept"
interval_ms 500
max_idle_time_ms 60000
cache_to_disk true
`)
	f, err := Parse("adept.build", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.IntervalMs != 500 || f.MaxIdleTimeMs != 60000 || !f.CacheToDisk {
		t.Fatalf("unexpected file: %+v", f)
	}
}

func TestParseUnknownKeyErrors(t *testing.T) {
	data := []byte("adept 3.0\nmain src/main.adept\nbogus yes\n")
	if _, err := Parse("adept.build", data); err == nil {
		t.Fatalf("expected an error for an unknown key")
	}
}

func TestParseMissingMainErrors(t *testing.T) {
	data := []byte("adept 3.0\n")
	if _, err := Parse("adept.build", data); err == nil {
		t.Fatalf("expected an error for a missing main key")
	}
}

func TestParseWrongVersionErrors(t *testing.T) {
	data := []byte("adept 2.0\nmain src/main.adept\n")
	if _, err := Parse("adept.build", data); err == nil {
		t.Fatalf("expected an error for an unsupported adept version")
	}
}

func TestParseRepeatedKeyErrors(t *testing.T) {
	data := []byte("adept 3.0\nadept 3.0\nmain src/main.adept\n")
	if _, err := Parse("adept.build", data); err == nil {
		t.Fatalf("expected an error for a repeated key")
	}
}
