package enums

import "testing"

func TestParseProductType(t *testing.T) {
	t.Parallel()

	got, err := ParseProductType("digital")
	if err != nil || got != ProductTypeDigital {
		t.Fatalf("expected digital, got %q err=%v", got, err)
	}
	if _, err := ParseProductType("service"); err == nil {
		t.Fatal("expected error for unknown product type")
	}
	if ProductType("").IsValid() {
		t.Fatal("empty product type should be invalid")
	}
}

func TestParseStorageDriver(t *testing.T) {
	t.Parallel()

	cases := map[string]StorageDriver{
		"memory":   StorageDriverMemory,
		" Redis ":  StorageDriverRedis,
		"SQLITE":   StorageDriverSQLite,
		"postgres": StorageDriverPostgres,
	}
	for raw, want := range cases {
		got, err := ParseStorageDriver(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s got %s", raw, want, got)
		}
	}
	if _, err := ParseStorageDriver("dynamo"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !StorageDriverPostgres.IsSQL() || StorageDriverRedis.IsSQL() {
		t.Fatal("unexpected IsSQL result")
	}
}
