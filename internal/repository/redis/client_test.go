package redis

import "testing"

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions("redis://localhost:6380/2")
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 2 {
		t.Errorf("unexpected target %s db %d", opts.Addr, opts.DB)
	}
	if opts.ClientName != ClientName {
		t.Errorf("expected client name %q, got %q", ClientName, opts.ClientName)
	}

	named, err := ParseOptions("redis://localhost:6379/0?client_name=worker-3")
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if named.ClientName != "worker-3" {
		t.Errorf("URL client name should win, got %q", named.ClientName)
	}

	if _, err := ParseOptions("http://nope"); err == nil {
		t.Error("expected an error for a non-redis scheme")
	}
}
