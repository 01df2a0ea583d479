package config

import (
	"testing"
	"testing/fstest"
	"time"
)

func TestJSONRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Editor.Mode = "css"
	cfg.Editor.ReadOnly = true
	cfg.History.CoalesceWindow = 1500 * time.Millisecond
	cfg.Logging.Level = "debug"

	data, err := cfg.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	fsys := fstest.MapFS{"dump.json": {Data: data}}
	got, err := Load("dump.json", WithFS(fsys), WithoutEnv())
	if err != nil {
		t.Fatalf("Load() error = %v\n%s", err, data)
	}
	if *got != *cfg {
		t.Errorf("round trip = %+v, want %+v", *got, *cfg)
	}
}
