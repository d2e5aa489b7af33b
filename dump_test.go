package mealinfo

import (
	"io/ioutil"
	"path/filepath"
	"testing"
)

func TestDumpOutput(t *testing.T) {
	config := DefaultConfig()
	config.DumpDir = filepath.Join(t.TempDir(), "dump")

	// disabled, nothing written
	dumpOutput(config, "relay", []byte("<html>"))

	config.DumpOutput = true
	dumpOutput(config, "relay", []byte("<html>"))
	dumpOutput(config, "relay", []byte("<html>"))

	files, err := ioutil.ReadDir(config.DumpDir)
	if err != nil {
		t.Errorf("Unexpected Error: %v", err)
		return
	}
	if len(files) != 1 {
		t.Errorf("Expecting 1 dump file, got %d", len(files))
		return
	}

	body, _ := ioutil.ReadFile(filepath.Join(config.DumpDir, files[0].Name()))
	if string(body) != "<html>" {
		t.Errorf("Expecting dumped body, got %s", string(body))
		return
	}
}

func TestDumpObjectKey(t *testing.T) {
	config := DefaultConfig()

	tests := []struct {
		prefix   string
		expected string
	}{
		{"", "relay.abc.out"},
		{DefaultDumpS3Prefix, "mealinfo/dump/relay.abc.out"},
		{"/raw/neis/", "raw/neis/relay.abc.out"},
	}

	for _, test := range tests {
		config.DumpS3Prefix = test.prefix
		if key := DumpObjectKey(config, "relay.abc.out"); key != test.expected {
			t.Errorf("prefix '%s': Expecting '%s', got '%s'", test.prefix, test.expected, key)
			return
		}
	}
}

func TestDumpContentType(t *testing.T) {
	if ct := dumpContentType([]byte(`{"RESULT":{}}`)); ct != "application/json" {
		t.Errorf("Expecting application/json, got %s", ct)
		return
	}
	if ct := dumpContentType([]byte("<html>blocked</html>")); ct != "text/plain; charset=utf-8" {
		t.Errorf("Expecting text/plain, got %s", ct)
		return
	}
}
