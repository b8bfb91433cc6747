package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestDumpCommand(t *testing.T) {
	f := newFakeService(t)
	f.reply("Select", okBody("Select",
		"<SelectResult><Item><Name>mike</Name><Attribute><Name>name</Name><Value>Mike</Value></Attribute><Attribute><Name>tag</Name><Value>a</Value></Attribute><Attribute><Name>tag</Name><Value>b</Value></Attribute></Item></SelectResult>"))

	out, err := execCommand(t, f, "dump", "users")
	if err != nil {
		t.Fatalf("dump returned error: %v", err)
	}
	if got := f.request(0).Get("SelectExpression"); got != "SELECT * FROM `users`" {
		t.Errorf("SelectExpression = %q", got)
	}

	var dump domainJSON
	if err := json.Unmarshal([]byte(out), &dump); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	attrs := dump["mike"]
	if attrs == nil {
		t.Fatalf("dump = %v, want item mike", dump)
	}
	if attrs["name"] != "Mike" {
		t.Errorf("name = %v, want single value", attrs["name"])
	}
	tags, ok := attrs["tag"].([]any)
	if !ok || len(tags) != 2 {
		t.Errorf("tag = %v, want two values", attrs["tag"])
	}
}

func TestDumpCommand_ToFile(t *testing.T) {
	f := newFakeService(t)
	f.reply("Select", okBody("Select",
		"<SelectResult><Item><Name>anna</Name><Attribute><Name>name</Name><Value>Anna</Value></Attribute></Item></SelectResult>"))

	path := filepath.Join(t.TempDir(), "users.json")
	out, err := execCommand(t, f, "dump", "users", "--out", path)
	if err != nil {
		t.Fatalf("dump returned error: %v", err)
	}
	if strings.Contains(out, "Anna") {
		t.Error("dump wrote items to stdout despite --out")
	}

	var dump domainJSON
	if err := readJSON(t, path, &dump); err != nil {
		t.Fatalf("reading dump file: %v", err)
	}
	if dump["anna"]["name"] != "Anna" {
		t.Errorf("file dump = %v", dump)
	}
}
