package cli

import (
	"strings"
	"testing"
)

func TestCopyCommand(t *testing.T) {
	f := newFakeService(t)
	f.reply("Select", okBody("Select",
		"<SelectResult><Item><Name>mike</Name><Attribute><Name>name</Name><Value>Mike</Value></Attribute></Item></SelectResult>"))
	f.reply("ListDomains", okBody("ListDomains", "<ListDomainsResult><DomainName>archive</DomainName></ListDomainsResult>"))
	f.reply("BatchPutAttributes", okBody("BatchPutAttributes", ""))

	out, err := execCommand(t, f, "copy", "users", "archive")
	if err != nil {
		t.Fatalf("copy returned error: %v", err)
	}
	if !strings.Contains(out, "copied 1 items from users to archive") {
		t.Errorf("output = %q", out)
	}

	if got := f.request(0).Get("SelectExpression"); got != "SELECT * FROM `users`" {
		t.Errorf("source select = %q", got)
	}
	batch := f.request(2)
	if got := batch.Get("DomainName"); got != "archive" {
		t.Errorf("batch DomainName = %q", got)
	}
	if got := batch.Get("Item.0.ItemName"); got != "mike" {
		t.Errorf("Item.0.ItemName = %q", got)
	}
	if got := batch.Get("Item.0.Attribute.0.Value"); got != "Mike" {
		t.Errorf("Item.0.Attribute.0.Value = %q", got)
	}
}
