package pdb

import (
	"encoding/xml"
	"testing"
)

func parseElement(t *testing.T, raw string) element {
	t.Helper()
	var el element
	if err := xml.Unmarshal([]byte(raw), &el); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return el
}

func TestFieldsLowercasesAttributesAndLeaves(t *testing.T) {
	el := parseElement(t, `<STATE Name="UT"><LICENSE_NUM> 42 </LICENSE_NUM><DETAILS><DETAIL><LOA>Life</LOA></DETAIL></DETAILS></STATE>`)
	fields := el.fields()
	if fields["name"] != "UT" || fields["license_num"] != "42" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if _, ok := fields["details"]; ok {
		t.Fatal("nested children must not become fields")
	}
}

func TestAllTreatsSingletonAndListAlike(t *testing.T) {
	single := parseElement(t, `<X><A>1</A></X>`)
	many := parseElement(t, `<X><A>1</A><A>2</A><B>3</B></X>`)
	if len(single.all("A")) != 1 || len(many.all("a")) != 2 {
		t.Fatalf("unexpected child counts")
	}
}

func TestFlattenDetails(t *testing.T) {
	el := parseElement(t, `<DETAILS>
<DETAIL><LOA>Life</LOA></DETAIL>
<DETAIL><DETAIL><LOA>Health</LOA></DETAIL><DETAIL><DETAIL><LOA>Annuity</LOA></DETAIL></DETAIL></DETAIL>
<DETAIL><LOA>Property</LOA><EXTRA><X>1</X></EXTRA></DETAIL>
</DETAILS>`)
	flat, skipped := flattenDetails(el.all("DETAIL"))
	if len(flat) != 3 {
		t.Fatalf("expected 3 flat details, got %d", len(flat))
	}
	if flat[2].fields()["loa"] != "Annuity" {
		t.Fatalf("unexpected order %v", flat[2].fields())
	}
	if skipped != 1 {
		t.Fatalf("expected 1 skipped entry, got %d", skipped)
	}
}
