package extract

import (
	"testing"

	"github.com/ppiankov/jurisflow/internal/model"
)

const decisionPage = `<!DOCTYPE html>
<html>
<head><title>Processo</title><script>var rmi = "9.999,99";</script></head>
<body>
	<h2>DISPOSITIVO</h2>
	<p>RMI: <b>R$ 1.320,00</b></p>
	<p>DIB: 01/06/2023</p>
	<style>p { color: red; }</style>
</body>
</html>`

func TestVisibleText(t *testing.T) {
	got, err := VisibleText(decisionPage)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := "DISPOSITIVO\nRMI: R$ 1.320,00\nDIB: 01/06/2023"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestIsHTML(t *testing.T) {
	if !IsHTML(decisionPage) {
		t.Error("Expected page to be detected as HTML")
	}
	if IsHTML("RMI: R$ 1.320,00\nDIB: 01/06/2023") {
		t.Error("Expected plain text not to be detected as HTML")
	}
}

func TestPlainText_HTMLFeedsLabels(t *testing.T) {
	text, err := PlainText(decisionPage)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got := NewLabelExtractor(benefitRules).Extract(text, model.TierDocument)
	if len(got) != 2 {
		t.Fatalf("Expected 2 candidates, got %d: %v", len(got), got)
	}
	if got[0].RawText != "R$ 1.320,00" || got[0].Locator != "dispositivo#L2" {
		t.Errorf("Unexpected RMI candidate: %v", got[0])
	}
	if got[1].Field != "dib" {
		t.Errorf("Expected dib, got %s", got[1].Field)
	}
}

func TestPlainText_PassThrough(t *testing.T) {
	in := "RMI: 1.320,00"
	got, err := PlainText(in)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != in {
		t.Errorf("Expected text unchanged, got %q", got)
	}
}
