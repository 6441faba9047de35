package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_BlocksInOrder(t *testing.T) {
	input := `<html><head><title>Report</title><style>p{}</style></head>
<body>
<nav>skip me</nav>
<h1>Sudan</h1>
<p>Independence came in 1956.</p>
<ul><li>Khartoum</li><li>Darfur</li></ul>
<script>var x = 1;</script>
</body></html>`

	p := &HTMLParser{}
	pages, err := p.Parse(strings.NewReader(input), "report.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Sudan", "Independence came in 1956.", "Khartoum", "Darfur"}
	if len(pages) != len(want) {
		t.Fatalf("expected %d pages, got %d: %+v", len(want), len(pages), pages)
	}
	for i, w := range want {
		if pages[i].Text != w {
			t.Errorf("page[%d]: expected %q, got %q", i, w, pages[i].Text)
		}
	}
}

func TestHTMLParser_LineBreaks(t *testing.T) {
	p := &HTMLParser{}
	pages, err := p.Parse(strings.NewReader("<p>one<br>two</p>"), "br.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 || pages[0].Text != "one\ntwo" {
		t.Fatalf("expected single page %q, got %+v", "one\ntwo", pages)
	}
}
