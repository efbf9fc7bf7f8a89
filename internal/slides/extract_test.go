package slides

import "testing"

func TestHTMLExtractor(t *testing.T) {
	page := []byte(`<html><head><style>section{color:red}</style></head><body>
<section data-x="1"><h1>Welcome</h1></section>
<section><h2>Closures</h2>
  <p>Functions &amp; scope</p></section>
<section></section>
</body></html>`)

	got, err := HTMLExtractor{}.Extract(page)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Welcome", "Closures Functions & scope", ""}
	if len(got) != len(want) {
		t.Fatalf("got %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slide %d = %q, want %q", i+1, got[i], want[i])
		}
	}
}

func TestHTMLExtractor_NoSections(t *testing.T) {
	got, err := HTMLExtractor{}.Extract([]byte("<p>plain page</p>"))
	if err != nil || len(got) != 0 {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestHTMLExtractor_NestedSections(t *testing.T) {
	page := []byte(`<div class="slides">
<section><h1>Intro</h1></section>
<section>
  <section><h2>Closures</h2></section>
  <section><h2>Capture</h2><script>var x = "<section>";</script></section>
</section>
<section><p>Wrap&nbsp;up</p></section>
</div>`)

	got, err := HTMLExtractor{}.Extract(page)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Intro", "Closures", "Capture", "Wrap up"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slide %d = %q, want %q", i+1, got[i], want[i])
		}
	}
}
