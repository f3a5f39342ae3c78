package overlay

import (
	"strings"
	"testing"

	"github.com/glabrego/gallery-cli/internal/unsplash"
)

func testPhoto() unsplash.Photo {
	return unsplash.Photo{
		ID:             "abc",
		Width:          4000,
		Height:         3000,
		AltDescription: "a <b>red</b> fox &amp; snow",
		URLs:           unsplash.URLs{Regular: "https://images.example/abc?w=1080", Small: "https://images.example/abc?w=400"},
		User:           unsplash.User{Name: "Ana Lima", Username: "analima"},
	}
}

func TestSelection_SelectAndDismiss(t *testing.T) {
	var sel Selection
	if sel.Visible() || sel.URL() != "" {
		t.Fatal("zero selection should be hidden")
	}
	sel.Select(testPhoto())
	if !sel.Visible() {
		t.Fatal("expected overlay visible after select")
	}
	if sel.URL() != "https://images.example/abc?w=1080" {
		t.Fatalf("expected regular URL, got %q", sel.URL())
	}

	other := testPhoto()
	other.ID = "def"
	sel.Select(other)
	if p, _ := sel.Photo(); p.ID != "def" {
		t.Fatalf("expected selection replaced, got %q", p.ID)
	}

	sel.Dismiss()
	if sel.Visible() {
		t.Fatal("expected overlay hidden after dismiss")
	}
}

func TestSelection_CopiesPhoto(t *testing.T) {
	p := testPhoto()
	var sel Selection
	sel.Select(p)
	p.URLs.Regular = "changed"
	if sel.URL() == "changed" {
		t.Fatal("selection should not alias the caller's photo")
	}
}

func TestRender_EmptyWhenNothingSelected(t *testing.T) {
	if got := Render(Selection{}, Options{Width: 80}); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}

func TestRender_ShowsDetails(t *testing.T) {
	var sel Selection
	sel.Select(testPhoto())
	out := Render(sel, Options{Width: 80, Preview: "[image]\n"})
	for _, want := range []string{
		"a red fox & snow",
		"by Ana Lima (@analima)",
		"4000 × 3000",
		"[image]",
		"https://images.example/abc?w=1080",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in overlay, got:\n%s", want, out)
		}
	}
}

func TestRender_FallbackLabelAndPending(t *testing.T) {
	p := testPhoto()
	p.AltDescription = ""
	p.Description = "<p> </p>"
	p.User = unsplash.User{}
	var sel Selection
	sel.Select(p)
	out := Render(sel, Options{Width: 80, PreviewPending: true})
	if !strings.HasPrefix(out, unsplash.DefaultLabel+"\n") {
		t.Fatalf("expected fallback label first, got:\n%s", out)
	}
	if !strings.Contains(out, "Loading preview...") {
		t.Fatalf("expected pending placeholder, got:\n%s", out)
	}
	if strings.Contains(out, "by ") {
		t.Fatalf("expected no author line, got:\n%s", out)
	}
}

func TestAuthor(t *testing.T) {
	cases := map[unsplash.User]string{
		{Name: "A"}:                "by A",
		{Username: "a"}:            "by @a",
		{Name: "A", Username: "a"}: "by A (@a)",
		{}:                         "",
	}
	for user, want := range cases {
		if got := Author(unsplash.Photo{User: user}); got != want {
			t.Fatalf("Author(%+v) = %q, want %q", user, got, want)
		}
	}
}
