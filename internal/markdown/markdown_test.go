package markdown

import (
	"strings"
	"testing"
)

type panicRenderer struct{}

func (panicRenderer) Render(string) (string, error) {
	panic("boom")
}

func withRenderer(t *testing.T, width int, r renderer) {
	t.Helper()
	rendererMu.Lock()
	prev, hadPrev := renderers[width]
	renderers[width] = r
	rendererMu.Unlock()

	t.Cleanup(func() {
		rendererMu.Lock()
		if hadPrev {
			renderers[width] = prev
		} else {
			delete(renderers, width)
		}
		rendererMu.Unlock()
	})
}

func TestRender_RecoversFromRendererPanic(t *testing.T) {
	const renderWidth = 20
	withRenderer(t, renderWidth, panicRenderer{})

	out := Render(renderWidth, 0, []byte("hello\n"))
	if string(out) != "hello" {
		t.Fatalf("expected fallback to original markdown, got %q", string(out))
	}
}

func TestRender_Empty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "   \r\n"} {
		if out := Render(40, 2, []byte(input)); out != nil {
			t.Errorf("expected nil for %q, got %q", input, out)
		}
	}
}

func TestRender_FormatsAndIndents(t *testing.T) {
	out := string(Render(40, 4, []byte("# Groceries\n\n* milk\n* eggs\n")))

	if !strings.Contains(out, "milk") || !strings.Contains(out, "eggs") {
		t.Fatalf("expected list items in output, got %q", out)
	}
	if strings.Contains(out, "* milk") {
		t.Fatalf("expected markdown bullets to be restyled, got %q", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if line != "" && !strings.HasPrefix(line, "    ") {
			t.Fatalf("expected every line indented, got %q", line)
		}
	}
}
