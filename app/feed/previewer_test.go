package feed

import "testing"

func TestPreviewerStripsMarkup(t *testing.T) {
	previewer := NewPreviewer()

	text := previewer.Run(`<p>Hello <b>world</b></p><script>alert(1)</script>
	<p>Second   paragraph</p>`)

	if text != "Hello world Second paragraph" {
		t.Errorf("Unexpected preview text: %q", text)
	}
}

func TestPreviewerPlainText(t *testing.T) {
	previewer := NewPreviewer()

	if text := previewer.Run("  just text  "); text != "just text" {
		t.Errorf("Unexpected preview text: %q", text)
	}
	if text := previewer.Run(""); text != "" {
		t.Errorf("Expected empty preview, got: %q", text)
	}
}
