package format

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "empty input",
			html: "",
			want: "",
		},
		{
			name: "clean content unchanged",
			html: "<p>hello <strong>world</strong></p>",
			want: "<p>hello <strong>world</strong></p>",
		},
		{
			name: "script block removed",
			html: `<p>safe</p><script>alert("x")</script>`,
			want: "<p>safe</p>",
		},
		{
			name: "multiline script removed",
			html: "<script>\nvar a = 1;\nalert(a);\n</script><p>kept</p>",
			want: "<p>kept</p>",
		},
		{
			name: "script with attributes removed",
			html: `<script type="text/javascript" src="evil.js"></script>ok`,
			want: "ok",
		},
		{
			name: "style block removed",
			html: `<style>body { display: none; }</style><p>kept</p>`,
			want: "<p>kept</p>",
		},
		{
			name: "event handler attribute removed",
			html: `<p onclick="steal()">text</p>`,
			want: `<p >text</p>`,
		},
		{
			name: "uppercase event handler removed",
			html: `<img ONERROR='bad()' src="a.png">`,
			want: `<img  src="a.png">`,
		},
		{
			name: "inline style attribute preserved",
			html: `<p style="margin: 1em 0;">styled</p>`,
			want: `<p style="margin: 1em 0;">styled</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeHTML(tt.html)
			if got != tt.want {
				t.Errorf("SanitizeHTML(%q) = %q, want %q", tt.html, got, tt.want)
			}
		})
	}
}

func TestSanitizeHTMLIdempotent(t *testing.T) {
	inputs := []string{
		`<p onclick="x()">a</p><script>b()</script><style>c{}</style>`,
		"<h1>Title</h1><p>Body</p>",
		"",
	}

	for _, in := range inputs {
		once := SanitizeHTML(in)
		twice := SanitizeHTML(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestIsHTMLContent(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"<p>tagged</p>", true},
		{"<br>", true},
		{"plain text only", false},
		{"a < b and b > c", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsHTMLContent(tt.text); got != tt.want {
			t.Errorf("IsHTMLContent(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestHasDocumentStructure(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"html heading", "<h2>Section</h2>", true},
		{"table", "<table><tr><td>x</td></tr></table>", true},
		{"list", "<ul><li>x</li></ul>", true},
		{"blockquote", "<blockquote>q</blockquote>", true},
		{"letter subject line", "Subject: Quarterly review\n\nDear team,", true},
		{"letter salutation", "Dear Ms. Chen,\n\nThank you.", true},
		{"markdown heading", "# Overview\ntext", true},
		{"plain prose", "Just a short answer without structure.", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasDocumentStructure(tt.text); got != tt.want {
				t.Errorf("HasDocumentStructure(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractPlainText(t *testing.T) {
	t.Run("markers removed", func(t *testing.T) {
		got := ExtractPlainText("<h1>Title</h1><ul><li>item</li></ul>", 200)
		if strings.Contains(got, "**") || strings.Contains(got, "•") {
			t.Errorf("markers survived: %q", got)
		}
		if !strings.Contains(got, "Title") || !strings.Contains(got, "item") {
			t.Errorf("content lost: %q", got)
		}
	})

	t.Run("truncated with ellipsis", func(t *testing.T) {
		got := ExtractPlainText("<p>"+strings.Repeat("a", 500)+"</p>", 100)
		if !strings.HasSuffix(got, "...") {
			t.Errorf("missing ellipsis: %q", got)
		}
		if len(got) > 103 {
			t.Errorf("length %d exceeds limit", len(got))
		}
	})

	t.Run("truncation keeps valid UTF-8", func(t *testing.T) {
		got := ExtractPlainText("<p>"+strings.Repeat("é", 100)+"</p>", 99)
		if !utf8.ValidString(got) {
			t.Errorf("invalid UTF-8 after truncation: %q", got)
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("missing ellipsis: %q", got)
		}
	})

	t.Run("short text untouched", func(t *testing.T) {
		got := ExtractPlainText("<p>short</p>", 100)
		if got != "short" {
			t.Errorf("got %q, want %q", got, "short")
		}
	})
}
