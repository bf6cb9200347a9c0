package pdftext

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pbberlin/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, contentType string, status int, body string) string {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "monitor-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/recap/doc.pdf"
}

func TestExtract_PlainText(t *testing.T) {
	u := serve(t, "text/plain; charset=utf-8", http.StatusOK, "SARAH SILVERMAN, Plaintiffs, v. OPENAI, Defendants.")
	e := New(WithUserAgent("monitor-test"))

	assert.Equal(t, "SARAH SILVERMAN", e.Extract(context.Background(), u, 15))
}

func TestExtract_FailuresYieldEmpty(t *testing.T) {
	e := New(WithUserAgent("monitor-test"))
	ctx := context.Background()

	cases := map[string]string{
		"not found":     serve(t, "text/plain", http.StatusNotFound, "missing"),
		"html":          serve(t, "text/html", http.StatusOK, "<html>login</html>"),
		"malformed pdf": serve(t, "application/pdf", http.StatusOK, "%PDF-1.4\nthis is not a real pdf"),
	}
	for name, u := range cases {
		assert.Equal(t, "", e.Extract(ctx, u, 4000), name)
	}
	assert.Equal(t, "", e.Extract(ctx, "http://127.0.0.1:1/unreachable.pdf", 4000))
	assert.Equal(t, "", e.Extract(ctx, "::bad url", 4000))
}

func TestParsePDF_GarbageDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		_, err := ParsePDF([]byte("%PDF-1.7\n"+strings.Repeat("x", 64)), 3)
		assert.Error(t, err)
	})
}

// glyphs lays s out one rune per fragment, the way content streams arrive.
func glyphs(s string, x, y, size float64) []pdf.Text {
	var out []pdf.Text
	w := size / 2
	for _, r := range s {
		out = append(out, pdf.Text{FontSize: size, X: x, Y: y, W: w, S: string(r)})
		x += w
	}
	return out
}

func TestJoinFragments(t *testing.T) {
	var texts []pdf.Text
	texts = append(texts, glyphs("Plaintiff", 72, 700, 10)...)
	texts = append(texts, glyphs("v.", 72+9*5+3, 700, 10)...)
	texts = append(texts, glyphs("OPENAI", 72+9*5+3+2*5+3, 700, 10)...)
	texts = append(texts, glyphs("Defendant", 72, 688, 10)...)
	assert.Equal(t, "Plaintiff v. OPENAI\nDefendant", joinFragments(texts))

	tight := append(glyphs("Co", 72, 500, 10), glyphs("urt", 72+2*5+0.5, 500, 10)...)
	assert.Equal(t, "Court", joinFragments(tight), "kerning is not a word gap")

	spaced := append(glyphs("A ", 72, 500, 10), glyphs("B", 72+2*5+4, 500, 10)...)
	assert.Equal(t, "A B", joinFragments(spaced), "no doubled space")

	assert.Equal(t, "", joinFragments(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "소송", Truncate("소송모니터", 2))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "unbounded", Truncate("unbounded", 0))
}

//Personal.AI order the ending
