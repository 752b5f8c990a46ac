// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sanitize

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		want   string
		wantOK bool
	}{
		{
			name: "intro excluded, svg removed, link flattened",
			page: `<html><body>
<div class="article-section article-section-intro article-section-rich-text"><p>Intro</p></div>
<div class="article-section article-section-rich-text"><p>Fear causes <a href="/rules/panic">Panic</a> tests.</p><svg viewBox="0 0 1 1"><path d="M0"></path></svg></div>
</body></html>`,
			want:   `<div class="article-section article-section-rich-text"><p>Fear causes Panic tests.</p></div>`,
			wantOK: true,
		},
		{
			name: "multiple sections concatenated in order",
			page: `<main><section class="article-section-rich-text"><p>One</p></section>` +
				`<section class="article-section-other"><p>Skip</p></section>` +
				`<section class="article-section-rich-text"><p>Two</p></section></main>`,
			want:   `<section class="article-section-rich-text"><p>One</p></section><section class="article-section-rich-text"><p>Two</p></section>`,
			wantOK: true,
		},
		{
			name:   "nested sections kept once",
			page:   `<div class="article-section-rich-text"><div class="article-section-rich-text"><p>Inner</p></div></div>`,
			want:   `<div class="article-section-rich-text"><div class="article-section-rich-text"><p>Inner</p></div></div>`,
			wantOK: true,
		},
		{
			name:   "link with nested markup becomes plain text",
			page:   `<div class="article-section-rich-text"><p><a href="#x"><strong>Bold</strong> text</a></p></div>`,
			want:   `<div class="article-section-rich-text"><p>Bold text</p></div>`,
			wantOK: true,
		},
		{
			name:   "link text is escaped",
			page:   `<div class="article-section-rich-text"><a href="#">A &amp; B &lt;C&gt;</a></div>`,
			want:   `<div class="article-section-rich-text">A &amp; B &lt;C&gt;</div>`,
			wantOK: true,
		},
		{
			name:   "script and handlers removed",
			page:   `<div class="article-section-rich-text" onclick="x()"><p onmouseover="y()">A</p><script>alert(1)</script></div>`,
			want:   `<div class="article-section-rich-text"><p>A</p></div>`,
			wantOK: true,
		},
		{
			name:   "svg inside link dropped from text",
			page:   `<div class="article-section-rich-text"><a href="#"><svg><title>icon</title></svg>Terror</a></div>`,
			want:   `<div class="article-section-rich-text">Terror</div>`,
			wantOK: true,
		},
		{
			name:   "area and foreign-namespace links flattened",
			page:   `<div class="article-section-rich-text"><p>x <area href="javascript:alert(1)"> <math><a href="javascript:alert(1)">m</a></math></p></div>`,
			want:   `<div class="article-section-rich-text"><p>x  <math>m</math></p></div>`,
			wantOK: true,
		},
		{
			name:   "svg link flattened",
			page:   `<div class="article-section-rich-text"><p><svg><a href="javascript:alert(1)"><text>t</text></a></svg>Fear</p></div>`,
			want:   `<div class="article-section-rich-text"><p>Fear</p></div>`,
			wantOK: true,
		},
		{
			name:   "nested intro block removed",
			page:   `<div class="article-section-rich-text"><div class="article-section-intro"><p>INTRO</p></div><p>Body</p></div>`,
			want:   `<div class="article-section-rich-text"><p>Body</p></div>`,
			wantOK: true,
		},
		{
			name:   "only intro section",
			page:   `<div class="article-section-rich-text article-section-intro"><p>Intro</p></div>`,
			wantOK: false,
		},
		{
			name:   "no sections",
			page:   `<html><body><p>Not found</p></body></html>`,
			wantOK: false,
		},
		{
			name:   "empty body",
			page:   ``,
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Document(strings.NewReader(tt.page))
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, !tt.wantOK, got.IsZero())
		})
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestDocumentReadError(t *testing.T) {
	_, ok, err := Document(errReader{})
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestHasClass(t *testing.T) {
	doc := `<div class="  article-section-rich-text   wide "><p>x</p></div>`
	got, ok, err := Document(strings.NewReader(doc))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, got.String(), "<p>x</p>")

	_, ok, err = Document(strings.NewReader(`<div class="article-section-rich-text-extra"><p>x</p></div>`))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	page := `<div class="article-section-rich-text"><p>Causes <b>Fear</b>  in
	enemy units. See <a href="/terror">Terror</a>.</p>
	<p>Second.</p></div>`
	got, ok, err := Document(strings.NewReader(page))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Causes Fear in enemy units. See Terror. Second.", got.Text())

	assert.Equal(t, "", HTML{}.Text())
}

func TestDocumentLeavesNoLinkTargets(t *testing.T) {
	page := `<div class="article-section-rich-text"><p>x <area href="javascript:alert(1)"> ` +
		`<math><a href="javascript:alert(1)">m</a></math> <a href="/rules/fear">Fear</a></p></div>`
	got, ok, err := Document(strings.NewReader(page))
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, got.String(), "href")
	assert.NotContains(t, got.String(), "javascript:")
	assert.NotContains(t, got.String(), "<area")
	assert.Contains(t, got.String(), "Fear")
}
