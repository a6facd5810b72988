package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, html string) *ParsedPage {
	t.Helper()
	page, err := Parse(html)
	require.NoError(t, err)
	return page
}

func TestTitle(t *testing.T) {
	page := mustParse(t, `<html><head><title>  Pricing — Acme  </title></head><body></body></html>`)
	assert.Equal(t, "Pricing — Acme", page.Title())

	empty := mustParse(t, `<html><head></head><body></body></html>`)
	assert.Equal(t, "", empty.Title())
}

func TestHeadingLevelsInDocumentOrder(t *testing.T) {
	page := mustParse(t, `<body><h1>a</h1><h3>b</h3><h2>c</h2><h2>d</h2></body>`)
	assert.Equal(t, []int{1, 3, 2, 2}, page.HeadingLevels())
}

func TestImagesAndAnchors(t *testing.T) {
	page := mustParse(t, `<body>
		<img src="/a.png" alt="A chart of revenue">
		<img src="/b.png">
		<a href="/docs"> Docs </a>
		<a>no href</a>
	</body>`)

	imgs := page.Images()
	require.Len(t, imgs, 2)
	assert.Equal(t, "A chart of revenue", imgs[0].Alt)
	assert.Equal(t, "", imgs[1].Alt)

	anchors := page.Anchors()
	require.Len(t, anchors, 2)
	assert.Equal(t, "/docs", anchors[0].Href)
	assert.Equal(t, "Docs", anchors[0].Text)
	assert.Equal(t, "", anchors[1].Href)
}

func TestHasViewportMeta(t *testing.T) {
	with := mustParse(t, `<head><meta name="viewport" content="width=device-width"></head>`)
	assert.True(t, with.HasViewportMeta())

	without := mustParse(t, `<head><meta name="description" content="x"></head>`)
	assert.False(t, without.HasViewportMeta())
}

func TestUnlabeledFormControl(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{
			name: "label for association",
			html: `<form><label for="email">Email</label><input id="email"></form>`,
			want: false,
		},
		{
			name: "ancestor label wrapper",
			html: `<form><label>Email <input type="text"></label></form>`,
			want: false,
		},
		{
			name: "no label at all",
			html: `<form><input id="q" type="text"></form>`,
			want: true,
		},
		{
			name: "label for different control",
			html: `<form><label for="other">X</label><input id="q"></form>`,
			want: true,
		},
		{
			name: "no forms",
			html: `<body><input id="loose"></body>`,
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := mustParse(t, tt.html)
			_, found := page.UnlabeledFormControl()
			assert.Equal(t, tt.want, found)
		})
	}
}

func TestHasFeedbackHooks(t *testing.T) {
	alert := mustParse(t, `<body><div role="alert">saved</div></body>`)
	assert.True(t, alert.HasFeedbackHooks())

	live := mustParse(t, `<body><div aria-live="polite"></div></body>`)
	assert.True(t, live.HasFeedbackHooks())

	none := mustParse(t, `<body><div>plain</div></body>`)
	assert.False(t, none.HasFeedbackHooks())
}

func TestNavLinkTexts(t *testing.T) {
	page := mustParse(t, `<body><nav>
		<a href="/">Home</a><a href="/about">About</a><a href="/contact">Contact</a>
	</nav><a href="/outside">Outside</a></body>`)

	assert.Equal(t, []string{"Home", "About", "Contact"}, page.NavLinkTexts(10))
	assert.Equal(t, []string{"Home", "About"}, page.NavLinkTexts(2))

	empty := mustParse(t, `<body><a href="/x">X</a></body>`)
	assert.Empty(t, empty.NavLinkTexts(10))
}

func TestContentPreviewPrefersMain(t *testing.T) {
	html := `<body><nav><a href="/">Home</a></nav>
		<main><h1>Quarterly update</h1><p>Revenue grew.</p></main>
		<footer>legal</footer></body>`

	preview, err := ContentPreview(html, 600)
	require.NoError(t, err)
	assert.Contains(t, preview, "Quarterly update")
	assert.Contains(t, preview, "Revenue grew.")
	assert.NotContains(t, preview, "Home")
	assert.NotContains(t, preview, "legal")
}

func TestContentPreviewTruncates(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abcde…", truncate("abcdefgh", 5))
}
