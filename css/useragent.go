package css

import (
	"sync"
)

// UserAgentStylesheet holds the default styles every document starts from.
// It only covers what computed style and box queries read: display types,
// font sizing and spacing of the common flow elements.
const UserAgentStylesheet = `
head, script, style, template, title, meta, link, base, noscript {
	display: none;
}

[hidden] {
	display: none;
}

html, body, div, article, aside, footer, header, nav, section, main,
figure, figcaption, blockquote, pre, address, form, fieldset, hgroup,
p, h1, h2, h3, h4, h5, h6, ul, ol, dl, dt, dd, hr, details, summary {
	display: block;
}

body {
	margin: 8px;
}

h1 { font-size: 2em; font-weight: bold; margin: 0.67em 0; }
h2 { font-size: 1.5em; font-weight: bold; margin: 0.83em 0; }
h3 { font-size: 1.17em; font-weight: bold; margin: 1em 0; }
h4 { font-weight: bold; margin: 1.33em 0; }
h5 { font-size: 0.83em; font-weight: bold; margin: 1.67em 0; }
h6 { font-size: 0.67em; font-weight: bold; margin: 2.33em 0; }

p, dl, blockquote, pre, ul, ol {
	margin-top: 1em;
	margin-bottom: 1em;
}

ul, ol {
	padding-left: 40px;
}

li {
	display: list-item;
}

dd, blockquote {
	margin-left: 40px;
}

pre, code, kbd, samp, tt {
	font-family: monospace;
}

pre {
	white-space: pre;
}

strong, b {
	font-weight: bold;
}

em, i, cite, var, dfn {
	font-style: italic;
}

small, sub, sup {
	font-size: smaller;
}

table { display: table; }
caption { display: table-caption; }
thead { display: table-header-group; }
tbody { display: table-row-group; }
tfoot { display: table-footer-group; }
tr { display: table-row; }
td, th { display: table-cell; }
th { font-weight: bold; }
`

var (
	uaOnce  sync.Once
	uaRules []rule
)

// userAgentRules parses UserAgentStylesheet once.
func userAgentRules() []rule {
	uaOnce.Do(func() {
		sheet, err := parseSheet(UserAgentStylesheet)
		if err != nil {
			// The sheet is a constant; a parse failure is a programming error.
			panic(err)
		}
		uaRules = sheet
	})
	return uaRules
}
