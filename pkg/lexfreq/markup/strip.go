// Package markup cleans extractor output lines before tokenization.
// It removes single-line markup remnants, reduces ruby annotations to their
// base text, and elides multi-line score blocks via a small state machine.
package markup

import "regexp"

// reMarkup matches single-line markup that is replaced with a space.
// For some tags the enclosed content is deleted as well (e.g. <chem>, <ref>);
// <ins>, <del>, <poem> and <q> keep their content. <score> and <ruby> have
// dedicated handling outside this expression.
var reMarkup = regexp.MustCompile(
	`<br( [^>]+)?>|` + // e.g. <br>, <br style="clear: both">
		`<chem>[^<]*</chem>|` +

		// <ref name="...">...</ref> in its one-line, malformed and
		// split-across-two-lines shapes
		`<ref\b[^>]*/ref>|` +
		`<ref [^>]+>[^<]*</ref>|` +
		`<ref [^>]+>[^<]*$|^[^<]*</ref>|` +

		// Remnants of tables, e.g. '! colspan="5" style=background:;|'
		`^!.*=.*\||` +
		// Common unquoted attribute values:
		`\bhidden=1\b|` +
		// Quoted values, unquoted values up to "|", or single-word values:
		`\b(rowspan|colspan|width|style|bgcolor|align|valign|frame-style|title-style|content-style)\s*=\s*("[^"]*"|.*\||\w+|)|` +

		// Code and formula placeholders, e.g. 'DNAformula_20', 'codice_1'
		`(codice|formula)_[0-9]+|` +

		`</?(ins|del|math|onlyinclude)>|<onlyinclude/>|` +

		// e.g. <poem style="...">, <q cite="...">, <section begin="..." />
		`<(poem|q|section)( [^>]+)?>|</(poem|q)>|` +

		// Disambiguation/redirection metadata blocks:
		`<ns>.*?</ns>|` +
		`<parentid>.*?</parentid>|` +
		`<revision>|` +
		`<timestamp>.*?</timestamp>|` +
		`</?contributor>|` +
		`<username>.*?</username>|` +
		`<minor />|` +
		`<comment>.*?</comment>|` +
		`<model>.*?</model>|` +
		`<format>.*?</format>`)

// Within <ruby>: keep untagged content or content tagged <rb> (the base
// text). Drop content in <rp> (ruby parentheses) and <rt> (the reading).
var (
	reRuby    = regexp.MustCompile(`<ruby( [^>]+)?>(?P<content>.*?)</ruby>`)
	reRubyDel = regexp.MustCompile(`<rp>[^<]*</rp>|<rt( [^>]+)?>[^<]*</rt>|</?rb>`)
)

var rubyContentIndex = reRuby.SubexpIndex("content")

// Strip removes recognized markup from a single line. Markup is replaced
// with a space to avoid fusing adjacent words; ruby annotations are reduced
// to their base text. Purely line-local.
func Strip(line string) string {
	line = reMarkup.ReplaceAllString(line, " ")
	return reRuby.ReplaceAllStringFunc(line, func(m string) string {
		sub := reRuby.FindStringSubmatch(m)
		return reRubyDel.ReplaceAllString(sub[rubyContentIndex], "")
	})
}
