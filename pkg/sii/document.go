package sii

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

// Document is an SII text document. Create instances with [NewDocument].
type Document struct {
	content string
}

func NewDocument(content string) *Document {
	return &Document{content: content}
}

// Content returns the current document text.
func (d *Document) Content() string {
	return d.content
}

// Get returns the value of the first line assigning the named property.
func (d *Document) Get(name string) (string, bool) {
	m := getPattern(name).FindStringSubmatch(d.content)
	if m == nil {
		return "", false
	}

	return m[1], true
}

// Count returns the number of lines assigning the named property.
func (d *Document) Count(name string) int {
	return len(getPattern(name).FindAllStringIndex(d.content, -1))
}

// Set replaces the value on every line assigning the named property,
// preserving indentation and trailing whitespace. It reports whether any line
// matched; the document is unchanged otherwise.
func (d *Document) Set(name, value string) bool {
	re := setPattern(name)
	if !re.MatchString(d.content) {
		return false
	}

	repl := "${1}" + strings.ReplaceAll(value, "$", "$$") + "${2}"
	d.content = re.ReplaceAllString(d.content, repl)

	return true
}

// SetInt is [Document.Set] with a decimal value.
func (d *Document) SetInt(name string, value int64) bool {
	return d.Set(name, strconv.FormatInt(value, 10))
}

// PropertyName normalizes user input such as "moneyAccount" or
// "Money-Account" to the snake case used by SII ("money_account").
func PropertyName(s string) string {
	return strcase.ToSnake(strings.TrimSpace(s))
}

// valuePattern matches a non-empty value that stays on one line and starts with a
// non-blank character.
const valuePattern = `[^ \t\r\n][^\r\n]*?`

func getPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(name) + `[ \t]*:[ \t]*(` + valuePattern + `)[ \t\r]*$`)
}

func setPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^([ \t]*` + regexp.QuoteMeta(name) + `[ \t]*:[ \t]*)` + valuePattern + `([ \t\r]*)$`)
}
