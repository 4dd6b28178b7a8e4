package contentfilter

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultWords is the built-in banned word list.
var DefaultWords = []string{
	"тест",
}

// Letters outside these ranges count as noise between the letters of a banned word.
const separatorClass = `[^a-zа-яіїєґ]*`

// punctuation removed from a token before the "clean" comparison
const stripChars = ".,!?*@#$%^&()_+-=[]{};':\"\\|<>/"

// symbols commonly typed in place of letters
const leetChars = "*@$#"

// look-alike characters mapped onto the Cyrillic letters they imitate
var homoglyphs = map[rune]rune{
	'0': 'о',
	'1': 'і',
	'3': 'е',
	'a': 'а',
	'c': 'с',
	'e': 'е',
	'i': 'і',
	'o': 'о',
	'p': 'р',
	'x': 'х',
	'y': 'у',
}

type bannedWord struct {
	word  string
	fuzzy *regexp.Regexp
	exact *regexp.Regexp
}

// Filter detects and masks banned words. It holds no mutable state and is
// safe for concurrent use.
type Filter struct {
	words []bannedWord
}

// New builds a filter over the given words. Blank entries are ignored.
func New(words []string) *Filter {
	f := &Filter{}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		f.words = append(f.words, bannedWord{
			word:  w,
			fuzzy: fuzzyPattern(w),
			exact: regexp.MustCompile("(?i)" + regexp.QuoteMeta(w)),
		})
	}
	return f
}

// Default returns a filter over DefaultWords.
func Default() *Filter {
	return New(DefaultWords)
}

// Words returns the normalized banned words in list order.
func (f *Filter) Words() []string {
	out := make([]string, 0, len(f.words))
	for _, bw := range f.words {
		out = append(out, bw.word)
	}
	return out
}

// fuzzyPattern matches the letters of word in order, each optionally
// followed by any run of non-letter characters.
func fuzzyPattern(word string) *regexp.Regexp {
	letters := make([]string, 0, utf8.RuneCountInString(word))
	for _, r := range word {
		letters = append(letters, regexp.QuoteMeta(string(r)))
	}
	return regexp.MustCompile("(?i)" + strings.Join(letters, separatorClass))
}

// IsForbidden reports whether any whitespace-separated token of text
// contains a banned word under the exact, cleaned, substring, substitution
// or fuzzy rules.
func (f *Filter) IsForbidden(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return false
	}

	for _, token := range strings.Fields(normalized) {
		clean := removeChars(token, stripChars)
		leet := removeChars(clean, leetChars)
		lookalike := replaceHomoglyphs(removeChars(token, "-_."))

		for _, bw := range f.words {
			switch {
			case token == bw.word:
				return true
			case clean == bw.word:
				return true
			case strings.Contains(token, bw.word):
				return true
			case leet == bw.word:
				return true
			case lookalike == bw.word, strings.Contains(lookalike, bw.word):
				return true
			case bw.fuzzy.MatchString(token):
				return true
			}
		}
	}
	return false
}

// Mask lowercases text and replaces every fuzzy or exact occurrence of a
// banned word with asterisks of the same length.
func (f *Filter) Mask(text string) string {
	if text == "" {
		return ""
	}

	masked := strings.ToLower(text)
	for _, bw := range f.words {
		masked = bw.fuzzy.ReplaceAllStringFunc(masked, stars)
		masked = bw.exact.ReplaceAllStringFunc(masked, stars)
	}
	return masked
}

func stars(match string) string {
	return strings.Repeat("*", utf8.RuneCountInString(match))
}

func removeChars(s, chars string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, s)
}

func replaceHomoglyphs(s string) string {
	return strings.Map(func(r rune) rune {
		if sub, ok := homoglyphs[r]; ok {
			return sub
		}
		return r
	}, s)
}
