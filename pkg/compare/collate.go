package compare

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collated returns a Comparator that orders strings by the collation rules of the given
// language and otherwise behaves like Compare. The returned Comparator is not safe for
// concurrent use.
func Collated(tag language.Tag, opts ...collate.Option) Comparator {
	c := collate.New(tag, opts...)
	return func(a, b any) int {
		return compareWith(a, b, c.CompareString)
	}
}

// ParseLocale returns a collating Comparator for a BCP 47 language tag. The empty string and
// "C" select the byte-wise Compare.
func ParseLocale(locale string) (Comparator, error) {
	if locale == "" || locale == "C" {
		return Compare, nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, err
	}
	return Collated(tag), nil
}
