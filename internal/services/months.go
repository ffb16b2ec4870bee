package services

import (
	"time"

	"golang.org/x/text/language"
)

var monthNames = map[language.Tag][12]string{
	language.English: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	language.Portuguese: {
		"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
	},
}

var supportedLocales = []language.Tag{language.English, language.Portuguese}

var localeMatcher = language.NewMatcher(supportedLocales)

// MatchLocale picks the closest supported locale for tag, falling back to
// English.
func MatchLocale(tag language.Tag) language.Tag {
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return supportedLocales[idx]
}

// ParseLocale parses a BCP 47 string such as "pt-BR" and matches it.
func ParseLocale(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English, err
	}
	return MatchLocale(tag), nil
}

// MonthName returns the localized name of m.
func MonthName(m time.Month, tag language.Tag) string {
	return monthNames[MatchLocale(tag)][m-1]
}
