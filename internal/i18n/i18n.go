// Package i18n holds the UI message catalog and locale-aware formatting.
// Message keys are the English strings; English needs no entries.
package i18n

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var (
	supported = []language.Tag{language.Arabic, language.English}
	matcher   = language.NewMatcher(supported)
	cat       = catalog.NewBuilder(catalog.Fallback(language.English))
)

func init() {
	for k, v := range arabic {
		if err := cat.SetString(language.Arabic, k, v); err != nil {
			panic(err)
		}
	}
}

// Match picks the supported language for an Accept-Language header,
// falling back to def when the header is empty or unparsable.
func Match(acceptLanguage string, def language.Tag) language.Tag {
	if strings.TrimSpace(acceptLanguage) == "" {
		return def
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return def
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return def
	}
	return supported[idx]
}

// Parse parses a BCP 47 tag, returning def on failure.
func Parse(s string, def language.Tag) language.Tag {
	t, err := language.Parse(s)
	if err != nil {
		return def
	}
	return t
}

func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}

func isArabic(tag language.Tag) bool {
	base, _ := tag.Base()
	return base.String() == "ar"
}

// Dir is the text direction for tag: "rtl" or "ltr".
func Dir(tag language.Tag) string {
	if isArabic(tag) {
		return "rtl"
	}
	return "ltr"
}

var arabicDigits = strings.NewReplacer("0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩")

// arabicDateLayout is day/month/year with a right-to-left mark after the
// day and the month, as browsers print ar-SA Gregorian dates.
const arabicDateLayout = "2\u200f/1\u200f/2006"

// FormatDate renders a "2006-01-02" date for tag: numeric with
// Arabic-Indic digits for Arabic ("١٥\u200f/١\u200f/٢٠٢٤"), "January 15, 2024"
// otherwise. Empty or malformed input yields "".
func FormatDate(date string, tag language.Tag) string {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return ""
	}
	return FormatTime(t, tag)
}

func FormatTime(t time.Time, tag language.Tag) string {
	if isArabic(tag) {
		return arabicDigits.Replace(t.Format(arabicDateLayout))
	}
	return t.Format("January 2, 2006")
}
