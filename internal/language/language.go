package language

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// bibliographic maps ISO 639-2/B codes to ISO 639-2/T.
var bibliographic = map[string]string{
	"alb": "sqi", "arm": "hye", "baq": "eus", "bur": "mya", "chi": "zho",
	"cze": "ces", "dut": "nld", "fre": "fra", "geo": "kat", "ger": "deu",
	"gre": "ell", "ice": "isl", "mac": "mkd", "mao": "mri", "may": "msa",
	"per": "fas", "rum": "ron", "slo": "slk", "tib": "bod", "wel": "cym",
}

var (
	namesOnce sync.Once
	byName    map[string]xlanguage.Base
)

// englishNames indexes every two-letter language by its lowercased English name.
func englishNames() map[string]xlanguage.Base {
	namesOnce.Do(func() {
		byName = make(map[string]xlanguage.Base, 200)
		namer := display.English.Languages()
		for a := 'a'; a <= 'z'; a++ {
			for b := 'a'; b <= 'z'; b++ {
				base, err := xlanguage.ParseBase(string([]rune{a, b}))
				if err != nil {
					continue
				}
				if name := namer.Name(base); name != "" {
					byName[strings.ToLower(name)] = base
				}
			}
		}
	})
	return byName
}

// Parse resolves a language code or English language name.
func Parse(code string) (xlanguage.Base, bool) {
	code = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(code, "\u0000", "")))
	if code == "" {
		return xlanguage.Base{}, false
	}
	// language_ietf tags such as "en-US" carry the base language first.
	if idx := strings.IndexAny(code, "-_"); idx > 0 {
		code = code[:idx]
	}
	if mapped, ok := bibliographic[code]; ok {
		code = mapped
	}
	if len(code) == 2 || len(code) == 3 {
		if base, err := xlanguage.ParseBase(code); err == nil && base.String() != "und" {
			return base, true
		}
	}
	base, ok := englishNames()[code]
	return base, ok
}

// ToISO2 converts any recognized language code or word to ISO 639-1 (2-letter).
// Returns empty string for unrecognized input or languages without a
// two-letter code. Unknown 2-letter input passes through.
func ToISO2(code string) string {
	trimmed := strings.ToLower(strings.TrimSpace(code))
	if base, ok := Parse(trimmed); ok {
		if short := base.String(); len(short) == 2 {
			return short
		}
		return ""
	}
	if len(trimmed) == 2 {
		return trimmed
	}
	return ""
}

// ToISO3 converts any recognized language code to ISO 639-2/T (3-letter).
// Returns "und" for unrecognized input other than 3-letter codes, which pass through.
func ToISO3(code string) string {
	trimmed := strings.ToLower(strings.TrimSpace(code))
	if base, ok := Parse(trimmed); ok {
		return base.ISO3()
	}
	if len(trimmed) == 3 {
		return trimmed
	}
	return "und"
}

// DisplayName returns the English language name for any recognized code.
// Returns "Unknown" for empty or undetermined input, or the uppercased code
// for unrecognized input.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" || strings.EqualFold(trimmed, "und") {
		return "Unknown"
	}
	if base, ok := Parse(trimmed); ok {
		if name := display.English.Languages().Name(base); name != "" {
			return name
		}
	}
	return strings.ToUpper(trimmed)
}

// ExtractFromTags extracts and normalizes the language from stream metadata tags.
// Checks common tag keys: language, LANGUAGE, Language, language_ietf, lang, LANG.
func ExtractFromTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	keys := []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"}
	for _, key := range keys {
		if value, ok := tags[key]; ok {
			value = strings.TrimSpace(strings.ReplaceAll(value, "\u0000", ""))
			if value != "" {
				return strings.ToLower(value)
			}
		}
	}
	return ""
}

var titleCaser = cases.Title(xlanguage.English)

// Title title-cases a label such as a stream type for table headers.
func Title(value string) string {
	return titleCaser.String(strings.TrimSpace(value))
}
