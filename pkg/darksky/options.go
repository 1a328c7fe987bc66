package darksky

import (
	"fmt"
	"strings"
)

// Language selects the language of the summary properties.
type Language int

const (
	Arabic Language = iota + 1
	Azerbaijani
	Belarusian
	Bulgarian
	Bengali
	Bosnian
	Catalan
	Czech
	Danish
	German
	Greek
	English
	Esperanto
	Spanish
	Estonian
	Finnish
	French
	Hebrew
	Hindi
	Croatian
	Hungarian
	Indonesian
	Icelandic
	Italian
	Japanese
	Georgian
	Kannada
	Korean
	Cornish
	Latvian
	Malayalam
	Marathi
	NorwegianBokmal
	Dutch
	Norwegian
	Punjabi
	Polish
	Portuguese
	Romanian
	Russian
	Slovak
	Slovenian
	Serbian
	Swedish
	Tamil
	Telugu
	Tetum
	Turkish
	Ukrainian
	Urdu
	PigLatin
	ChineseSimplified
	ChineseTraditional
)

var languageCodes = map[Language]string{
	Arabic:             "ar",
	Azerbaijani:        "az",
	Belarusian:         "be",
	Bulgarian:          "bg",
	Bengali:            "bn",
	Bosnian:            "bs",
	Catalan:            "ca",
	Czech:              "cs",
	Danish:             "da",
	German:             "de",
	Greek:              "el",
	English:            "en",
	Esperanto:          "eo",
	Spanish:            "es",
	Estonian:           "et",
	Finnish:            "fi",
	French:             "fr",
	Hebrew:             "he",
	Hindi:              "hi",
	Croatian:           "hr",
	Hungarian:          "hu",
	Indonesian:         "id",
	Icelandic:          "is",
	Italian:            "it",
	Japanese:           "ja",
	Georgian:           "ka",
	Kannada:            "kn",
	Korean:             "ko",
	Cornish:            "kw",
	Latvian:            "lv",
	Malayalam:          "ml",
	Marathi:            "mr",
	NorwegianBokmal:    "nb",
	Dutch:              "nl",
	Norwegian:          "no",
	Punjabi:            "pa",
	Polish:             "pl",
	Portuguese:         "pt",
	Romanian:           "ro",
	Russian:            "ru",
	Slovak:             "sk",
	Slovenian:          "sl",
	Serbian:            "sr",
	Swedish:            "sv",
	Tamil:              "ta",
	Telugu:             "te",
	Tetum:              "tet",
	Turkish:            "tr",
	Ukrainian:          "uk",
	Urdu:               "ur",
	PigLatin:           "x-pig-latin",
	ChineseSimplified:  "zh",
	ChineseTraditional: "zh-tw",
}

// String returns the wire code, e.g. "zh-tw".
func (l Language) String() string {
	return languageCodes[l]
}

func (l Language) valid() bool {
	_, ok := languageCodes[l]
	return ok
}

// ParseLanguage accepts a wire code, case-insensitively. "zh_tw" is accepted for "zh-tw".
func ParseLanguage(s string) (Language, error) {
	code := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for l, c := range languageCodes {
		if c == code {
			return l, nil
		}
	}
	return 0, invalidParameter("language", fmt.Errorf("unsupported language %q", s))
}

// Units selects the unit system of the response.
type Units int

const (
	// UnitsAuto selects units based on the geographic location.
	UnitsAuto Units = iota + 1
	// UnitsCA is SI with wind speed in kilometers per hour.
	UnitsCA
	UnitsSI
	// UnitsUK2 is SI with distances in miles and wind speed in miles per hour.
	UnitsUK2
	UnitsUS
)

var unitCodes = map[Units]string{
	UnitsAuto: "auto",
	UnitsCA:   "ca",
	UnitsSI:   "si",
	UnitsUK2:  "uk2",
	UnitsUS:   "us",
}

func (u Units) String() string {
	return unitCodes[u]
}

func (u Units) valid() bool {
	_, ok := unitCodes[u]
	return ok
}

func ParseUnits(s string) (Units, error) {
	code := strings.ToLower(strings.TrimSpace(s))
	for u, c := range unitCodes {
		if c == code {
			return u, nil
		}
	}
	return 0, invalidParameter("units", fmt.Errorf("unsupported units %q", s))
}

// Block is a section of the response that can be excluded.
type Block int

const (
	BlockCurrently Block = iota + 1
	BlockMinutely
	BlockHourly
	BlockDaily
	BlockAlerts
	BlockFlags
)

var blockNames = map[Block]string{
	BlockCurrently: "currently",
	BlockMinutely:  "minutely",
	BlockHourly:    "hourly",
	BlockDaily:     "daily",
	BlockAlerts:    "alerts",
	BlockFlags:     "flags",
}

func (b Block) String() string {
	return blockNames[b]
}

func (b Block) valid() bool {
	_, ok := blockNames[b]
	return ok
}

func ParseBlock(s string) (Block, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for b, n := range blockNames {
		if n == name {
			return b, nil
		}
	}
	return 0, invalidParameter("exclude", fmt.Errorf("unknown block %q", s))
}

// ParseBlocks parses a comma separated list such as "minutely,hourly".
// Empty elements are skipped.
func ParseBlocks(s string) ([]Block, error) {
	var blocks []Block
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		b, err := ParseBlock(part)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// query parameter names, in the order they are written.
const (
	paramLanguage = "lang"
	paramUnits    = "units"
	paramExclude  = "exclude"
	paramExtend   = "extend"
)
