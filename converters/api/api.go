// Package api defines the phonemic converter API: one orthographic unit in, one phonetic
// string out, for a given romanization schema.
package api

// UnknownMarker is the reserved output for units that can't be converted.
const UnknownMarker = "(?)"

// Options configures a schema. The fields mirror the options of the conversion engines
// the schemas were designed for; converters ignore the ones they don't implement.
type Options struct {
	// UnknownSyllableMarker renders each unknown syllable as UnknownMarker instead of
	// marking the whole unit unknown.
	UnknownSyllableMarker bool `yaml:"unknownSyllableMarker"`
	// WeakAspirationChar is appended to weakly aspirated consonants.
	WeakAspirationChar string `yaml:"weakAspirationChar"`
	// AspirateLowTones aspirates low-tone stops.
	AspirateLowTones bool `yaml:"aspirateLowTones"`
	// PrefixStrategy tells when prefixes change the pronunciation: "always" or "" (never).
	PrefixStrategy string `yaml:"prefixStrategy"`
	// VowelLengthMarker is appended to vowels lengthened by the "ai" affix.
	VowelLengthMarker string `yaml:"aiAffixChar"`
	// NasalChar marks nasalized vowels, empty to suppress it.
	NasalChar string `yaml:"nasalChar"`
	// StopMode selects how final stops are rendered ("eow": only at end of word).
	StopMode string `yaml:"stopSDMode"`
	// EatP and EatK drop final -p and -k.
	EatP bool `yaml:"eatP"`
	EatK bool `yaml:"eatK"`
	// UseUnreleasedStops renders final stops as unreleased.
	UseUnreleasedStops bool `yaml:"useUnreleasedStops"`
	// SyllableSeparator is inserted between the syllables of a unit.
	SyllableSeparator string `yaml:"syllableSepChar"`
}

// Schema is a named romanization with its options.
type Schema struct {
	Name    string  `yaml:"name"`
	Options Options `yaml:"options"`
}

// SchemaKVP is the broad, permissive romanization.
var SchemaKVP = Schema{
	Name:    "kvp",
	Options: Options{UnknownSyllableMarker: true},
}

// SchemaFastidious is the narrow phonetic romanization.
var SchemaFastidious = Schema{
	Name: "ipa",
	Options: Options{
		WeakAspirationChar: "3",
		AspirateLowTones:   true,
		PrefixStrategy:     "always",
		VowelLengthMarker:  "ː",
		NasalChar:          "",
		StopMode:           "eow",
		EatP:               false,
		UseUnreleasedStops: true,
		EatK:               false,
		SyllableSeparator:  "",
	},
}

// Converter renders one unit (a word or part of a word) into its phonetic form.
//
// Convert must be total: a unit it can't render yields UnknownMarker, never an error.
// Implementations must be safe for concurrent use.
type Converter interface {
	Convert(unit string, schema Schema) string
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(unit string, schema Schema) string

// Convert implements Converter.
func (f ConverterFunc) Convert(unit string, schema Schema) string {
	return f(unit, schema)
}
