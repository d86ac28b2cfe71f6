// Package resources embeds the default data files, used when the configuration doesn't
// point to other ones.
package resources

import _ "embed"

// Exceptions is the default segmentation exceptions CSV.
//
//go:embed exceptions.csv
var Exceptions []byte

// Sanskrit is the default YAML table of Sanskrit patterns.
//
//go:embed sanskrit.yaml
var Sanskrit []byte

// Words is the default word list of the dictionary tokenizer.
//
//go:embed words.txt
var Words []byte

// Lexicon is the default pronunciation lexicon.
//
//go:embed lexicon.tsv
var Lexicon []byte
