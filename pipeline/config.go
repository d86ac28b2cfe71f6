package pipeline

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/gomlx/go-tibphon/converters/api"
	"github.com/gomlx/go-tibphon/internal/fetch"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config lists the resources of a Pipeline. Resources can be local paths or http(s) URLs,
// downloaded once into CacheDir. Empty resources use the embedded defaults.
type Config struct {
	// Exceptions is the segmentation exceptions CSV. If it can't be loaded, segmentation
	// runs without exceptions.
	Exceptions string `yaml:"exceptions"`
	// Sanskrit is the YAML table of Sanskrit patterns.
	Sanskrit string `yaml:"sanskrit"`

	// The tokenizer is the first one configured of SentencePieceModel, TokenizerJSON
	// (the vocabulary of a HuggingFace tokenizer.json) and Words (a word list).
	SentencePieceModel string `yaml:"sentencePieceModel"`
	TokenizerJSON      string `yaml:"tokenizerJSON"`
	Words              string `yaml:"words"`

	// Lexicon is the pronunciation lexicon of the converter.
	Lexicon string `yaml:"lexicon"`
	// Schemas overrides the two output schemas, KVP and fastidious by default.
	Schemas []api.Schema `yaml:"schemas"`

	// MergePlaceholdersAcrossPunctuation merges unknown markers separated by punctuation.
	MergePlaceholdersAcrossPunctuation bool `yaml:"mergePlaceholdersAcrossPunctuation"`

	// CacheDir holds downloaded resources, fetch.DefaultCacheDir() if empty.
	CacheDir string `yaml:"cacheDir"`
}

// LoadConfig reads a YAML configuration. Relative resource paths are taken relative to the
// directory of the configuration file.
func LoadConfig(filePath string) (Config, error) {
	var cfg Config
	content, err := os.ReadFile(filePath)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read configuration %q", filePath)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse configuration %q", filePath)
	}
	if len(cfg.Schemas) != 0 && len(cfg.Schemas) != 2 {
		return cfg, errors.Errorf("configuration %q: schemas needs exactly 2 entries, got %d", filePath, len(cfg.Schemas))
	}
	dir := filepath.Dir(filePath)
	for _, resource := range []*string{&cfg.Exceptions, &cfg.Sanskrit, &cfg.SentencePieceModel, &cfg.TokenizerJSON, &cfg.Words, &cfg.Lexicon, &cfg.CacheDir} {
		if *resource != "" && !fetch.IsURL(*resource) && !filepath.IsAbs(*resource) {
			*resource = filepath.Join(dir, *resource)
		}
	}
	return cfg, nil
}
