// Package pipeline ties together normalization, segmentation and phonetic composition into
// the operations exposed by the command line and the HTTP server.
//
// A Pipeline is built once, loading every table, and is then immutable and safe for
// concurrent use.
package pipeline

import (
	"bytes"
	"context"
	"os"

	"github.com/gomlx/go-tibphon/compose"
	"github.com/gomlx/go-tibphon/converters/api"
	"github.com/gomlx/go-tibphon/converters/lexicon"
	"github.com/gomlx/go-tibphon/internal/fetch"
	"github.com/gomlx/go-tibphon/normalize"
	"github.com/gomlx/go-tibphon/resources"
	"github.com/gomlx/go-tibphon/sanskrit"
	"github.com/gomlx/go-tibphon/segment"
	tokapi "github.com/gomlx/go-tibphon/tokenizers/api"
	"github.com/gomlx/go-tibphon/tokenizers/dictionary"
	"github.com/gomlx/go-tibphon/tokenizers/sentencepiece"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Pipeline converts raw Tibetan text into segmented text and its phonetics.
type Pipeline struct {
	normalizer normalize.Normalizer
	engine     *segment.Engine
	composer   *compose.Composer
}

// Request holds the per-call choices.
type Request struct {
	Strategy     segment.Strategy
	SanskritMode sanskrit.Mode
	Anusvara     sanskrit.Anusvara
}

// ParseRequest builds a Request from the names used by the command line and the HTTP API.
func ParseRequest(strategy, sanskritMode, anusvara string) (Request, error) {
	var req Request
	var err error
	if req.Strategy, err = segment.ParseStrategy(strategy); err != nil {
		return req, err
	}
	if req.SanskritMode, err = sanskrit.ParseMode(sanskritMode); err != nil {
		return req, err
	}
	if req.Anusvara, err = sanskrit.ParseAnusvara(anusvara); err != nil {
		return req, err
	}
	return req, nil
}

// Output of a call. KVP and IPA are line-aligned with Segmented.
type Output struct {
	Segmented string `json:"segmented"`
	KVP       string `json:"kvp"`
	IPA       string `json:"ipa"`
	// Degraded lists the chunks the tokenizer failed on, passed through unsegmented.
	Degraded []segment.Degradation `json:"-"`
}

// New loads the resources listed in cfg and builds a Pipeline. It fails if a configured
// tokenizer, lexicon or Sanskrit table can't be loaded.
func New(ctx context.Context, cfg Config) (*Pipeline, error) {
	p := &Pipeline{}
	tokenizer, err := loadTokenizer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	p.engine = segment.New(loadExceptions(ctx, cfg), tokenizer)

	table, err := loadSanskrit(ctx, cfg, p.normalizer)
	if err != nil {
		return nil, err
	}
	converter, err := loadLexicon(ctx, cfg)
	if err != nil {
		return nil, err
	}
	p.composer = compose.New(table, converter)
	switch len(cfg.Schemas) {
	case 0:
	case 2:
		p.composer.Schemas = [2]api.Schema{cfg.Schemas[0], cfg.Schemas[1]}
	default:
		return nil, errors.Errorf("configuration needs exactly 2 schemas, got %d", len(cfg.Schemas))
	}
	p.composer.Cleanup.MergeAcrossPunctuation = cfg.MergePlaceholdersAcrossPunctuation
	return p, nil
}

// Process normalizes text, segments it and renders the phonetics.
func (p *Pipeline) Process(text string, req Request) Output {
	res := p.engine.Segment(p.normalizer.String(text), req.Strategy)
	out := p.render(res.Text, req)
	out.Degraded = res.Degraded
	return out
}

// Phoneticize renders the phonetics of text that is already segmented. The text is only
// normalized.
func (p *Pipeline) Phoneticize(segmented string, req Request) Output {
	return p.render(p.normalizer.String(segmented), req)
}

func (p *Pipeline) render(segmented string, req Request) Output {
	result := p.composer.Compose(segmented, sanskrit.Options{Mode: req.SanskritMode, Anusvara: req.Anusvara})
	return Output{Segmented: segmented, KVP: result.KVP, IPA: result.IPA}
}

func loadTokenizer(ctx context.Context, cfg Config) (tokapi.Tokenizer, error) {
	var resource string
	switch {
	case cfg.SentencePieceModel != "":
		resource = cfg.SentencePieceModel
	case cfg.TokenizerJSON != "":
		resource = cfg.TokenizerJSON
	case cfg.Words != "":
		resource = cfg.Words
	default:
		tokenizer, err := dictionary.NewFromReader(bytes.NewReader(resources.Words))
		if err != nil {
			return nil, errors.WithMessage(err, "default word list")
		}
		return tokenizer, nil
	}
	path, err := fetch.Local(ctx, resource, cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	switch resource {
	case cfg.SentencePieceModel:
		tokenizer, err := sentencepiece.New(path)
		if err != nil {
			return nil, err
		}
		return tokenizer, nil
	case cfg.TokenizerJSON:
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %q", path)
		}
		tokenizer, err := dictionary.NewFromTokenizerJSON(content)
		if err != nil {
			return nil, errors.WithMessagef(err, "in %q", path)
		}
		return tokenizer, nil
	default:
		tokenizer, err := dictionary.NewFromFile(path)
		if err != nil {
			return nil, err
		}
		return tokenizer, nil
	}
}

// loadExceptions never fails: without exceptions, segmentation still works.
func loadExceptions(ctx context.Context, cfg Config) *segment.ExceptionTable {
	if cfg.Exceptions == "" {
		table, err := segment.ParseExceptionTable(bytes.NewReader(resources.Exceptions))
		if err != nil {
			klog.Warningf("Could not parse the default segmentation exceptions: %v", err)
			return segment.NewExceptionTable(nil)
		}
		return table
	}
	path, err := fetch.Local(ctx, cfg.Exceptions, cfg.CacheDir)
	if err != nil {
		klog.Warningf("Could not fetch segmentation exceptions: %v", err)
		return segment.NewExceptionTable(nil)
	}
	return segment.LoadExceptionTable(path)
}

func loadSanskrit(ctx context.Context, cfg Config, normalizer sanskrit.Normalizer) (*sanskrit.Table, error) {
	if cfg.Sanskrit == "" {
		return sanskrit.ParseTable(resources.Sanskrit, normalizer)
	}
	path, err := fetch.Local(ctx, cfg.Sanskrit, cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	return sanskrit.LoadTable(path, normalizer)
}

func loadLexicon(ctx context.Context, cfg Config) (*lexicon.Converter, error) {
	if cfg.Lexicon == "" {
		return lexicon.NewFromContent(resources.Lexicon)
	}
	path, err := fetch.Local(ctx, cfg.Lexicon, cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	return lexicon.NewFromFile(path)
}
