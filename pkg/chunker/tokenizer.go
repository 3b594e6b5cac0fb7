package chunker

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

const defaultEncoding = "cl100k_base"

var offlineOnce sync.Once

// useOfflineBPE serves encodings from the vocabularies embedded in the binary instead of
// downloading them on first use.
func useOfflineBPE() {
	offlineOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
}

// Tokenizer converts text to model tokens and back.
// Decode of a concatenation of token slices must equal the concatenation of their decodes.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken loads a BPE encoding by name, e.g. "cl100k_base" or "r50k_base".
func NewTiktoken(encoding string) (Tokenizer, error) {
	useOfflineBPE()

	if encoding == "" {
		encoding = defaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %s: %w", encoding, err)
	}
	return &tiktokenTokenizer{enc: enc}, nil
}

// TokenizerForModel picks the encoding used by model, falling back to cl100k_base.
func TokenizerForModel(model string) (Tokenizer, error) {
	useOfflineBPE()

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return NewTiktoken(defaultEncoding)
	}
	return &tiktokenTokenizer{enc: enc}, nil
}

// TokenizerFor uses encoding when it is set and otherwise the encoding of model.
func TokenizerFor(encoding, model string) (Tokenizer, error) {
	if encoding != "" {
		return NewTiktoken(encoding)
	}
	return TokenizerForModel(model)
}

// Encode allows special tokens so scraped text containing "<|endoftext|>" is encoded, not rejected.
func (t *tiktokenTokenizer) Encode(text string) []int {
	return t.enc.Encode(text, []string{"all"}, nil)
}

func (t *tiktokenTokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}
