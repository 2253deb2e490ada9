// Package aitokens estimates how many model tokens a piece of text costs.
package aitokens

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultModel selects the encoding used when no model is configured.
const DefaultModel = "gpt-4o"

var (
	tokenizerCache   = make(map[string]*tiktoken.Tiktoken)
	tokenizerCacheMu sync.RWMutex
)

// GetTokenizer returns a cached tiktoken encoder for the given model
func GetTokenizer(model string) (*tiktoken.Tiktoken, error) {
	if model == "" {
		model = DefaultModel
	}
	tokenizerCacheMu.RLock()
	if tkm, ok := tokenizerCache[model]; ok {
		tokenizerCacheMu.RUnlock()
		return tkm, nil
	}
	tokenizerCacheMu.RUnlock()

	tokenizerCacheMu.Lock()
	defer tokenizerCacheMu.Unlock()

	// Double-check after acquiring write lock
	if tkm, ok := tokenizerCache[model]; ok {
		return tkm, nil
	}

	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Fall back to cl100k_base for unknown models (GPT-4 family)
		tkm, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}

	tokenizerCache[model] = tkm
	return tkm, nil
}

// EstimateText counts the tokens of text under model's encoding.
func EstimateText(text, model string) (int, error) {
	tkm, err := GetTokenizer(model)
	if err != nil {
		return 0, err
	}
	return len(tkm.Encode(text, nil, nil)), nil
}

// ApproxTokens is the chars/4 heuristic used when no encoding is available.
func ApproxTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4
}

// Estimator returns a counting function bound to model. When the encoding
// cannot be loaded the heuristic is used instead.
func Estimator(model string) func(string) int {
	return func(text string) int {
		if n, err := EstimateText(text, model); err == nil {
			return n
		}
		return ApproxTokens(text)
	}
}
