// Package tokens estimates prompt sizes with the tiktoken BPE tables.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// Estimator counts tokens for a model. Encodings are loaded lazily and a
// failed load disables estimation instead of failing requests.
type Estimator struct {
	model string

	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

// NewEstimator returns an estimator for the given model name.
func NewEstimator(model string) *Estimator {
	return &Estimator{model: model}
}

// Count returns the token count of text, or false when no encoding is available.
func (e *Estimator) Count(text string) (int, bool) {
	if e == nil {
		return 0, false
	}
	e.once.Do(e.load)
	if e.err != nil || e.enc == nil {
		return 0, false
	}
	return len(e.enc.Encode(text, nil, nil)), true
}

func (e *Estimator) load() {
	e.enc, e.err = tiktoken.EncodingForModel(e.model)
	if e.err != nil {
		e.enc, e.err = tiktoken.GetEncoding(fallbackEncoding)
	}
}
