package services

import (
	"crypto/subtle"
	"errors"
)

// Pipeline authenticates the scoring pipeline, the only caller allowed to
// deposit scores.
type Pipeline struct {
	apiKey string
}

func NewPipeline(apiKey string) (*Pipeline, error) {
	if apiKey == "" {
		return nil, errors.New("missing pipeline api key")
	}
	return &Pipeline{apiKey}, nil
}

func (pipeline *Pipeline) ValidateAPIKey(key string) bool {
	return subtle.ConstantTimeCompare([]byte(pipeline.apiKey), []byte(key)) == 1
}
