package domain

import "errors"

// Error taxonomy shared by adapters and the pipeline. Adapters wrap these
// with context; callers match them with errors.Is.
var (
	ErrInput             = errors.New("invalid input")
	ErrNotFound          = errors.New("article not found")
	ErrModelLoad         = errors.New("model load failed")
	ErrInference         = errors.New("inference failed")
	ErrInvalidPrediction = errors.New("invalid prediction")
	ErrStore             = errors.New("store error")
)
