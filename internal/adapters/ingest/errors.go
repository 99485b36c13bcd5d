package ingest

import "errors"

// Sentinel kinds for dataset loading errors. A missing source and a
// malformed one surface differently to the end user.
var (
	ErrSourceNotFound   = errors.New("dataset source not found")
	ErrMalformedDataset = errors.New("malformed dataset")
)
