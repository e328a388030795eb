package main

import "errors"

// ErrChecksFailed occurs when at least one conformance check has failed.
var ErrChecksFailed = errors.New("conformance checks failed")
