package domain

import "path"

// Filter decides whether a file identifier participates in the watched set
// of a bundle. A file is accepted when it matches at least one include
// pattern (or the include list is empty) and matches no exclude pattern.
// Exclude always wins over include.
type Filter struct {
	include []string
	exclude []string
}

// NewFilter builds a Filter from include/exclude glob patterns.
func NewFilter(include, exclude []string) Filter {
	return Filter{include: include, exclude: exclude}
}

// Accept reports whether the file identifier passes the filter.
func (f Filter) Accept(fileID string) bool {
	for _, pattern := range f.exclude {
		if matchPattern(pattern, fileID) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, pattern := range f.include {
		if matchPattern(pattern, fileID) {
			return true
		}
	}
	return false
}

// matchPattern matches a glob pattern against a slash-separated file
// identifier. A pattern without a separator is matched against the base
// name, so "*.css" excludes CSS files anywhere in the tree.
func matchPattern(pattern, fileID string) bool {
	if ok, err := path.Match(pattern, fileID); err == nil && ok {
		return true
	}
	if !containsSeparator(pattern) {
		if ok, err := path.Match(pattern, path.Base(fileID)); err == nil && ok {
			return true
		}
	}
	return false
}

func containsSeparator(pattern string) bool {
	for i := range len(pattern) {
		if pattern[i] == '/' {
			return true
		}
	}
	return false
}
