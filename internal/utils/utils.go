package utils

import "strings"

// DeduplicatePatterns removes duplicate and blank patterns while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{}, len(patterns))
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		if _, exists := encounteredPatterns[pattern]; exists {
			continue
		}
		encounteredPatterns[pattern] = struct{}{}
		result = append(result, pattern)
	}
	return result
}

// MergePatterns appends additions to base and deduplicates the result without mutating either input.
func MergePatterns(base []string, additions []string) []string {
	merged := make([]string, 0, len(base)+len(additions))
	merged = append(merged, base...)
	merged = append(merged, additions...)
	return DeduplicatePatterns(merged)
}
