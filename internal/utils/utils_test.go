package utils

import (
	"reflect"
	"runtime/debug"
	"testing"
)

func TestDeduplicatePatterns(t *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil", input: nil, expected: []string{}},
		{name: "keeps_order", input: []string{"b", "a", "b", "c", "a"}, expected: []string{"b", "a", "c"}},
		{name: "drops_blank", input: []string{"", "*.pyc", "  ", "*.pyc"}, expected: []string{"*.pyc"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := DeduplicatePatterns(testCase.input); !reflect.DeepEqual(actual, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, actual)
			}
		})
	}
}

func TestMergePatternsDoesNotMutateInputs(t *testing.T) {
	base := make([]string, 2, 8)
	copy(base, []string{"*.pyc", "scheme.txt"})
	additions := []string{"*.log", "*.pyc"}

	merged := MergePatterns(base, additions)

	if !reflect.DeepEqual(merged, []string{"*.pyc", "scheme.txt", "*.log"}) {
		t.Fatalf("unexpected merge result %v", merged)
	}
	if len(base) != 2 || base[1] != "scheme.txt" {
		t.Fatalf("base slice was modified: %v", base)
	}
}

func TestVersionFromBuildInfo(t *testing.T) {
	testCases := []struct {
		name      string
		buildInfo *debug.BuildInfo
		expected  string
	}{
		{name: "nil", buildInfo: nil, expected: unknownVersion},
		{
			name:      "tagged",
			buildInfo: &debug.BuildInfo{Main: debug.Module{Version: "v1.2.3"}},
			expected:  "v1.2.3",
		},
		{
			name:      "devel_without_vcs",
			buildInfo: &debug.BuildInfo{Main: debug.Module{Version: develVersion}},
			expected:  unknownVersion,
		},
		{
			name: "devel_dirty_revision",
			buildInfo: &debug.BuildInfo{
				Main: debug.Module{Version: develVersion},
				Settings: []debug.BuildSetting{
					{Key: revisionSettingKey, Value: "0123456789abcdef0123"},
					{Key: modifiedSettingKey, Value: "true"},
				},
			},
			expected: "devel-0123456789ab-dirty",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := versionFromBuildInfo(testCase.buildInfo); actual != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, actual)
			}
		})
	}
}
