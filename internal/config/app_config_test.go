package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/scheme/internal/utils"
)

type configTestCase struct {
	name              string
	globalContent     string
	localContent      string
	explicitPath      string
	explicitContent   string
	expectOutput      string
	expectIgnoreDirs  []string
	expectIgnoreFiles []string
	expectLastVisible *bool
	expectDefaults    *bool
	expectTokens      *bool
	expectModel       string
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func writeConfigFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config %s: %v", path, err)
	}
}

func assertBoolPointer(t *testing.T, label string, expected *bool, actual *bool) {
	t.Helper()
	if expected == nil {
		if actual != nil {
			t.Fatalf("expected no %s override, got %v", label, *actual)
		}
		return
	}
	if actual == nil || *actual != *expected {
		t.Fatalf("unexpected %s value", label)
	}
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:              "local_overrides_global",
			globalContent:     "output: global.txt\nignore_dirs: [vendor]\nlast_visible: true\ntokens:\n  enabled: true\n",
			localContent:      "output: local.txt\nignore_files: ['*.log', '*.log']\nlast_visible: false\ntokens:\n  model: gpt-3.5-turbo\n",
			expectOutput:      "local.txt",
			expectIgnoreDirs:  []string{"vendor"},
			expectIgnoreFiles: []string{"*.log"},
			expectLastVisible: boolPointer(false),
			expectTokens:      boolPointer(true),
			expectModel:       "gpt-3.5-turbo",
		},
		{
			name:              "local_list_replaces_global_list",
			globalContent:     "ignore_dirs: [vendor, dist]\n",
			localContent:      "ignore_dirs: [node_modules]\ndefault_ignores: false\n",
			expectIgnoreDirs:  []string{"node_modules"},
			expectIgnoreFiles: []string{},
			expectDefaults:    boolPointer(false),
		},
		{
			name:              "explicit_path_replaces_local",
			localContent:      "output: local.txt\n",
			explicitPath:      "custom.yaml",
			explicitContent:   "output: custom.txt\n",
			expectOutput:      "custom.txt",
			expectIgnoreDirs:  []string{},
			expectIgnoreFiles: []string{},
		},
		{
			name:              "no_files",
			expectIgnoreDirs:  []string{},
			expectIgnoreFiles: []string{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			if testCase.globalContent != "" {
				writeConfigFile(t, GlobalConfigurationPath(homeDir), testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeConfigFile(t, filepath.Join(workingDir, utils.ConfigFileName), testCase.localContent)
			}
			if testCase.explicitPath != "" {
				writeConfigFile(t, filepath.Join(workingDir, testCase.explicitPath), testCase.explicitContent)
			}

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
				HomeDirectory:    homeDir,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.Output != testCase.expectOutput {
				t.Fatalf("expected output %q, got %q", testCase.expectOutput, loadedConfig.Output)
			}
			if !reflect.DeepEqual(loadedConfig.IgnoreDirs, testCase.expectIgnoreDirs) {
				t.Fatalf("expected ignore_dirs %v, got %v", testCase.expectIgnoreDirs, loadedConfig.IgnoreDirs)
			}
			if !reflect.DeepEqual(loadedConfig.IgnoreFiles, testCase.expectIgnoreFiles) {
				t.Fatalf("expected ignore_files %v, got %v", testCase.expectIgnoreFiles, loadedConfig.IgnoreFiles)
			}
			assertBoolPointer(t, "last_visible", testCase.expectLastVisible, loadedConfig.LastVisible)
			assertBoolPointer(t, "default_ignores", testCase.expectDefaults, loadedConfig.DefaultIgnores)
			assertBoolPointer(t, "tokens.enabled", testCase.expectTokens, loadedConfig.Tokens.Enabled)
			if loadedConfig.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, loadedConfig.Tokens.Model)
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsInvalidSources(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(t *testing.T, workingDir string) string
	}{
		{
			name: "local_path_is_directory",
			setup: func(t *testing.T, workingDir string) string {
				if err := os.Mkdir(filepath.Join(workingDir, utils.ConfigFileName), 0o755); err != nil {
					t.Fatalf("mkdir: %v", err)
				}
				return ""
			},
		},
		{
			name: "malformed_yaml",
			setup: func(t *testing.T, workingDir string) string {
				writeConfigFile(t, filepath.Join(workingDir, utils.ConfigFileName), "ignore_dirs: [unterminated\n")
				return ""
			},
		},
		{
			name: "missing_explicit_file",
			setup: func(t *testing.T, workingDir string) string {
				return "absent.yaml"
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			workingDir := t.TempDir()
			explicitPath := testCase.setup(t, workingDir)
			_, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: explicitPath,
				HomeDirectory:    t.TempDir(),
			})
			if err == nil {
				t.Fatalf("expected configuration error")
			}
		})
	}
}

func TestMergeKeepsUnsetFields(t *testing.T) {
	base := ApplicationConfiguration{
		Output:     "base.txt",
		IgnoreDirs: []string{"vendor"},
		Clipboard:  boolPointer(true),
		Tokens:     TokenConfiguration{Model: "gpt-4o"},
	}
	merged := base.Merge(ApplicationConfiguration{LastVisible: boolPointer(true)})

	if merged.Output != "base.txt" || !reflect.DeepEqual(merged.IgnoreDirs, []string{"vendor"}) {
		t.Fatalf("unexpected merge result %+v", merged)
	}
	if !BoolValue(merged.Clipboard, false) || !BoolValue(merged.LastVisible, false) {
		t.Fatalf("expected boolean fields to survive merge")
	}
	if merged.Tokens.Model != "gpt-4o" {
		t.Fatalf("expected model to survive merge")
	}
	*merged.Clipboard = false
	if !*base.Clipboard {
		t.Fatalf("merge must not alias boolean pointers")
	}
}
