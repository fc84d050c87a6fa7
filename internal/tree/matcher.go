package tree

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gobwas/glob"
)

const errorCompilePatternFormat = "compiling ignore pattern %q"

// literalCharacters keeps braces and backslashes literal, leaving *, ? and
// [...] as the only special syntax.
var literalCharacters = strings.NewReplacer(`\`, `\\`, `{`, `\{`, `}`, `\}`)

// Matcher decides whether a directory entry is excluded by name.
// Directory names are compared for exact equality; file patterns use glob
// syntax (*, ?, [abc], [!abc]) against the bare entry name. Braces and
// backslashes in patterns are ordinary characters.
type Matcher struct {
	directoryNames map[string]struct{}
	filePatterns   []glob.Glob
}

// NewMatcher compiles the exclusion sets. Blank entries are skipped.
func NewMatcher(ignoreDirs []string, ignoreFiles []string) (*Matcher, error) {
	matcher := &Matcher{directoryNames: make(map[string]struct{}, len(ignoreDirs))}
	for _, directoryName := range ignoreDirs {
		if directoryName == "" {
			continue
		}
		matcher.directoryNames[directoryName] = struct{}{}
	}
	for _, pattern := range ignoreFiles {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		compiledPattern, compileError := glob.Compile(literalCharacters.Replace(pattern))
		if compileError != nil {
			return nil, errors.Mark(errors.Wrapf(compileError, errorCompilePatternFormat, pattern), ErrInvalidPattern)
		}
		matcher.filePatterns = append(matcher.filePatterns, compiledPattern)
	}
	return matcher, nil
}

// Matches reports whether an entry with the given name must be omitted.
func (matcher *Matcher) Matches(entryName string) bool {
	for _, filePattern := range matcher.filePatterns {
		if filePattern.Match(entryName) {
			return true
		}
	}
	return matcher.IsIgnoredDirectory(entryName)
}

// IsIgnoredDirectory reports whether the name is listed in the directory exclusion set.
func (matcher *Matcher) IsIgnoredDirectory(entryName string) bool {
	_, ignored := matcher.directoryNames[entryName]
	return ignored
}
