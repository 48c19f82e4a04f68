package diff

import (
	"regexp"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// Function/method definition patterns for various languages.
var funcDefPatterns = []*regexp.Regexp{
	// Go: func Name(
	regexp.MustCompile(`^\s*func\s+(\w+)\s*[(\[]`),
	// Go method: func (r *Type) Name(
	regexp.MustCompile(`^\s*func\s+\([^)]+\)\s+(\w+)\s*\(`),
	// Python: def name(
	regexp.MustCompile(`^\s*(?:async\s+)?def\s+(\w+)\s*\(`),
	// JS/TS: function name(  or  const name = (
	regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\(`),
	regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?\(`),
	// Ruby: def name
	regexp.MustCompile(`^\s*def\s+(\w+)`),
	// Rust: fn name(  or  pub fn name(
	regexp.MustCompile(`^\s*(?:pub\s+)?(?:async\s+)?fn\s+(\w+)\s*[(<]`),
	// Elixir: def name(  or  defp name(
	regexp.MustCompile(`^\s*defp?\s+(\w+)\s*[(\n]`),
}

// Symbol is a function definition seen on a diff line.
type Symbol struct {
	Name string
	Line int
}

func definedName(text string) (string, bool) {
	for _, pat := range funcDefPatterns {
		if m := pat.FindStringSubmatch(text); len(m) > 1 {
			return m[1], true
		}
	}
	return "", false
}

// RemovedSymbols returns definitions deleted from f that are not redefined
// by an added line in the same file. Moving a function within a file is not
// a removal. Line numbers refer to the old file.
func RemovedSymbols(f *File) []Symbol {
	added := make(map[string]bool)
	for _, frag := range f.Fragments {
		for _, line := range frag.Lines {
			if line.Op != gitdiff.OpAdd {
				continue
			}
			if name, ok := definedName(line.Line); ok {
				added[name] = true
			}
		}
	}

	var removed []Symbol
	for _, frag := range f.Fragments {
		lineNum := int(frag.OldPosition)
		for _, line := range frag.Lines {
			if line.Op == gitdiff.OpDelete {
				if name, ok := definedName(line.Line); ok && !added[name] {
					removed = append(removed, Symbol{Name: name, Line: lineNum})
				}
			}
			if line.Op == gitdiff.OpDelete || line.Op == gitdiff.OpContext {
				lineNum++
			}
		}
	}
	return removed
}
