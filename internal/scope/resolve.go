package scope

import "github.com/sprite-ai/commitlint-core/internal/model"

// Verdict is the outcome of checking a declared scope.
type Verdict struct {
	DeclaredScope  *string `json:"declared_scope"`
	IsKnown        bool    `json:"is_known"`
	SuggestedScope *string `json:"suggested_scope"`
}

// Resolve checks declared against the registry.
//
// A missing scope is always valid. An empty registry places no constraint on
// scopes. For an unknown scope, the suggestion is the scope owning the most
// changed files, ties going to the earliest registered scope.
func Resolve(declared *string, meta *model.ChangeMetadata, registry *Registry) Verdict {
	if declared == nil {
		return Verdict{IsKnown: true}
	}
	name := *declared
	v := Verdict{DeclaredScope: &name}

	if registry.Len() == 0 || registry.Contains(name) {
		v.IsKnown = true
		return v
	}

	if meta != nil && len(meta.FilesChanged) > 0 {
		if s, ok := Suggest(meta.FilesChanged, registry); ok {
			v.SuggestedScope = &s
		}
	}
	return v
}

// Suggest returns the scope that owns the plurality of files.
// Each file counts toward the first registered scope whose glob matches it.
func Suggest(files []string, registry *Registry) (string, bool) {
	counts := make(map[string]int)
	for _, f := range files {
		if s, ok := registry.Lookup(f); ok {
			counts[s]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}

	best, bestCount := "", 0
	for _, s := range registry.Scopes() {
		if c := counts[s]; c > bestCount {
			best, bestCount = s, c
		}
	}
	return best, true
}
