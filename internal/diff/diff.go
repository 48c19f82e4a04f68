// Package diff turns a unified diff into change metadata.
package diff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/sprite-ai/commitlint-core/internal/classify"
	"github.com/sprite-ai/commitlint-core/internal/model"
)

// File represents a single file in a diff with its parsed fragments.
type File struct {
	OldName      string
	NewName      string
	IsNew        bool
	IsDeleted    bool
	IsRenamed    bool
	IsBinary     bool
	Fragments    []*gitdiff.TextFragment
	AddedLines   int
	DeletedLines int
}

// Name returns the path the file has after the change, or before it for deletions.
func (f *File) Name() string {
	if f.IsDeleted || f.NewName == "" {
		return f.OldName
	}
	return f.NewName
}

// DiffSet holds the parsed diff for all files.
type DiffSet struct {
	Files []*File
}

// Stats returns aggregate statistics.
func (ds *DiffSet) Stats() (files, added, deleted int) {
	files = len(ds.Files)
	for _, f := range ds.Files {
		added += f.AddedLines
		deleted += f.DeletedLines
	}
	return
}

// Metadata summarises the diff in the form the classifier and validator consume.
func (ds *DiffSet) Metadata() *model.ChangeMetadata {
	meta := &model.ChangeMetadata{FilesChanged: []string{}}
	for _, f := range ds.Files {
		name := f.Name()
		meta.FilesChanged = append(meta.FilesChanged, name)
		meta.LinesAdded += f.AddedLines
		meta.LinesDeleted += f.DeletedLines
		if classify.IsTestPath(name) {
			meta.TestFilesTouched = true
		}
		meta.SymbolsRemoved += len(RemovedSymbols(f))
	}
	return meta
}

// Parse reads a unified diff string and returns a DiffSet.
func Parse(raw string) (*DiffSet, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	ds := &DiffSet{}
	for _, f := range parsed {
		df := &File{
			OldName:   f.OldName,
			NewName:   f.NewName,
			IsNew:     f.IsNew,
			IsDeleted: f.IsDelete,
			IsRenamed: f.IsRename,
			IsBinary:  f.IsBinary,
		}

		for _, frag := range f.TextFragments {
			df.Fragments = append(df.Fragments, frag)
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpAdd:
					df.AddedLines++
				case gitdiff.OpDelete:
					df.DeletedLines++
				}
			}
		}

		ds.Files = append(ds.Files, df)
	}

	return ds, nil
}

// ParseMetadata is Parse followed by Metadata.
func ParseMetadata(raw string) (*model.ChangeMetadata, error) {
	ds, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return ds.Metadata(), nil
}
