package main

import (
	"fmt"

	"github.com/TRT-MichaelO/contracts/pkg/library"
	"github.com/ktr0731/go-fuzzyfinder"
)

// pickSpec lets the user choose a library spec in a fuzzy finder.
func pickSpec(l *library.Library) (string, error) {
	names := l.Names()
	if len(names) == 0 {
		return "", fmt.Errorf("no named specs found: add *.yml files to <config>/%s or use --library-dir", libraryDir)
	}
	idx, err := fuzzyfinder.Find(
		names,
		func(i int) string {
			e, _ := l.Get(names[i])
			return e.Name + "\t" + e.Spec
		},
		fuzzyfinder.WithPromptString("Select spec: "),
		fuzzyfinder.WithPreviewWindow(func(i, width, height int) string {
			if i < 0 {
				return ""
			}
			return specPreview(l, names[i])
		}),
	)
	if err != nil {
		return "", err
	}
	return names[idx], nil
}

func specPreview(l *library.Library, name string) string {
	e, ok := l.Get(name)
	if !ok {
		return ""
	}
	s := fmt.Sprintf("%s\n\n  %s\n", e.Name, e.Contract)
	if e.Doc != "" {
		s += "\n" + e.Doc + "\n"
	}
	return s + "\nfrom " + e.Source + "\n"
}
