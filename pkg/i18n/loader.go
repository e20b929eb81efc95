package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

// CompiledFileName returns the name of the compiled cache file for a
// namespace/language pair: "{namespace}.{language}.json".
func CompiledFileName(namespace, lang string) string {
	return namespace + "." + lang + ".json"
}

// WithCompiledDir returns an Option that preloads compiled translation files
// from fsys. Every language in langs is loaded for every namespace, reading
// "{namespace}.{language}.json" from the root of fsys. Missing files are
// skipped; a malformed file fails construction.
//
// The languages and namespaces are also registered as the instance's
// supported languages and known namespaces.
func WithCompiledDir(fsys fs.FS, langs, namespaces []string) Option {
	return func(i *I18n) error {
		for _, ns := range namespaces {
			if ns == "" {
				return ErrEmptyNamespace
			}
			for _, lang := range langs {
				if lang == "" {
					return ErrEmptyLanguage
				}
				translations, err := readCompiled(fsys, CompiledFileName(ns, lang))
				if err != nil {
					return err
				}
				i.add(lang, ns, translations)
			}
		}

		if err := WithNamespaces(namespaces...)(i); err != nil {
			return err
		}
		return WithLanguages(langs...)(i)
	}
}

func readCompiled(fsys fs.FS, name string) (map[string]any, error) {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}

	var translations map[string]any
	if err := json.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %s", ErrInvalidFile, name, err)
	}
	return translations, nil
}
