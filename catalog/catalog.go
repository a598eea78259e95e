// Package catalog discovers CTA clips from the conventional folder layout
//
//	<root>/<Language>/<CTAType>/<CTAType>_<Aspect>.mp4
//
// and resolves the clip matching a requested language, CTA type and aspect
// ratio. Discovery is a pure function of the directory tree; the resulting
// Catalog is immutable for the rest of the run.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ctapress/models"
)

// Catalog maps language -> CTA type -> aspect suffix -> clip path.
type Catalog struct {
	assets map[string]map[string]map[string]string
}

// Scan builds a Catalog by walking root two levels deep. Immediate
// subdirectories are languages, their subdirectories are CTA types, and
// files named "*_<aspect>.mp4" inside those are the clips.
//
// Files that do not follow the naming convention are ignored; an empty tree
// yields an empty (but usable) Catalog.
func Scan(root string) (*Catalog, error) {
	languages, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read CTA root %s: %w", root, err)
	}

	c := &Catalog{assets: make(map[string]map[string]map[string]string)}

	for _, lang := range languages {
		if !lang.IsDir() {
			continue
		}
		langDir := filepath.Join(root, lang.Name())

		types, err := os.ReadDir(langDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read language folder %s: %w", langDir, err)
		}

		for _, ctaType := range types {
			if !ctaType.IsDir() {
				continue
			}
			typeDir := filepath.Join(langDir, ctaType.Name())

			files, err := os.ReadDir(typeDir)
			if err != nil {
				return nil, fmt.Errorf("failed to read CTA folder %s: %w", typeDir, err)
			}

			for _, file := range files {
				if file.IsDir() {
					continue
				}
				aspect, ok := aspectFromFilename(file.Name(), ctaType.Name())
				if !ok {
					continue
				}
				c.add(lang.Name(), ctaType.Name(), aspect, filepath.Join(typeDir, file.Name()))
			}
		}
	}

	return c, nil
}

// Resolve returns the clip path for the given language, CTA type and aspect
// ratio suffix ("16x9"), or ok=false if no such clip was discovered. A miss
// is an expected per-video outcome, not an error.
func (c *Catalog) Resolve(language, ctaType, aspect string) (string, bool) {
	types, ok := c.assets[language]
	if !ok {
		return "", false
	}
	aspects, ok := types[ctaType]
	if !ok {
		return "", false
	}
	path, ok := aspects[strings.ToLower(aspect)]
	return path, ok
}

// Languages returns the discovered languages in sorted order.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.assets))
	for lang := range c.assets {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Types returns the CTA types discovered for a language in sorted order.
func (c *Catalog) Types(language string) []string {
	types := make([]string, 0, len(c.assets[language]))
	for t := range c.assets[language] {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Assets returns every discovered asset, sorted by path, for reporting.
func (c *Catalog) Assets() []models.Asset {
	var assets []models.Asset
	for lang, types := range c.assets {
		for ctaType, aspects := range types {
			for aspect, path := range aspects {
				assets = append(assets, models.Asset{
					Language:    lang,
					Type:        ctaType,
					AspectRatio: aspect,
					Path:        path,
				})
			}
		}
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Path < assets[j].Path })
	return assets
}

// Len returns the total number of discovered clips.
func (c *Catalog) Len() int {
	n := 0
	for _, types := range c.assets {
		for _, aspects := range types {
			n += len(aspects)
		}
	}
	return n
}

func (c *Catalog) add(language, ctaType, aspect, path string) {
	if c.assets[language] == nil {
		c.assets[language] = make(map[string]map[string]string)
	}
	if c.assets[language][ctaType] == nil {
		c.assets[language][ctaType] = make(map[string]string)
	}
	c.assets[language][ctaType][strings.ToLower(aspect)] = path
}

// aspectFromFilename extracts the aspect suffix from a clip filename.
// "Sign Up_16x9.mp4" for CTA type "Sign Up" yields "16x9". The comparison
// ignores case and spaces, matching how editors actually name the files.
func aspectFromFilename(filename, ctaType string) (string, bool) {
	lower := strings.ToLower(filename)
	if !strings.HasSuffix(lower, ".mp4") {
		return "", false
	}
	stem := strings.TrimSuffix(lower, ".mp4")

	idx := strings.LastIndex(stem, "_")
	if idx < 0 {
		return "", false
	}

	name := strings.ReplaceAll(stem[:idx], " ", "")
	want := strings.ReplaceAll(strings.ToLower(ctaType), " ", "")
	if !strings.Contains(name, want) {
		return "", false
	}

	aspect := stem[idx+1:]
	if aspect == "" {
		return "", false
	}
	return aspect, true
}
