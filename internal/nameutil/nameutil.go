// Package nameutil builds output filenames for processed videos.
//
// Output names follow the delivery convention used for CTA batches:
// the main video's base name is cut off at the first marker segment,
// then the language code, CTA code, an optional length segment (e.g. "30s")
// and the aspect ratio suffix are appended:
//
//	Spring_Promo_30s_DN_old.mp4 + (EN, SU, 16:9) -> Spring_Promo_EN_SU_30s_16x9.mp4
package nameutil

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// marker segments that terminate the base name
var markers = map[string]bool{"DN": true, "MN": true, "SN": true, "PN": true}

// LanguageCode derives a two-letter upper-case code from a language folder
// name ("english" -> "EN").
func LanguageCode(language string) string {
	if len(language) < 2 {
		return strings.ToUpper(language)
	}
	return strings.ToUpper(language[:2])
}

// CTACode derives a code from a CTA type name by taking the first letter of
// each word ("sign up" -> "SU").
func CTACode(ctaType string) string {
	var b strings.Builder
	for _, word := range strings.Fields(ctaType) {
		b.WriteString(strings.ToUpper(word[:1]))
	}
	return b.String()
}

// AspectSuffix converts a ratio like "16:9" to its filename form "16x9".
func AspectSuffix(aspectRatio string) string {
	return strings.ReplaceAll(aspectRatio, ":", "x")
}

// OutputName builds the output filename for a processed video.
//
// Segments of the base name are kept up to the first marker or two-letter
// segment; a length segment like "30s" anywhere in the name is preserved.
// The aspect suffix is only appended when not already present.
func OutputName(baseName, langCode, ctaCode, aspectRatio string) string {
	segments := strings.Split(baseName, "_")

	cutoff := len(segments)
	lengthSegment := ""
	for i, seg := range segments {
		if markers[seg] || len(seg) == 2 {
			cutoff = i
			break
		}
		if strings.HasSuffix(seg, "s") && isDigits(strings.TrimSuffix(seg, "s")) {
			lengthSegment = seg
		}
	}

	out := make([]string, 0, cutoff+3)
	for _, seg := range segments[:cutoff] {
		if seg == lengthSegment {
			// re-appended after the language and CTA codes
			continue
		}
		out = append(out, seg)
	}
	out = append(out, langCode, ctaCode)
	if lengthSegment != "" {
		out = append(out, lengthSegment)
	}

	suffix := AspectSuffix(aspectRatio)
	hasAspect := false
	for _, seg := range out {
		if strings.ReplaceAll(seg, "x", ":") == aspectRatio {
			hasAspect = true
			break
		}
	}
	if !hasAspect {
		out = append(out, suffix)
	}

	return Sanitize(strings.Join(out, "_") + ".mp4")
}

// Sanitize strips characters that are unsafe in filenames on common
// filesystems.
func Sanitize(filename string) string {
	return unsafeChars.ReplaceAllString(filename, "")
}

// Unique returns path if no file exists there, otherwise the first
// "name_1.mp4", "name_2.mp4", ... variant that is free.
func Unique(path string) string {
	return UniqueAmong(path, nil)
}

// UniqueAmong is like Unique but additionally avoids paths in taken.
// Callers planning several outputs before any file exists pass the set of
// paths already assigned within the same batch.
func UniqueAmong(path string, taken map[string]bool) string {
	if free(path, taken) {
		return path
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, counter, ext)
		if free(candidate, taken) {
			return candidate
		}
	}
}

func free(path string, taken map[string]bool) bool {
	if taken[path] {
		return false
	}
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
