package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"ctapress/catalog"
	"ctapress/command/splice"
	"ctapress/ffprobe"
	"ctapress/internal/nameutil"
	"ctapress/models"
)

// Prober returns the video properties of a main video. Injectable so plans
// can be built in tests without ffprobe installed.
type Prober func(path string) (ffprobe.VideoInfo, error)

// ProbeVideo is the default Prober, backed by the ffprobe tool.
func ProbeVideo(path string) (ffprobe.VideoInfo, error) {
	result, err := ffprobe.Probe(path)
	if err != nil {
		return ffprobe.VideoInfo{}, err
	}
	return result.GetVideoInfo()
}

// PlanOptions holds the user selections a batch plan is built from.
type PlanOptions struct {
	MainVideos []string
	OutputRoot string
	Overlay    float64 // seconds of tail replaced by the CTA
	UseGPU     bool
}

// Plan expands the user's selection into batch items: one per
// (main video, language, CTA type) combination discovered in the catalog.
//
// A main video that cannot be probed yields a single failed item; a
// combination whose CTA clip is missing for the video's aspect ratio yields
// a failed item with the reported reason. Neither aborts planning.
func Plan(cat *catalog.Catalog, opts PlanOptions, probe Prober) []Item {
	var items []Item

	// outputs already assigned in this plan; main videos from different
	// folders can share a base name and must not share an output path
	planned := make(map[string]bool)

	for _, mainVideo := range opts.MainVideos {
		info, err := probe(mainVideo)
		if err != nil {
			items = append(items, Item{
				ID:        uuid.New().String(),
				MainVideo: mainVideo,
				Err:       fmt.Errorf("cannot analyze video: %w", err),
			})
			continue
		}

		aspectRatio := info.AspectRatio()
		aspectSuffix := nameutil.AspectSuffix(aspectRatio)
		baseName := strings.TrimSuffix(filepath.Base(mainVideo), filepath.Ext(mainVideo))

		for _, language := range cat.Languages() {
			langCode := nameutil.LanguageCode(language)

			for _, ctaType := range cat.Types(language) {
				ctaPath, ok := cat.Resolve(language, ctaType, aspectSuffix)
				if !ok {
					items = append(items, Item{
						ID:        uuid.New().String(),
						MainVideo: mainVideo,
						Err: fmt.Errorf("no CTA clip for %q (%s) with aspect ratio %s",
							ctaType, language, aspectRatio),
					})
					continue
				}

				outputDir := filepath.Join(opts.OutputRoot, language, ctaType)
				outputName := nameutil.OutputName(baseName, langCode, nameutil.CTACode(ctaType), aspectRatio)
				outputPath := nameutil.UniqueAmong(filepath.Join(outputDir, outputName), planned)
				planned[outputPath] = true

				job, err := models.NewJob(mainVideo, ctaPath, outputPath, language, ctaType, opts.Overlay, opts.UseGPU)
				if err != nil {
					items = append(items, Item{
						ID:        uuid.New().String(),
						MainVideo: mainVideo,
						Err:       err,
					})
					continue
				}

				items = append(items, Item{
					ID:        job.ID,
					MainVideo: mainVideo,
					Output:    outputPath,
					UseGPU:    opts.UseGPU,
					Command:   splice.NewSpliceBuilder(job, info),
				})
			}
		}
	}

	return items
}
