package snapshot

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/ternarybob/arbor"
)

// Visual compares screenshots against stored baseline images. Comparison is
// per-pixel after resizing the candidate to the baseline's dimensions, so a
// viewport drift of a few pixels does not fail every run.
type Visual struct {
	dir       string
	threshold float64
	logger    arbor.ILogger
}

// NewVisual creates a visual comparator storing baselines under dir. The
// threshold is the tolerated fraction of differing pixels, 0 to 1.
func NewVisual(dir string, threshold float64, logger arbor.ILogger) *Visual {
	return &Visual{
		dir:       dir,
		threshold: threshold,
		logger:    logger,
	}
}

func (v *Visual) baselinePath(name string) string {
	return filepath.Join(v.dir, name+".png")
}

// Verify compares the screenshot at candidatePath against the stored
// baseline. A missing baseline is created from the candidate and reported as
// created.
func (v *Visual) Verify(name, candidatePath string) (created bool, err error) {
	candidate, err := imaging.Open(candidatePath)
	if err != nil {
		return false, fmt.Errorf("failed to open screenshot %s: %w", candidatePath, err)
	}

	path := v.baselinePath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return false, fmt.Errorf("failed to create snapshots directory: %w", err)
		}
		if err := imaging.Save(candidate, path); err != nil {
			return false, fmt.Errorf("failed to write baseline %s: %w", path, err)
		}
		v.logger.Info().Str("name", name).Str("path", path).Msg("Visual baseline created")
		return true, nil
	}

	baseline, err := imaging.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open baseline %s: %w", path, err)
	}

	ratio := DiffRatio(baseline, candidate)
	v.logger.Debug().
		Str("name", name).
		Float64("diffRatio", ratio).
		Float64("threshold", v.threshold).
		Msg("Visual comparison")

	if ratio > v.threshold {
		return false, fmt.Errorf("screenshot %s differs from baseline by %.2f%% (threshold %.2f%%)",
			name, ratio*100, v.threshold*100)
	}
	return false, nil
}

// DiffRatio returns the fraction of pixels that differ between two images.
// The candidate is resized to the baseline's bounds first. A pixel counts as
// different when any channel differs by more than a small per-channel slack
// that absorbs encoder rounding.
func DiffRatio(baseline, candidate image.Image) float64 {
	bounds := baseline.Bounds()
	if candidate.Bounds() != bounds {
		candidate = imaging.Resize(candidate, bounds.Dx(), bounds.Dy(), imaging.Lanczos)
	}

	const channelSlack = 3 << 8 // RGBA() returns 16-bit channels

	var differing, total int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			br, bg, bb, ba := baseline.At(x, y).RGBA()
			cr, cg, cb, ca := candidate.At(x, y).RGBA()
			if channelDiff(br, cr) > channelSlack ||
				channelDiff(bg, cg) > channelSlack ||
				channelDiff(bb, cb) > channelSlack ||
				channelDiff(ba, ca) > channelSlack {
				differing++
			}
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(differing) / float64(total)
}

func channelDiff(a, b uint32) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
