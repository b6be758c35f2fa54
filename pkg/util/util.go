package util

import (
	"io"
	"math"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
)

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func ReverseG[T any](arr []T) {
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
}

// Progress is the part of progressbar.ProgressBar the build steps report to.
type Progress interface {
	Add(num int) error
}

type noopProgress struct{}

func (noopProgress) Add(int) error { return nil }

// NoProgress discards progress updates.
var NoProgress Progress = noopProgress{}

// NewProgressBar returns a progress bar with the step description, e.g. "[cyan][2/4][reset] building road graph...".
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return newProgressBar(ansi.NewAnsiStdout(), max, description)
}

func newProgressBar(w io.Writer, max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
