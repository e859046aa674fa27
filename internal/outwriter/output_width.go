package outwriter

import (
	"os"

	"github.com/huangsam/slippistats/internal/contract"
	"golang.org/x/term"
)

// getMaxTablePathWidth calculates the maximum width for replay paths in the
// batch table based on terminal width.
func getMaxTablePathWidth(cfg *contract.Config) int {
	termWidth := cfg.Width

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// #, Status, Cached, Time and Error columns plus borders and padding
	baseWidth := 70

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
