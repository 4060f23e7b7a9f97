package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/hooaah/yacht-manuals/internal/ocr"
)

// extractHwp shells out to an external converter (hwp5txt by default) that
// writes plain text to stdout. Legacy .doc files go through the same
// converter path since no native decoder covers them.
func extractHwp(ctx context.Context, runner ocr.Runner, bin, path string) (Result, error) {
	stdout, stderr, err := runner.Run(ctx, bin, path)
	if err != nil {
		return Result{}, &StageError{
			Stage: "hwp",
			Err:   fmt.Errorf("%s: %w (stderr: %s)", bin, err, strings.TrimSpace(string(stderr))),
		}
	}

	return Result{
		Text:   string(stdout),
		Method: "hwp",
		Pages:  1,
	}, nil
}
