package transcript

import (
	"context"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/wardenhq/warden/pkg/logger"
)

// SummarizeFile summarizes the transcript at path. The host may still be
// flushing the transcript when a session-end hook fires, so an empty file
// is retried briefly before being accepted as-is. A missing transcript
// yields an empty summary, not an error.
func SummarizeFile(ctx context.Context, path string) *Summary {
	if path == "" {
		return NewSummary()
	}

	err := retry.Do(
		func() error {
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if info.Size() == 0 {
				return errors.New("transcript is empty")
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(100*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("transcript", path).Debug("transcript unavailable, using empty summary")
		return NewSummary()
	}

	f, err := os.Open(path)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("transcript", path).Warn("failed to open transcript")
		return NewSummary()
	}
	defer f.Close()

	return Summarize(f)
}
