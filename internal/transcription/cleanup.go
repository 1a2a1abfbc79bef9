package transcription

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// HandleInboxFile transcribes a file dropped into the inbox and moves it to
// the archive folder once the transcript is stored.
func (s *implService) HandleInboxFile(ctx context.Context, path string) error {
	if _, err := s.TranscribeFile(ctx, path); err != nil {
		return err
	}

	if s.opts.ArchiveDir == "" {
		return nil
	}
	if err := s.moveToArchived(ctx, path); err != nil {
		s.logger.Warn(ctx, "Failed to move %s to archived folder: %v", path, err)
	}
	return nil
}

// moveToArchived moves a processed source file into the archive folder.
func (s *implService) moveToArchived(ctx context.Context, path string) error {
	if err := os.MkdirAll(s.opts.ArchiveDir, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}
	dest := filepath.Join(s.opts.ArchiveDir, filepath.Base(path))

	s.logger.Info(ctx, "Archiving: %s -> %s", path, dest)

	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return nil
}

// cleanupJob removes the job directory and everything left in it.
func (s *implService) cleanupJob(ctx context.Context, job *Job) {
	if err := os.RemoveAll(job.Dir); err != nil {
		s.logger.Warn(ctx, "Failed to cleanup job dir %s: %v", job.Dir, err)
	} else {
		s.logger.Debug(ctx, "Cleaned up job dir: %s", job.Dir)
	}
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (s *implService) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	}
}
