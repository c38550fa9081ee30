package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"diskbot/internal/model"
)

// HandleCallback processes one selection event: resolve the token,
// fetch the file through the storage backend into the scratch
// directory, relay it to the chat as a document, clean up, and append
// an audit row. The scratch file is deleted regardless of outcome.
func (s *Service) HandleCallback(ctx context.Context, cb Callback) error {
	entry, err := s.store.FindPathByHash(cb.Token)
	if err != nil {
		return fmt.Errorf("resolving token: %w", err)
	}
	if entry == nil {
		// Stale token: the backing catalog changed between search and
		// selection. No log entry is written.
		s.logger.Warn("token resolved to no entry", "token", cb.Token)
		if err := s.transport.SendMessage(ctx, cb.ChatID, msgNotFound); err != nil {
			return fmt.Errorf("sending not-found reply: %w", err)
		}
		return s.transport.AnswerCallback(ctx, cb.ID)
	}

	href, err := s.storage.DownloadURL(ctx, entry.Path)
	if err != nil {
		// Degrade to an empty URL; the download below fails and is
		// handled as a download failure.
		s.logger.Warn("storage api request failed", "path", entry.Path, "error", err)
		href = ""
	}

	scratch := filepath.Join(s.settings.ScratchDir, sanitizeFileName(entry.Name))
	defer s.removeScratch(scratch)

	if err := s.downloadToScratch(ctx, href, scratch); err != nil {
		s.logger.Error("download failed", "path", entry.Path, "error", err)
		if err := s.transport.SendMessage(ctx, cb.ChatID, msgFetchFailed); err != nil {
			return fmt.Errorf("sending fetch-failed reply: %w", err)
		}
		return s.transport.AnswerCallback(ctx, cb.ID)
	}

	f, err := os.Open(scratch)
	if err != nil {
		return fmt.Errorf("opening scratch file: %w", err)
	}
	sendErr := s.transport.SendDocument(ctx, cb.ChatID, sanitizeFileName(entry.Name), f)
	f.Close()
	if sendErr != nil {
		return fmt.Errorf("sending document: %w", sendErr)
	}

	rec := model.LogRecord{
		Date:      s.clock.Now(),
		Path:      entry.Path,
		UserID:    cb.Sender.ID,
		Username:  cb.Sender.Username,
		FirstName: cb.Sender.FirstName,
		LastName:  cb.Sender.LastName,
	}
	if err := s.store.AppendLog(rec); err != nil {
		// The file is already delivered; an audit failure must not
		// undo a completed delivery.
		s.logger.Error("failed to append audit record", "path", entry.Path, "error", err)
	}

	if err := s.transport.AnswerCallback(ctx, cb.ID); err != nil {
		return fmt.Errorf("acknowledging selection: %w", err)
	}
	if err := s.transport.EditMessageText(ctx, cb.ChatID, cb.MessageID, msgProcessed); err != nil {
		return fmt.Errorf("updating choice message: %w", err)
	}

	s.logger.Info("file relayed", "path", entry.Path, "user", cb.Sender.ID)
	return nil
}
