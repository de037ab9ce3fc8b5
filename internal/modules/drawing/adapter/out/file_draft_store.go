package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"trefila/internal/modules/drawing/domain"
	drawingout "trefila/internal/modules/drawing/port/out"
	apperrors "trefila/internal/platform/errors"
)

type FileDraftStore struct {
	path string
}

func NewFileDraftStore(path string) drawingout.DraftStore {
	return &FileDraftStore{path: path}
}

func (s *FileDraftStore) SaveDraft(_ context.Context, draft domain.Draft) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create draft dir: %w", err)
	}
	payload, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	return nil
}

func (s *FileDraftStore) LoadDraft(_ context.Context) (domain.Draft, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Draft{}, apperrors.ErrNotFound
		}
		return domain.Draft{}, fmt.Errorf("read draft: %w", err)
	}
	draft := domain.Draft{}
	if err := json.Unmarshal(payload, &draft); err != nil {
		return domain.Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	if draft.PassCount == 0 {
		return domain.Draft{}, apperrors.ErrNotFound
	}
	return draft, nil
}

func (s *FileDraftStore) ClearDraft(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
