package out

import (
	"context"

	"trefila/internal/modules/drawing/domain"
)

type DraftStore interface {
	SaveDraft(ctx context.Context, draft domain.Draft) error
	LoadDraft(ctx context.Context) (domain.Draft, error)
	ClearDraft(ctx context.Context) error
}
