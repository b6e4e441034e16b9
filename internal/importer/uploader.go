package importer

import (
	"context"
	"log/slog"

	"github.com/kbtools/url2kb/internal/api"
)

// UploadOutcome aggregates per-unit results for one batch.
type UploadOutcome struct {
	Succeeded int
	Failed    int
}

// Uploader persists content units into a collection one at a time,
// preserving their emitted order.
type Uploader struct {
	Client *api.Client
	Logger *slog.Logger
}

// UploadAll uploads every unit in order. A failed unit never stops the
// batch: each failure is logged and counted, and the next unit is
// attempted regardless. Individual failure causes are not distinguished
// in the outcome.
func (u *Uploader) UploadAll(ctx context.Context, collection string, units []ContentUnit, opts Options) UploadOutcome {
	log := u.Logger
	if log == nil {
		log = slog.Default()
	}

	var out UploadOutcome
	for _, unit := range units {
		err := u.Client.UploadChunk(ctx, collection, unit.Filename, unit.Content, opts.ChunkSize, opts.ChunkOverlap)
		if err != nil {
			log.Warn("chunk upload failed", "filename", unit.Filename, "collection", collection, "error", err)
			out.Failed++
			continue
		}
		log.Debug("chunk uploaded", "filename", unit.Filename, "collection", collection, "bytes", len(unit.Content))
		out.Succeeded++
	}
	return out
}
