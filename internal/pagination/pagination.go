package pagination

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/taghive/taghive-backend/internal/apperrors"
)

// Direction selects which way a segment extends from its anchor. It flips
// both the primary sort order and the comparison operator used to build the
// anchored filter.
type Direction string

const (
	DirectionNext     Direction = "NEXT"
	DirectionPrevious Direction = "PREVIOUS"
)

func (d Direction) opposite() Direction {
	if d == DirectionPrevious {
		return DirectionNext
	}
	return DirectionPrevious
}

// Request addresses a page inside a segment of the full ordered collection.
// ChunkID anchors the segment; nil means start of the ordering. Offset and
// Limit address rows inside the loaded segment only.
type Request struct {
	ChunkID   *uuid.UUID
	Limit     int
	Offset    int
	Direction Direction
}

// Entry is the cheap covering projection fetched by the forward scan.
type Entry struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// Source adapts one ordered, owner-filtered relation to the engine.
// The full ordering is (created_at DESC, id DESC); every scan and fetch is
// scoped to the owner at the query-filter level.
type Source[T any] interface {
	// SegmentSize is the fixed capacity of one segment.
	SegmentSize() int
	// ResolveAnchor looks up the (created_at, id) tuple of the anchor row.
	// Returns (nil, nil) when the row does not exist for this owner, which
	// the engine treats as "no anchor" rather than an error.
	ResolveAnchor(ctx context.Context, id uuid.UUID) (*Entry, error)
	// ScanEntries returns up to limit id+created_at entries. With a NEXT
	// direction the scan is descending and inclusive of the anchor tuple
	// (<=); with PREVIOUS it is ascending and exclusive (>).
	ScanEntries(ctx context.Context, anchor *Entry, dir Direction, limit int) ([]Entry, error)
	// FetchByIDs loads full rows for the page ids. No ordering guarantee.
	FetchByIDs(ctx context.Context, ids []uuid.UUID) ([]T, error)
	// IDOf extracts the id used to rebuild the page order after the fetch.
	IDOf(item T) uuid.UUID
}

type Metadata struct {
	NextChunkID     *uuid.UUID `json:"next_chunk_id"`
	PrevChunkID     *uuid.UUID `json:"prev_chunk_id"`
	ChunkSize       int        `json:"chunk_size"`
	ChunkTotalItems int        `json:"chunk_total_items"`
	Limit           int        `json:"limit"`
	Offset          int        `json:"offset"`
}

type Page[T any] struct {
	Data     []T      `json:"data"`
	Metadata Metadata `json:"metadata"`
}

// Paginate serves one bounded, stable page plus chunk-boundary metadata.
// Worst-case scan cost is SegmentSize+1 id rows forward plus SegmentSize id
// rows backward; offset/limit slicing is pure in-memory work.
func Paginate[T any](ctx context.Context, src Source[T], req Request) (*Page[T], error) {
	seg := src.SegmentSize()
	if req.Limit < 1 {
		return nil, apperrors.Invalidf("limit must be >= 1, got %d", req.Limit)
	}
	if req.Offset < 0 {
		return nil, apperrors.Invalidf("offset must be >= 0, got %d", req.Offset)
	}
	if req.Offset >= seg {
		return nil, apperrors.Invalidf("offset %d must address a position inside the segment (segment size %d)", req.Offset, seg)
	}
	dir := req.Direction
	if dir == "" {
		dir = DirectionNext
	}

	// A missing anchor degrades to the unanchored first segment so walking
	// survives the anchor row being deleted mid-walk.
	var anchor *Entry
	if req.ChunkID != nil {
		resolved, err := src.ResolveAnchor(ctx, *req.ChunkID)
		if err != nil {
			return nil, err
		}
		anchor = resolved
	}

	// The forward and backward scans are independent given the anchor.
	var forward, backward []Entry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := src.ScanEntries(gctx, anchor, dir, seg+1)
		if err != nil {
			return err
		}
		forward = entries
		return nil
	})
	if anchor != nil {
		g.Go(func() error {
			entries, err := src.ScanEntries(gctx, anchor, dir.opposite(), seg)
			if err != nil {
				return err
			}
			backward = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hasNext := len(forward) > seg
	entries := forward
	var nextChunkID *uuid.UUID
	if hasNext {
		entries = forward[:seg]
		id := forward[seg].ID
		nextChunkID = &id
	}
	// The segment boundary before the anchor exists only when the reverse
	// scan fills a whole segment; otherwise the anchor lies in the first one.
	var prevChunkID *uuid.UUID
	if anchor != nil && len(backward) == seg {
		id := backward[seg-1].ID
		prevChunkID = &id
	}

	start := req.Offset
	if start > len(entries) {
		start = len(entries)
	}
	end := start + req.Limit
	if end > len(entries) {
		end = len(entries)
	}
	pageIDs := make([]uuid.UUID, 0, end-start)
	for _, e := range entries[start:end] {
		pageIDs = append(pageIDs, e.ID)
	}

	rows, err := src.FetchByIDs(ctx, pageIDs)
	if err != nil {
		return nil, err
	}
	// IN fetches carry no ordering guarantee; rebuild order from the id
	// slice and drop ids whose row vanished between the scans and the fetch.
	byID := make(map[uuid.UUID]T, len(rows))
	for _, row := range rows {
		byID[src.IDOf(row)] = row
	}
	data := make([]T, 0, len(pageIDs))
	for _, id := range pageIDs {
		if row, ok := byID[id]; ok {
			data = append(data, row)
		}
	}

	return &Page[T]{
		Data: data,
		Metadata: Metadata{
			NextChunkID:     nextChunkID,
			PrevChunkID:     prevChunkID,
			ChunkSize:       seg,
			ChunkTotalItems: len(entries),
			Limit:           req.Limit,
			Offset:          req.Offset,
		},
	}, nil
}
