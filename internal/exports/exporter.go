package exports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/communitree/backend/internal/communities"
	"github.com/communitree/backend/internal/listings"
	"github.com/communitree/backend/internal/models"
	"github.com/communitree/backend/pkg/storage"
)

// Snapshot is the exported board state.
type Snapshot struct {
	ExportedAt  int64              `json:"exportedAt"` // unix milliseconds
	Listings    []models.Listing   `json:"listings"`
	Communities []models.Community `json:"communities"`
}

// Result describes a completed export.
type Result struct {
	Key         string `json:"key"`
	Location    string `json:"location"`
	DownloadURL string `json:"downloadUrl"`
}

// Exporter snapshots the board to S3. Shared by the export endpoint and
// the periodic worker loop.
type Exporter struct {
	listings    *listings.Repository
	communities *communities.Repository
	s3          *storage.S3
	logger      *zap.Logger
}

// NewExporter creates an exporter.
func NewExporter(listingRepo *listings.Repository, communityRepo *communities.Repository, s3 *storage.S3, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{listings: listingRepo, communities: communityRepo, s3: s3, logger: logger}
}

// Export takes a snapshot of all listings and communities, uploads it
// and returns the object key plus a pre-signed download URL.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	allListings, err := e.listings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	allCommunities, err := e.communities.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load communities: %w", err)
	}

	now := time.Now()
	body, err := json.Marshal(Snapshot{
		ExportedAt:  now.UnixMilli(),
		Listings:    allListings,
		Communities: allCommunities,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	key := storage.SnapshotKey(now)
	location, err := e.s3.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	url, err := e.s3.PresignDownload(ctx, key)
	if err != nil {
		return nil, err
	}

	e.logger.Info("board snapshot exported",
		zap.String("key", key),
		zap.Int("listings", len(allListings)),
		zap.Int("communities", len(allCommunities)))
	return &Result{Key: key, Location: location, DownloadURL: url}, nil
}

// RunPeriodic exports on a fixed interval until ctx is cancelled.
func (e *Exporter) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	e.logger.Info("periodic export started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("periodic export stopped")
			return
		case <-ticker.C:
			if _, err := e.Export(ctx); err != nil {
				e.logger.Error("periodic export failed", zap.Error(err))
			}
		}
	}
}
