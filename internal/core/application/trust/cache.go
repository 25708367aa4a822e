package trust

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
)

// RiskCache holds recently read pincode risk scores in front of the store.
type RiskCache interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, code pincode.Code) (score float64, ok bool, err error)
	// Set stores a committed score, replacing any cached one.
	Set(ctx context.Context, code pincode.Code, score float64) error
	// Fill stores a score read from the store only if none is cached, so a read
	// that raced a commit cannot replace the committed score.
	Fill(ctx context.Context, code pincode.Code, score float64) error
	Delete(ctx context.Context, code pincode.Code) error
}

type nopCache struct{}

func (nopCache) Get(context.Context, pincode.Code) (float64, bool, error) { return 0, false, nil }

func (nopCache) Set(context.Context, pincode.Code, float64) error { return nil }

func (nopCache) Fill(context.Context, pincode.Code, float64) error { return nil }

func (nopCache) Delete(context.Context, pincode.Code) error { return nil }
