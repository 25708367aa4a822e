package services

import (
	"sort"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
)

const (
	distanceWeight = 0.5
	ratingWeight   = 0.3
	successWeight  = 0.2
)

// Ranked is a candidate with its composite score.
type Ranked struct {
	Candidate
	DeliveryDistanceKm float64
	TotalDistanceKm    float64
	Score              float64
}

// PartnerRanker is a domain service that selects the best partner for an order among
// the nearby candidates, weighing the whole commute (pickup plus delivery) against
// partner quality.
//
// Scoring:
//
//	total         = pickupKm + distanceKm(partner, destination)
//	distanceScore = 1 / (total + 1)
//	ratingScore   = rating / 5
//	successScore  = successful / max(deliveries, 1)
//	score         = 0.5·distanceScore + 0.3·ratingScore + 0.2·successScore
//
// The highest score wins; equal scores go to the lowest partner ID so a ranking is
// reproducible.
//
// Example usage:
//
//	ranker := services.NewPartnerRanker()
//	best, ok := ranker.Rank(nearby, customer)
//	if !ok {
//	    // escalate to the next stage
//	}
type PartnerRanker struct{}

// NewPartnerRanker creates a new PartnerRanker instance.
func NewPartnerRanker() PartnerRanker {
	return PartnerRanker{}
}

// Rank returns the best candidate. ok is false for an empty input.
func (r PartnerRanker) Rank(candidates []Candidate, destination kernel.Location) (best Ranked, ok bool) {
	ranked := r.RankAll(candidates, destination)
	if len(ranked) == 0 {
		return Ranked{}, false
	}
	return ranked[0], true
}

// RankAll scores every candidate and returns them best first. The cascade walks this
// list when an offer is declined or a claim is lost.
//
// Candidates without a valid partner or location are dropped.
func (r PartnerRanker) RankAll(candidates []Candidate, destination kernel.Location) []Ranked {
	if destination.Validate() != nil {
		return []Ranked{}
	}

	ranked := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		if c.Partner.Validate() != nil {
			continue
		}
		loc, ok := c.Partner.Location()
		if !ok {
			continue
		}
		delivery := kernel.DistanceKm(loc, destination)
		total := c.PickupDistanceKm + delivery
		ranked = append(ranked, Ranked{
			Candidate:          c,
			DeliveryDistanceKm: delivery,
			TotalDistanceKm:    total,
			Score:              compositeScore(c.Partner, total),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Partner.ID().Less(ranked[j].Partner.ID())
	})

	return ranked
}

func compositeScore(p *partner.Partner, totalDistanceKm float64) float64 {
	distanceScore := 1 / (totalDistanceKm + 1)
	ratingScore := p.Rating() / partner.RatingMax
	successScore := p.SuccessRate()

	return distanceScore*distanceWeight + ratingScore*ratingWeight + successScore*successWeight
}
