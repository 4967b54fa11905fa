// Package scorer turns enrichment signals into a 0-100 lead score and a
// 0-1 confidence score.
package scorer

import (
	"github.com/sells-group/prospector/internal/industry"
	"github.com/sells-group/prospector/internal/model"
)

const (
	baseScore     = 20
	emailBonus    = 20
	emailPerCount = 3
	emailCountCap = 10
	founderBonus  = 25
	websiteBonus  = 15
	industryBonus = 10
	socialBonus   = 5
	sourcesBonus  = 5
	maxScore      = 100
)

// Confidence category weights. Renormalized over present categories only.
const (
	emailWeight   = 0.4
	founderWeight = 0.3
	sourceWeight  = 0.3
)

// LeadScore computes the lead score as a capped sum of bounded bonuses.
// Every signal only adds, so enriching further never lowers the score.
func LeadScore(p *model.EnrichmentProfile) int {
	score := baseScore

	if n := len(p.Emails); n > 0 {
		score += emailBonus
		if extra := n * emailPerCount; extra < emailCountCap {
			score += extra
		} else {
			score += emailCountCap
		}
	}
	if len(p.Founders) > 0 {
		score += founderBonus
	}
	if p.Website != "" {
		score += websiteBonus
	}
	if p.Industry != "" && p.Industry != industry.Fallback {
		score += industryBonus
	}
	if len(p.SocialMedia) > 0 {
		score += socialBonus
	}
	if len(p.Sources) > 2 {
		score += sourcesBonus
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

// ConfidenceScore computes a weighted average over the signal categories
// that are present. The source term contributes min(count*0.1, 0.3)
// directly rather than a per-weight value; this asymmetry is the documented
// formula. No categories present yields 0.
func ConfidenceScore(p *model.EnrichmentProfile) float64 {
	var sum, weights float64

	if len(p.Emails) > 0 {
		var mean float64
		for _, e := range p.Emails {
			mean += e.Confidence
		}
		mean /= float64(len(p.Emails))
		sum += emailWeight * mean
		weights += emailWeight
	}

	if len(p.Founders) > 0 {
		var mean float64
		for _, f := range p.Founders {
			mean += f.Confidence
		}
		mean /= float64(len(p.Founders))
		sum += founderWeight * mean
		weights += founderWeight
	}

	if len(p.Sources) > 0 {
		v := float64(len(p.Sources)) * 0.1
		if v > 0.3 {
			v = 0.3
		}
		sum += v
		weights += sourceWeight
	}

	if weights == 0 {
		return 0
	}

	conf := sum / weights
	if conf > 1 {
		conf = 1
	}
	if conf < 0 {
		conf = 0
	}
	return conf
}

// Apply writes both scores onto the profile. This is the last mutation a
// profile sees before it is handed to cache and persistence.
func Apply(p *model.EnrichmentProfile) {
	p.LeadScore = LeadScore(p)
	p.ConfidenceScore = ConfidenceScore(p)
}
