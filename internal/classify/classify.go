package classify

import (
	"math"
	"strings"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
)

// Verdict is the classifier's decision for one candidate.
type Verdict string

const (
	VerdictCreator Verdict = "creator"
	VerdictBrand   Verdict = "brand"
)

// Result carries the verdict, a confidence in [0,1], and the names of the
// signals that fired (for logging and debugging).
type Result struct {
	Verdict    Verdict
	Confidence float64
	Signals    []string
}

// signal is one named evaluator. Positive weights push toward creator,
// negative toward brand. tieBreak signals only count when a lexical or
// structural signal has already fired, so subscriber counts never decide
// alone.
type signal struct {
	name     string
	weight   float64
	tieBreak bool
	eval     func(model.Candidate) bool
}

// signals are evaluated in order; the weighted sum decides the verdict.
var signals = []signal{
	{name: "brand-title-term", weight: -1.0, eval: hasBrandTitleTerm},
	{name: "trademark-glyph", weight: -0.8, eval: hasTrademarkGlyph},
	{name: "corporate-phrase", weight: -0.7, eval: hasCorporatePhrase},
	{name: "brand-custom-url", weight: -0.6, eval: hasBrandCustomURL},
	{name: "mega-subscribers", weight: -0.9, eval: hasMegaSubscribers},
	{name: "creator-phrase", weight: 0.6, eval: hasCreatorPhrase},
	{name: "personal-phrase", weight: 0.6, eval: hasPersonalPhrase},
	{name: "personal-name-title", weight: 0.5, eval: hasPersonalNameTitle},
	{name: "creator-sub-band", weight: 0.3, tieBreak: true, eval: inCreatorBand},
	{name: "outside-sub-band", weight: -0.3, tieBreak: true, eval: outsideCreatorBand},
}

// Classifier decides creator vs brand from candidate metadata alone.
// Classify is pure and total: it never errors and makes no network calls.
type Classifier struct {
	threshold float64
}

// New returns a classifier with the given acceptance threshold. Verdicts
// whose confidence falls below the threshold are dropped by Accept.
func New(threshold float64) *Classifier {
	return &Classifier{threshold: threshold}
}

// Classify evaluates every signal and combines the weights. A candidate
// with no usable title is indeterminate and resolves to the conservative
// brand verdict at zero confidence.
func (c *Classifier) Classify(cand model.Candidate) Result {
	if strings.TrimSpace(cand.Title) == "" {
		return Result{Verdict: VerdictBrand, Confidence: 0, Signals: []string{"missing-title"}}
	}

	var score float64
	var fired []string
	var decisive bool

	for _, s := range signals {
		if s.tieBreak {
			continue
		}
		if s.eval(cand) {
			score += s.weight
			fired = append(fired, s.name)
			decisive = true
		}
	}

	// Subscriber bands break ties only once some real signal has fired.
	if decisive {
		for _, s := range signals {
			if !s.tieBreak {
				continue
			}
			if s.eval(cand) {
				score += s.weight
				fired = append(fired, s.name)
			}
		}
	}

	verdict := VerdictBrand
	if score > 0 {
		verdict = VerdictCreator
	}

	return Result{
		Verdict:    verdict,
		Confidence: math.Min(math.Abs(score), 1.0),
		Signals:    fired,
	}
}

// Accept reports whether a result is a creator verdict confident enough to
// enter the registry.
func (c *Classifier) Accept(r Result) bool {
	return r.Verdict == VerdictCreator && r.Confidence >= c.threshold
}

// Threshold returns the configured acceptance threshold.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}
