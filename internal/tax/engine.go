package tax

import (
	"fmt"
	"sort"
	"strings"

	"github.com/taaxdog/backend/internal/model"
)

// Config holds the engine thresholds. Construct once at startup and treat as
// immutable; the engine keeps no other state, so concurrent Categorize calls
// are safe.
type Config struct {
	// MinConfidence is the floor below which no category is accepted and the
	// transaction falls back to personal/non-deductible.
	MinConfidence float64
	// VerificationConfidence is the confidence below which a result always
	// requires human verification.
	VerificationConfidence float64
	// LargeTransactionCents flags deductible transactions above this amount
	// for verification regardless of confidence.
	LargeTransactionCents int64
	// FuzzyThreshold is the partial-ratio (0-100) for near-match keywords.
	FuzzyThreshold int
	// MaxAlternatives caps the alternative-category list.
	MaxAlternatives int
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MinConfidence:          0.15,
		VerificationConfidence: 0.80,
		LargeTransactionCents:  30000, // AUD 300
		FuzzyThreshold:         70,
		MaxAlternatives:        3,
	}
}

// Alternative is a ranked runner-up category.
type Alternative struct {
	Category   CategoryKey `json:"category"`
	Confidence float64     `json:"confidence"`
}

// Result is the categorization verdict for a single transaction. It is
// created per call and never persisted by the engine.
type Result struct {
	Category             CategoryKey   `json:"category"`
	CategoryName         string        `json:"category_name"`
	Confidence           float64       `json:"confidence"`
	Deductibility        float64       `json:"deductibility"`
	RequiresVerification bool          `json:"requires_verification"`
	Reasoning            string        `json:"reasoning"`
	SuggestedEvidence    []string      `json:"suggested_evidence,omitempty"`
	Alternatives         []Alternative `json:"alternative_categories,omitempty"`
}

// Engine is the categorization engine. It is pure and stateless per call:
// identical inputs always produce identical results.
type Engine struct {
	cfg     Config
	matcher *Matcher
}

// NewEngine creates an Engine with the given config. Zero thresholds are
// replaced with defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = def.MinConfidence
	}
	if cfg.VerificationConfidence <= 0 {
		cfg.VerificationConfidence = def.VerificationConfidence
	}
	if cfg.LargeTransactionCents <= 0 {
		cfg.LargeTransactionCents = def.LargeTransactionCents
	}
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = def.FuzzyThreshold
	}
	if cfg.MaxAlternatives <= 0 {
		cfg.MaxAlternatives = def.MaxAlternatives
	}
	return &Engine{cfg: cfg, matcher: NewMatcher(cfg.FuzzyThreshold)}
}

// Categorize determines the tax category for a transaction, optionally
// adjusted by the user's tax profile. It is total: malformed input yields the
// personal fallback with zero confidence, never an error.
func (e *Engine) Categorize(txn *model.Transaction, profile *model.TaxProfile) Result {
	if txn == nil || txn.Cents() == 0 || (txn.Description == "" && txn.Merchant == "") {
		return Result{
			Category:             CategoryPersonal,
			CategoryName:         displayName(CategoryPersonal),
			Confidence:           0,
			Deductibility:        0,
			RequiresVerification: true,
			Reasoning:            "Transaction is missing an amount or description; defaulted to personal",
		}
	}

	// Credits are income, not expense deductions. Unless the credit looks
	// like assessable business income, it is personal with full confidence.
	if txn.Direction == model.DirectionCredit {
		return e.categorizeCredit(txn)
	}

	details := e.matcher.ScoreAll(txn)

	// Income rules never apply to debits.
	scored := details[:0]
	for _, d := range details {
		if cat, ok := CategoryByKey(d.Category); ok && !cat.IsIncome {
			scored = append(scored, d)
		}
	}

	best, rest := rank(scored)

	if best.Confidence() < e.cfg.MinConfidence {
		// Fallback confidence reflects how weak the competition was.
		conf := 1.0 - best.Confidence()
		reason := "No category rules matched; treated as personal"
		if best.Confidence() > 0 {
			reason = fmt.Sprintf("Best candidate %s scored only %.0f%%; treated as personal", best.Category, best.Confidence()*100)
		}
		return Result{
			Category:             CategoryPersonal,
			CategoryName:         displayName(CategoryPersonal),
			Confidence:           conf,
			Deductibility:        0,
			RequiresVerification: conf < e.cfg.VerificationConfidence,
			Reasoning:            reason,
		}
	}

	category, _ := CategoryByKey(best.Category)
	confidence := best.Confidence()
	deductibility := e.deductibility(category, profile)

	requiresVerification := confidence < e.cfg.VerificationConfidence ||
		(deductibility > 0 && txn.Cents() > e.cfg.LargeTransactionCents)

	return Result{
		Category:             category.Key,
		CategoryName:         category.DisplayName,
		Confidence:           confidence,
		Deductibility:        deductibility,
		RequiresVerification: requiresVerification,
		Reasoning:            buildReasoning(txn, best, category, profile),
		SuggestedEvidence:    suggestedEvidence(category.Key, best),
		Alternatives:         alternatives(rest, e.cfg.MaxAlternatives),
	}
}

func (e *Engine) categorizeCredit(txn *model.Transaction) Result {
	detail := e.matcher.Score(txn, CategoryBusinessIncome)
	if detail.Confidence() >= e.cfg.MinConfidence {
		category, _ := CategoryByKey(CategoryBusinessIncome)
		return Result{
			Category:             category.Key,
			CategoryName:         category.DisplayName,
			Confidence:           detail.Confidence(),
			Deductibility:        0,
			RequiresVerification: detail.Confidence() < e.cfg.VerificationConfidence,
			Reasoning:            buildReasoning(txn, detail, category, nil),
			SuggestedEvidence:    suggestedEvidence(category.Key, detail),
		}
	}
	return Result{
		Category:             CategoryPersonal,
		CategoryName:         displayName(CategoryPersonal),
		Confidence:           1.0,
		Deductibility:        0,
		RequiresVerification: false,
		Reasoning:            "Credit transaction with no income match; credits are not expense deductions",
	}
}

// deductibility starts from the category baseline and lets a declared
// work-use percentage on the profile override it. Personal categories are
// always 0.
func (e *Engine) deductibility(category Category, profile *model.TaxProfile) float64 {
	if category.IsPersonal || category.IsIncome {
		return 0
	}
	pct := category.BaselineDeductibility
	if declared, ok := profile.WorkUseFor(string(category.Key)); ok {
		pct = declared
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	return pct
}

// rank picks the winner and returns the remaining details sorted by
// confidence descending. Exact ties keep declaration order: ScoreAll yields
// details in taxonomy order and both the winner scan and the sort below only
// reorder on strict inequality.
func rank(details []MatchDetail) (MatchDetail, []MatchDetail) {
	best := MatchDetail{}
	bestIdx := -1
	for i, d := range details {
		if bestIdx == -1 || d.Confidence() > best.Confidence() {
			best = d
			bestIdx = i
		}
	}
	rest := make([]MatchDetail, 0, len(details))
	for i, d := range details {
		if i != bestIdx {
			rest = append(rest, d)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Confidence() > rest[j].Confidence()
	})
	return best, rest
}

func alternatives(rest []MatchDetail, limit int) []Alternative {
	var alts []Alternative
	for _, d := range rest {
		if d.Confidence() <= 0 {
			break
		}
		alts = append(alts, Alternative{Category: d.Category, Confidence: d.Confidence()})
		if len(alts) == limit {
			break
		}
	}
	return alts
}

// buildReasoning produces a deterministic explanation from the fired signals.
func buildReasoning(txn *model.Transaction, d MatchDetail, category Category, profile *model.TaxProfile) string {
	var parts []string
	if len(d.KeywordHits) > 0 {
		parts = append(parts, "matched keywords: "+strings.Join(d.KeywordHits, ", "))
	}
	if len(d.FuzzyHits) > 0 {
		parts = append(parts, "near-matched keywords: "+strings.Join(d.FuzzyHits, ", "))
	}
	if len(d.MerchantHits) > 0 {
		merchant := NormalizeMerchant(txn.Merchant)
		if merchant == "" {
			merchant = strings.Join(d.MerchantHits, ", ")
		}
		parts = append(parts, "known merchant: "+merchant)
	}
	if d.AmountPlausible {
		parts = append(parts, "amount typical for this category")
	}
	if d.RawHintMatched != "" {
		parts = append(parts, "bank category hint: "+d.RawHintMatched)
	}
	reason := fmt.Sprintf("Classified as %s (%s)", category.DisplayName, strings.Join(parts, "; "))
	if declared, ok := profile.WorkUseFor(string(category.Key)); ok {
		reason += fmt.Sprintf("; declared work-use %.0f%% applied", declared*100)
	}
	return reason
}

// suggestedEvidence lists the substantiation the ATO expects for the
// category. Deterministic per category and fired signals.
func suggestedEvidence(key CategoryKey, d MatchDetail) []string {
	var evidence []string
	switch key {
	case CategoryWorkTravel:
		evidence = []string{"Travel diary or trip purpose note", "Logbook or kilometre records", "Tax invoice or receipt"}
	case CategoryHomeOffice:
		evidence = []string{"Hours-worked-from-home diary", "Bill or invoice showing usage", "Floor-area or usage apportionment"}
	case CategorySelfEducation:
		evidence = []string{"Course enrolment or invoice", "Statement linking study to current role"}
	case CategoryDonations:
		evidence = []string{"DGR receipt showing the organisation's details"}
	case CategoryToolsEquipment:
		evidence = []string{"Tax invoice or receipt", "Work-use percentage estimate"}
	case CategoryMemberships:
		evidence = []string{"Membership renewal notice or invoice"}
	case CategoryUniform:
		evidence = []string{"Receipt", "Evidence the clothing is occupation-specific or protective"}
	case CategoryTaxAffairs:
		evidence = []string{"Tax agent or software invoice"}
	case CategoryBusinessOperating:
		evidence = []string{"Supplier tax invoice", "Business activity records"}
	case CategoryBusinessIncome:
		evidence = []string{"Invoice or remittance advice"}
	default:
		return nil
	}
	if len(d.FuzzyHits) > 0 && len(d.KeywordHits) == 0 {
		evidence = append(evidence, "Confirm merchant identity (matched on a near-miss spelling)")
	}
	return evidence
}

func displayName(key CategoryKey) string {
	if c, ok := CategoryByKey(key); ok {
		return c.DisplayName
	}
	return string(key)
}
