package tax

import (
	"strings"

	"github.com/taaxdog/backend/internal/model"
)

// ruleSet holds the matching rules for one category. Each non-empty rule
// group is one independent signal worth up to 1.0: description keywords,
// merchant patterns, an amount-plausibility band, and raw aggregator category
// hints. An exact keyword hit scores 1.0; a fuzzy near-match scores 0.5.
type ruleSet struct {
	category  CategoryKey
	keywords  []string
	merchants []string
	// Plausible amount band in dollars. maxAmount 0 means unbounded above.
	minAmount float64
	maxAmount float64
	rawHints  []string
}

const fuzzyHitWeight = 0.5

// ruleSets is ordered to mirror the taxonomy declaration order; the matcher
// relies on that order for the tie-break policy.
var ruleSets = []ruleSet{
	{
		category: CategoryWorkTravel,
		keywords: []string{
			"uber", "taxi", "cabcharge", "didi", "ola", "parking", "toll",
			"linkt", "e-toll", "flight", "qantas", "virgin australia", "jetstar",
			"rex airlines", "hire car", "car rental", "fuel", "petrol",
		},
		merchants: []string{"uber", "shell", "bp", "caltex", "ampol", "7-eleven fuel", "avis", "hertz", "budget rent"},
		minAmount: 2, maxAmount: 5000,
		rawHints: []string{"travel", "transport", "transportation"},
	},
	{
		category: CategoryHomeOffice,
		keywords: []string{
			"internet plan", "nbn", "broadband", "home office", "desk", "monitor",
			"keyboard", "office chair", "webcam", "electricity",
		},
		merchants: []string{"telstra", "optus", "tpg", "aussie broadband", "officeworks", "agl", "origin energy"},
		minAmount: 5, maxAmount: 3000,
		rawHints: []string{"utilities", "internet", "home_office"},
	},
	{
		category: CategorySelfEducation,
		keywords: []string{
			"course", "university", "tafe", "tuition", "conference", "seminar",
			"workshop", "textbook", "udemy", "coursera", "certification", "exam fee",
			"professional dev",
		},
		merchants: []string{"university", "tafe", "udemy", "coursera", "pluralsight", "linkedin learning"},
		minAmount: 10, maxAmount: 20000,
		rawHints: []string{"education"},
	},
	{
		category: CategoryDonations,
		keywords: []string{
			"donation", "charity", "red cross", "salvation army", "salvos",
			"unicef", "world vision", "oxfam", "beyondblue", "wwf", "rspca",
			"appeal", "fundrais",
		},
		merchants: []string{"red cross", "salvation army", "unicef", "world vision", "oxfam", "rspca"},
		minAmount: 2, maxAmount: 100000,
		rawHints: []string{"donation", "charity", "gifts"},
	},
	{
		category: CategoryToolsEquipment,
		keywords: []string{
			"laptop", "macbook", "tool", "drill", "ladder", "equipment",
			"stationery", "office supplies", "work phone", "mobile plan", "software licence",
			"software license",
		},
		merchants: []string{"officeworks", "total tools", "sydney tools", "apple store", "jb hi-fi business"},
		minAmount: 5, maxAmount: 15000,
		rawHints: []string{"tools", "equipment", "electronics"},
	},
	{
		category: CategoryMemberships,
		keywords: []string{
			"union", "membership", "subscription fee", "cpa australia", "engineers australia",
			"ahpra", "registration fee", "professional association", "institute of",
		},
		merchants: []string{"cpa australia", "engineers australia", "acs", "ahpra", "law society"},
		minAmount: 20, maxAmount: 5000,
		rawHints: []string{"membership", "professional"},
	},
	{
		category: CategoryUniform,
		keywords: []string{
			"uniform", "workwear", "hi-vis", "hi vis", "safety boots", "steel cap",
			"scrubs", "laundry", "dry clean", "ppe",
		},
		merchants: []string{"totally workwear", "king gee", "hard yakka", "dry cleaner"},
		minAmount: 5, maxAmount: 2000,
		rawHints: []string{"clothing", "uniform"},
	},
	{
		category: CategoryTaxAffairs,
		keywords: []string{
			"tax agent", "tax return", "accountant", "accounting", "bookkeep",
			"h&r block", "myob", "xero", "quickbooks", "ato payment plan fee",
		},
		merchants: []string{"h&r block", "itp", "myob", "xero", "intuit"},
		minAmount: 5, maxAmount: 10000,
		rawHints: []string{"tax", "accounting", "professional_services"},
	},
	{
		category: CategoryBusinessOperating,
		keywords: []string{
			"invoice", "supplier", "wholesale", "hosting", "domain", "aws",
			"google cloud", "azure", "advertising", "insurance premium",
			"merchant fee", "stripe fee", "square fee", "rent - office",
		},
		merchants: []string{"aws", "godaddy", "shopify", "canva", "mailchimp", "seek"},
		minAmount: 1, maxAmount: 100000,
		rawHints: []string{"business", "operating", "services"},
	},
	{
		category: CategoryBusinessIncome,
		keywords: []string{
			"salary", "wage", "payroll", "invoice payment", "payment received",
			"direct credit", "interest", "dividend", "distribution", "sales",
			"stripe payout", "square settlement",
		},
		rawHints: []string{"income", "salary", "transfer_in"},
	},
	{
		category: CategoryGroceries,
		keywords: []string{
			"woolworths", "coles", "aldi", "iga", "costco", "supermarket",
			"foodworks", "harris farm", "grocer", "butcher",
		},
		merchants: []string{"woolworths", "coles", "aldi", "iga", "costco"},
		minAmount: 2, maxAmount: 1500,
		rawHints: []string{"groceries", "food", "supermarket"},
	},
	{
		category: CategoryDiningOut,
		keywords: []string{
			"mcdonald", "kfc", "hungry jack", "subway", "domino", "pizza",
			"cafe", "restaurant", "bar ", "pub ", "uber eats", "doordash",
			"menulog", "deliveroo", "netflix", "spotify", "disney+", "stan",
			"binge", "cinema", "hoyts", "event cinemas", "ticketek", "ticketmaster",
		},
		merchants: []string{"mcdonald's", "kfc", "uber eats", "doordash", "menulog", "netflix", "spotify"},
		minAmount: 2, maxAmount: 1000,
		rawHints: []string{"dining", "restaurants", "entertainment", "takeaway"},
	},
}

// MatchDetail records which signals fired for one category, feeding the
// deterministic reasoning and evidence strings on the result.
type MatchDetail struct {
	Category        CategoryKey
	Score           float64
	MaxScore        float64
	KeywordHits     []string
	FuzzyHits       []string
	MerchantHits    []string
	AmountPlausible bool
	RawHintMatched  string
}

// Confidence normalizes the raw score by the category's maximum possible
// score, yielding a value in [0, 1].
func (d MatchDetail) Confidence() float64 {
	if d.MaxScore <= 0 {
		return 0
	}
	return d.Score / d.MaxScore
}

// Matcher evaluates transactions against the per-category rule sets.
type Matcher struct {
	fuzzyThreshold int
}

// NewMatcher creates a Matcher. fuzzyThreshold is the partial-ratio (0-100)
// above which a near-match keyword still scores, at reduced weight.
func NewMatcher(fuzzyThreshold int) *Matcher {
	if fuzzyThreshold <= 0 || fuzzyThreshold > 100 {
		fuzzyThreshold = 70
	}
	return &Matcher{fuzzyThreshold: fuzzyThreshold}
}

// Score evaluates one transaction against one category and returns the raw
// match detail. The score is in [0, N] where N is the number of signal
// groups the category defines.
func (m *Matcher) Score(txn *model.Transaction, category CategoryKey) MatchDetail {
	for _, rs := range ruleSets {
		if rs.category == category {
			return m.score(txn, rs)
		}
	}
	return MatchDetail{Category: category}
}

// ScoreAll evaluates the transaction against every rule set in declaration
// order. The personal catch-all has no rules and is never returned here.
func (m *Matcher) ScoreAll(txn *model.Transaction) []MatchDetail {
	details := make([]MatchDetail, 0, len(ruleSets))
	for _, rs := range ruleSets {
		details = append(details, m.score(txn, rs))
	}
	return details
}

func (m *Matcher) score(txn *model.Transaction, rs ruleSet) MatchDetail {
	detail := MatchDetail{Category: rs.category}
	desc := strings.ToLower(txn.Description)
	merchant := strings.ToLower(txn.Merchant)

	// Signal 1: keywords against description (and merchant, which often
	// carries the cleaner text).
	if len(rs.keywords) > 0 {
		detail.MaxScore++
		best := 0.0
		for _, kw := range rs.keywords {
			if strings.Contains(desc, kw) || (merchant != "" && strings.Contains(merchant, kw)) {
				detail.KeywordHits = append(detail.KeywordHits, kw)
				best = 1.0
				continue
			}
			if len(kw) >= 4 && desc != "" && partialRatio(kw, desc) >= m.fuzzyThreshold {
				detail.FuzzyHits = append(detail.FuzzyHits, kw)
				if best < fuzzyHitWeight {
					best = fuzzyHitWeight
				}
			}
		}
		detail.Score += best
	}

	// Signal 2: known merchant patterns. Only evaluated when the feed
	// supplied a merchant; an absent field must not drag the confidence
	// denominator up.
	if len(rs.merchants) > 0 && merchant != "" {
		detail.MaxScore++
		best := 0.0
		for _, mp := range rs.merchants {
			if strings.Contains(merchant, mp) {
				detail.MerchantHits = append(detail.MerchantHits, mp)
				best = 1.0
				continue
			}
			if len(mp) >= 4 && partialRatio(mp, merchant) >= m.fuzzyThreshold {
				detail.FuzzyHits = append(detail.FuzzyHits, mp)
				if best < fuzzyHitWeight {
					best = fuzzyHitWeight
				}
			}
		}
		detail.Score += best
	}

	// Signal 3: amount plausibility. Only meaningful when the other signals
	// gave us something; a plausible amount alone is not evidence.
	if rs.minAmount > 0 || rs.maxAmount > 0 {
		detail.MaxScore++
		amount := txn.Dollars()
		if amount >= rs.minAmount && (rs.maxAmount == 0 || amount <= rs.maxAmount) && detail.Score > 0 {
			detail.AmountPlausible = true
			detail.Score++
		}
	}

	// Signal 4: aggregator category hint, only when the feed provided one.
	if raw := strings.ToLower(txn.RawCategory); len(rs.rawHints) > 0 && raw != "" {
		detail.MaxScore++
		for _, hint := range rs.rawHints {
			if strings.Contains(raw, hint) {
				detail.RawHintMatched = hint
				detail.Score++
				break
			}
		}
	}

	return detail
}
