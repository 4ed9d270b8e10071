package model

// TaxProfile carries the user's declared tax settings. It is optional
// everywhere: categorization and aggregation degrade gracefully (lower
// confidence, no overrides, no GST figures) when the profile is absent.
type TaxProfile struct {
	UserID        string   `json:"user_id,omitempty" firestore:"userId"`
	Occupations   []string `json:"occupations,omitempty" firestore:"occupations"`
	HasABN        bool     `json:"has_abn" firestore:"hasAbn"`
	GSTRegistered bool     `json:"gst_registered" firestore:"gstRegistered"`

	// DeclaredWorkUse maps a category key to the work-use percentage (0.0-1.0)
	// the user has declared for it. A declared percentage is authoritative
	// over the category's static baseline deductibility.
	DeclaredWorkUse map[string]float64 `json:"declared_work_use,omitempty" firestore:"declaredWorkUse"`

	// PAYG figures are pass-through payroll inputs. The core never computes
	// withholding; it only totals what it is given.
	PaygWithholdingCents int64 `json:"payg_withholding_cents,omitempty" firestore:"paygWithholdingCents"`
	PaygInstalmentCents  int64 `json:"payg_instalment_cents,omitempty" firestore:"paygInstalmentCents"`
}

// WorkUseFor returns the declared work-use percentage for a category key and
// whether one was declared.
func (p *TaxProfile) WorkUseFor(categoryKey string) (float64, bool) {
	if p == nil || p.DeclaredWorkUse == nil {
		return 0, false
	}
	pct, ok := p.DeclaredWorkUse[categoryKey]
	return pct, ok
}
