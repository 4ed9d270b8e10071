// Package tax implements the transaction tax-categorization engine: a fixed
// Australian category taxonomy, a rule-based matcher, and the categorization
// engine that turns a raw transaction into a tax category with confidence,
// deductibility and GST treatment hints.
package tax

// CategoryKey identifies a category in the taxonomy.
type CategoryKey string

const (
	CategoryWorkTravel         CategoryKey = "work_travel"
	CategoryHomeOffice         CategoryKey = "home_office"
	CategorySelfEducation      CategoryKey = "self_education"
	CategoryDonations          CategoryKey = "donations"
	CategoryToolsEquipment     CategoryKey = "tools_equipment"
	CategoryMemberships        CategoryKey = "professional_memberships"
	CategoryUniform            CategoryKey = "uniform"
	CategoryTaxAffairs         CategoryKey = "tax_affairs"
	CategoryBusinessOperating  CategoryKey = "business_operating"
	CategoryBusinessIncome     CategoryKey = "business_income"
	CategoryGroceries          CategoryKey = "groceries"
	CategoryDiningOut          CategoryKey = "dining_entertainment"
	CategoryPersonal           CategoryKey = "personal"
)

// Category is one entry of the immutable taxonomy. BaselineDeductibility is
// the fraction claimable absent any declared work-use percentage; IsPersonal
// categories are never deductible. IsIncome marks the category used for
// credit transactions that look like business income.
type Category struct {
	Key                   CategoryKey `json:"key"`
	DisplayName           string      `json:"display_name"`
	Description           string      `json:"description"`
	BaselineDeductibility float64     `json:"baseline_deductibility"`
	IsPersonal            bool        `json:"is_personal"`
	IsIncome              bool        `json:"is_income"`
}

// categories is the taxonomy in declaration order. Order matters: when two
// categories produce the same raw match score, the earlier-declared one wins.
var categories = []Category{
	{
		Key:                   CategoryWorkTravel,
		DisplayName:           "Work-Related Travel & Car",
		Description:           "D1/D6: work trips, tolls, parking and vehicle costs; commuting excluded",
		BaselineDeductibility: 0.5,
	},
	{
		Key:                   CategoryHomeOffice,
		DisplayName:           "Home Office",
		Description:           "D5: home office running costs, internet, office furniture",
		BaselineDeductibility: 0.8,
	},
	{
		Key:                   CategorySelfEducation,
		DisplayName:           "Self-Education",
		Description:           "D3: courses, conferences and textbooks related to current employment",
		BaselineDeductibility: 1.0,
	},
	{
		Key:                   CategoryDonations,
		DisplayName:           "Gifts & Donations",
		Description:           "D15: donations of $2+ to DGR-registered organisations",
		BaselineDeductibility: 1.0,
	},
	{
		Key:                   CategoryToolsEquipment,
		DisplayName:           "Tools & Equipment",
		Description:           "D4: tools, devices and equipment used to earn income",
		BaselineDeductibility: 1.0,
	},
	{
		Key:                   CategoryMemberships,
		DisplayName:           "Professional Memberships & Unions",
		Description:           "D4: union fees, professional association and registration fees",
		BaselineDeductibility: 1.0,
	},
	{
		Key:                   CategoryUniform,
		DisplayName:           "Uniform & Protective Clothing",
		Description:           "D2: occupation-specific clothing, laundry and protective gear",
		BaselineDeductibility: 1.0,
	},
	{
		Key:                   CategoryTaxAffairs,
		DisplayName:           "Cost of Managing Tax Affairs",
		Description:           "D10: tax agent fees and accounting software",
		BaselineDeductibility: 1.0,
	},
	{
		Key:                   CategoryBusinessOperating,
		DisplayName:           "Business Operating Expenses",
		Description:           "P&L operating costs for ABN holders",
		BaselineDeductibility: 1.0,
	},
	{
		Key:         CategoryBusinessIncome,
		DisplayName: "Business Income",
		Description: "Invoiced sales, salary and other assessable income",
		IsIncome:    true,
	},
	{
		Key:         CategoryGroceries,
		DisplayName: "Groceries",
		Description: "Supermarkets and food shopping; not deductible",
		IsPersonal:  true,
	},
	{
		Key:         CategoryDiningOut,
		DisplayName: "Dining & Entertainment",
		Description: "Restaurants, takeaway, streaming and entertainment; not deductible",
		IsPersonal:  true,
	},
	{
		Key:         CategoryPersonal,
		DisplayName: "Personal / Non-Deductible",
		Description: "Catch-all for private expenses with no deductible component",
		IsPersonal:  true,
	},
}

// Categories returns the taxonomy in declaration order. The returned slice is
// shared and must not be mutated.
func Categories() []Category {
	return categories
}

// CategoryByKey looks up a category. The second return is false when the key
// is not part of the taxonomy.
func CategoryByKey(key CategoryKey) (Category, bool) {
	for _, c := range categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}
