// Package catalog holds the static policy catalog for the simulation.
package catalog

import "fmt"

// PolicyOption is a single selectable policy within an area.
// Tier encodes both cost and ambition: 1 = basic, 2 = enhanced,
// 3 = transformative.
type PolicyOption struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Tier        int    `json:"tier"`
	Area        string `json:"area"`
	AreaTitle   string `json:"areaTitle"`
}

// PolicyArea groups the three tiered options for one policy concern.
type PolicyArea struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Options     []PolicyOption `json:"options"`
}

// Areas returns the full catalog. The returned slice is a copy; the
// catalog itself is never mutated.
func Areas() []PolicyArea {
	out := make([]PolicyArea, len(policyAreas))
	copy(out, policyAreas)
	return out
}

// Lookup returns the option with the given id.
func Lookup(id string) (PolicyOption, bool) {
	opt, ok := optionIndex[id]
	return opt, ok
}

// Area returns the policy area with the given id.
func Area(id string) (PolicyArea, bool) {
	for _, area := range policyAreas {
		if area.ID == id {
			return area, true
		}
	}
	return PolicyArea{}, false
}

// Selections resolves a list of option ids into options. Duplicates
// collapse (set semantics); an unknown id is an error.
func Selections(ids ...string) ([]PolicyOption, error) {
	seen := make(map[string]bool, len(ids))
	var out []PolicyOption
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		opt, ok := optionIndex[id]
		if !ok {
			return nil, fmt.Errorf("unknown policy option %q", id)
		}
		out = append(out, opt)
	}
	return out, nil
}

var optionIndex = func() map[string]PolicyOption {
	idx := make(map[string]PolicyOption)
	for _, area := range policyAreas {
		for i := range area.Options {
			area.Options[i].AreaTitle = area.Title
			opt := area.Options[i]
			idx[opt.ID] = opt
		}
	}
	return idx
}()

var policyAreas = []PolicyArea{
	{
		ID:          "access",
		Title:       "Access to Education",
		Description: "Policies related to how refugee students gain entry to the education system.",
		Options: []PolicyOption{
			{ID: "a1", Title: "Separate Schools", Description: "Create separate schools for refugees with minimal resources.", Impact: "Exclusionary", Tier: 1, Area: "access"},
			{ID: "a2", Title: "Partial Integration", Description: "Allow refugees to attend local schools with some restrictions.", Impact: "Moderate Inclusion", Tier: 2, Area: "access"},
			{ID: "a3", Title: "Full Integration", Description: "Fully integrate refugees into local schools with comprehensive support.", Impact: "Transformative", Tier: 3, Area: "access"},
		},
	},
	{
		ID:          "language",
		Title:       "Language Instruction",
		Description: "Approaches to language education for refugee students.",
		Options: []PolicyOption{
			{ID: "l1", Title: "Monolingual Approach", Description: "Teach only in the official language, no mother tongue support.", Impact: "Exclusionary", Tier: 1, Area: "language"},
			{ID: "l2", Title: "Limited Bilingual Support", Description: "Provide basic mother tongue support during transition period.", Impact: "Moderate Inclusion", Tier: 2, Area: "language"},
			{ID: "l3", Title: "Comprehensive Multilingual Education", Description: "Develop full multilingual curriculum and resources.", Impact: "Transformative", Tier: 3, Area: "language"},
		},
	},
	{
		ID:          "teachers",
		Title:       "Teacher Training",
		Description: "Professional development for educators working with refugee students.",
		Options: []PolicyOption{
			{ID: "t1", Title: "No Additional Training", Description: "Rely on existing teacher skills with no refugee-specific training.", Impact: "Exclusionary", Tier: 1, Area: "teachers"},
			{ID: "t2", Title: "Basic Diversity Workshops", Description: "Provide short-term diversity and inclusion training for teachers.", Impact: "Moderate Inclusion", Tier: 2, Area: "teachers"},
			{ID: "t3", Title: "Comprehensive Refugee Education Certification", Description: "Develop specialized certification program for teaching refugee populations.", Impact: "Transformative", Tier: 3, Area: "teachers"},
		},
	},
	{
		ID:          "curriculum",
		Title:       "Curriculum Adaptation",
		Description: "Changes to educational content to reflect refugee experiences.",
		Options: []PolicyOption{
			{ID: "c1", Title: "Standard Curriculum Only", Description: "No adaptation of existing curriculum for refugee students.", Impact: "Exclusionary", Tier: 1, Area: "curriculum"},
			{ID: "c2", Title: "Supplemental Materials", Description: "Add cultural supplements to existing curriculum.", Impact: "Moderate Inclusion", Tier: 2, Area: "curriculum"},
			{ID: "c3", Title: "Inclusive Curriculum Redesign", Description: "Completely redesign curriculum to be culturally responsive and inclusive.", Impact: "Transformative", Tier: 3, Area: "curriculum"},
		},
	},
	{
		ID:          "psychosocial",
		Title:       "Psychosocial Support",
		Description: "Mental health and social-emotional wellbeing initiatives for refugees.",
		Options: []PolicyOption{
			{ID: "p1", Title: "No Dedicated Support", Description: "No specialized mental health resources for refugee students.", Impact: "Exclusionary", Tier: 1, Area: "psychosocial"},
			{ID: "p2", Title: "Basic Counseling Services", Description: "Limited counseling and group support activities.", Impact: "Moderate Inclusion", Tier: 2, Area: "psychosocial"},
			{ID: "p3", Title: "Comprehensive Trauma-Informed Care", Description: "Full trauma-informed ecosystem with specialized personnel and family support.", Impact: "Transformative", Tier: 3, Area: "psychosocial"},
		},
	},
	{
		ID:          "financial",
		Title:       "Financial Support",
		Description: "Economic assistance for refugee students and families.",
		Options: []PolicyOption{
			{ID: "f1", Title: "No Financial Assistance", Description: "No dedicated financial support for refugee education.", Impact: "Exclusionary", Tier: 1, Area: "financial"},
			{ID: "f2", Title: "Basic Needs Stipend", Description: "Provide stipends for school supplies and basic materials.", Impact: "Moderate Inclusion", Tier: 2, Area: "financial"},
			{ID: "f3", Title: "Comprehensive Support Package", Description: "Full scholarship program including family subsistence support.", Impact: "Transformative", Tier: 3, Area: "financial"},
		},
	},
	{
		ID:          "certification",
		Title:       "Certification/Accreditation",
		Description: "Recognition of prior learning and qualifications from home countries.",
		Options: []PolicyOption{
			{ID: "cr1", Title: "No Recognition", Description: "No recognition of prior education or qualifications.", Impact: "Exclusionary", Tier: 1, Area: "certification"},
			{ID: "cr2", Title: "Partial Recognition", Description: "Limited recognition of prior learning with extensive verification.", Impact: "Moderate Inclusion", Tier: 2, Area: "certification"},
			{ID: "cr3", Title: "Full Recognition System", Description: "Comprehensive system for validating and recognizing prior education.", Impact: "Transformative", Tier: 3, Area: "certification"},
		},
	},
}
