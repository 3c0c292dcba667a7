// Package departments holds the canonical department labels shown in the
// feed filter and helpers to map free text onto them.
package departments

import (
	"strings"
)

// Canonical lists the labels the clients offer, in display order.
var Canonical = []string{
	"Human Resources (HR)",
	"Marketing",
	"Public Relations (PR)",
	"Sales",
	"Legal Department",
	"IT",
	"Supply Chain",
	"Data Analytics",
	"Product Management",
	"Software Development",
}

var canonicalLower = func() map[string]string {
	m := make(map[string]string, len(Canonical))
	for _, d := range Canonical {
		m[strings.ToLower(d)] = d
	}
	return m
}()

var synonyms = map[string]string{
	"hr":                   "Human Resources (HR)",
	"human resources":      "Human Resources (HR)",
	"pr":                   "Public Relations (PR)",
	"public relations":     "Public Relations (PR)",
	"legal":                "Legal Department",
	"data":                 "Data Analytics",
	"product":              "Product Management",
	"software":             "Software Development",
	"software development": "Software Development",
}

// Normalize maps value onto its canonical label when it is a known label or
// synonym (case-insensitive). Blank input and "all" yield "". Unknown values
// are returned trimmed.
func Normalize(value string) string {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" || strings.EqualFold(cleaned, "all") {
		return ""
	}
	lower := strings.ToLower(cleaned)
	if d, ok := canonicalLower[lower]; ok {
		return d
	}
	if d, ok := synonyms[lower]; ok {
		return d
	}
	return cleaned
}

// IsCanonical reports whether value is exactly one of the canonical labels.
func IsCanonical(value string) bool {
	for _, d := range Canonical {
		if d == value {
			return true
		}
	}
	return false
}

// Confidence of a guess, from 1 (low) to 3 (high).
type Confidence int

const (
	Low    Confidence = 1
	Medium Confidence = 2
	High   Confidence = 3
)

// Guess is a department inferred from post text.
type Guess struct {
	Department string
	Confidence Confidence
}

type rule struct {
	department string
	confidence Confidence
	match      func(hay string) bool
}

func containsAny(needles ...string) func(string) bool {
	return func(hay string) bool {
		for _, n := range needles {
			if strings.Contains(hay, n) {
				return true
			}
		}
		return false
	}
}

// Rules are evaluated in order; the first match wins.
var rules = []rule{
	{"Legal Department", High, containsAny("gdpr", "compliance", "legal", "law")},
	{"Human Resources (HR)", High, containsAny("human resources", "people operations", "recruit", "talent", "hr ", " hr")},
	{"Marketing", High, containsAny("social media", "marketing", "brand communication")},
	{"Marketing", Medium, containsAny("brand", "campaign")},
	{"Public Relations (PR)", High, containsAny("public relations", " pr ", "communications", "press")},
	{"Public Relations (PR)", High, func(hay string) bool {
		return containsAny("media", "events")(hay) && strings.Contains(hay, "pr")
	}},
	{"Product Management", High, containsAny("product management", "product manager", "product analyst")},
	{"Product Management", Medium, func(hay string) bool {
		return strings.Contains(hay, "product ") || strings.HasPrefix(hay, "product")
	}},
	{"Sales", High, containsAny("business development", "sales", "crm", "leads", "pipeline", "bd ")},
	{"Supply Chain", High, containsAny("supply chain", "logistics", "procurement", "warehouse")},
	{"IT", High, containsAny("information technology", "helpdesk", "sysadmin", "network", "it ", " it")},
	{"Software Development", High, containsAny("backend", "frontend", "fullstack", "flutter", "react", "typescript", "fastapi", "qa", "automation", "devops")},
	{"Software Development", Medium, containsAny("software", "engineering", "developer", "mobile")},
	{"Data Analytics", High, containsAny("business intelligence", "etl", "computer vision", "machine learning")},
	{"Data Analytics", Medium, containsAny("data", "analytics", "bi")},
}

// GuessFromText infers a canonical department from a post title and
// description. ok is false when nothing matched.
func GuessFromText(title, description string) (Guess, bool) {
	hay := strings.ToLower(strings.Join(strings.Fields(title+" "+description), " "))
	if hay == "" {
		return Guess{}, false
	}
	for _, r := range rules {
		if r.match(hay) {
			return Guess{Department: r.department, Confidence: r.confidence}, true
		}
	}
	return Guess{}, false
}
