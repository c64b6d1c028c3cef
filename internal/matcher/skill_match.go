// Package matcher compares a résumé's skills against a job description.
// Everything here is pure: no I/O, no clock, no randomness.
package matcher

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Category weights for the overall score. A category with no job skills
// hands its weight to the other one.
const (
	RequiredWeight  = 0.7
	PreferredWeight = 0.3
)

type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchPartial MatchType = "partial"
)

type SkillMatch struct {
	ResumeSkill string    `json:"resume_skill"`
	JobSkill    string    `json:"job_skill"`
	MatchType   MatchType `json:"match_type"`
}

type CategoryResult struct {
	Total           int          `json:"total"`
	Matched         int          `json:"matched"`
	MatchPercentage int          `json:"match_percentage"`
	ExactMatches    []SkillMatch `json:"exact_matches"`
	PartialMatches  []SkillMatch `json:"partial_matches"`
	Missing         []string     `json:"missing"`

	ratio float64
}

type Summary struct {
	StrongMatch bool `json:"strong_match"`
	GoodMatch   bool `json:"good_match"`
	FairMatch   bool `json:"fair_match"`
	WeakMatch   bool `json:"weak_match"`
}

type Result struct {
	OverallMatchPercentage int            `json:"overall_match_percentage"`
	RequiredSkills         CategoryResult `json:"required_skills"`
	PreferredSkills        CategoryResult `json:"preferred_skills"`
	ResumeSkills           []string       `json:"resume_skills"`
	AnalysisSummary        Summary        `json:"analysis_summary"`
}

type skill struct {
	raw string
	key string
}

// normalizer is not safe for concurrent use; build one per Match call.
type normalizer struct {
	fold cases.Caser
}

func newNormalizer() *normalizer {
	return &normalizer{fold: cases.Fold()}
}

func (n *normalizer) key(s string) string {
	s = norm.NFKC.String(s)
	s = n.fold.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// set trims, drops blanks and collapses duplicates by normalized key,
// keeping the first spelling and the input order.
func (n *normalizer) set(in []string) []skill {
	seen := make(map[string]struct{}, len(in))
	out := make([]skill, 0, len(in))
	for _, raw := range in {
		raw = strings.TrimSpace(raw)
		k := n.key(raw)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, skill{raw: raw, key: k})
	}
	return out
}

// Match scores resumeSkills against the required and preferred job skills.
//
// Each job skill is matched at most once: an exact match on the normalized
// form wins, otherwise the first résumé skill (in normalized order) that
// contains it or is contained in it is a partial match, otherwise it is
// missing.
func Match(resumeSkills, required, preferred []string) Result {
	n := newNormalizer()

	resume := n.set(resumeSkills)
	scan := make([]skill, len(resume))
	copy(scan, resume)
	sort.SliceStable(scan, func(i, j int) bool { return scan[i].key < scan[j].key })

	req := matchCategory(scan, n.set(required))
	pref := matchCategory(scan, n.set(preferred))

	overall := overallPercentage(req, pref)

	rawResume := make([]string, 0, len(resume))
	for _, s := range resume {
		rawResume = append(rawResume, s.raw)
	}

	return Result{
		OverallMatchPercentage: overall,
		RequiredSkills:         req,
		PreferredSkills:        pref,
		ResumeSkills:           rawResume,
		AnalysisSummary:        summarize(overall),
	}
}

func matchCategory(resume []skill, job []skill) CategoryResult {
	res := CategoryResult{
		Total:          len(job),
		ExactMatches:   []SkillMatch{},
		PartialMatches: []SkillMatch{},
		Missing:        []string{},
	}

	byKey := make(map[string]string, len(resume))
	for _, r := range resume {
		byKey[r.key] = r.raw
	}

	for _, j := range job {
		if raw, ok := byKey[j.key]; ok {
			res.ExactMatches = append(res.ExactMatches, SkillMatch{ResumeSkill: raw, JobSkill: j.raw, MatchType: MatchExact})
			continue
		}
		if r, ok := partialFor(resume, j); ok {
			res.PartialMatches = append(res.PartialMatches, SkillMatch{ResumeSkill: r.raw, JobSkill: j.raw, MatchType: MatchPartial})
			continue
		}
		res.Missing = append(res.Missing, j.raw)
	}

	res.Matched = len(res.ExactMatches) + len(res.PartialMatches)
	if res.Total > 0 {
		res.ratio = float64(res.Matched) / float64(res.Total)
		res.MatchPercentage = int(math.Round(res.ratio * 100))
	}
	return res
}

func partialFor(resume []skill, job skill) (skill, bool) {
	for _, r := range resume {
		if strings.Contains(r.key, job.key) || strings.Contains(job.key, r.key) {
			return r, true
		}
	}
	return skill{}, false
}

func overallPercentage(req, pref CategoryResult) int {
	switch {
	case req.Total == 0 && pref.Total == 0:
		return 0
	case req.Total == 0:
		return int(math.Round(pref.ratio * 100))
	case pref.Total == 0:
		return int(math.Round(req.ratio * 100))
	}
	return int(math.Round((req.ratio*RequiredWeight + pref.ratio*PreferredWeight) * 100))
}

func summarize(overall int) Summary {
	return Summary{
		StrongMatch: overall >= 80,
		GoodMatch:   overall >= 60 && overall < 80,
		FairMatch:   overall >= 40 && overall < 60,
		WeakMatch:   overall < 40,
	}
}
