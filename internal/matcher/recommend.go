package matcher

import "fmt"

const maxSuggestedSkills = 5

type Recommendations struct {
	OverallAssessment string   `json:"overall_assessment"`
	PrioritySkills    []string `json:"priority_skills"`
	NiceToHaveSkills  []string `json:"nice_to_have_skills"`
	ActionItems       []string `json:"action_items"`
}

// Recommend turns a match result into advice for the candidate.
func Recommend(r Result) Recommendations {
	rec := Recommendations{
		PrioritySkills:   head(r.RequiredSkills.Missing, maxSuggestedSkills),
		NiceToHaveSkills: head(r.PreferredSkills.Missing, maxSuggestedSkills),
		ActionItems:      []string{},
	}

	switch {
	case r.OverallMatchPercentage >= 80:
		rec.OverallAssessment = "Excellent match! You have most of the required skills for this position."
	case r.OverallMatchPercentage >= 60:
		rec.OverallAssessment = "Good match! You meet many requirements but could strengthen a few areas."
	case r.OverallMatchPercentage >= 40:
		rec.OverallAssessment = "Fair match. Consider developing additional skills before applying."
	default:
		rec.OverallAssessment = "Limited match. Significant skill development needed for this role."
	}

	if n := len(r.RequiredSkills.Missing); n > 0 {
		rec.ActionItems = append(rec.ActionItems, fmt.Sprintf("Focus on learning %d missing required skills", n))
	}
	if n := len(r.PreferredSkills.Missing); n > 0 {
		rec.ActionItems = append(rec.ActionItems, fmt.Sprintf("Consider learning %d preferred skills to stand out", n))
	}
	if r.OverallMatchPercentage >= 70 {
		rec.ActionItems = append(rec.ActionItems, "You're a strong candidate - consider applying!")
	}
	return rec
}

func head(s []string, n int) []string {
	if len(s) < n {
		n = len(s)
	}
	out := make([]string, n)
	copy(out, s[:n])
	return out
}
