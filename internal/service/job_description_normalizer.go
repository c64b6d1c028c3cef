package service

import (
	"errors"
	"strings"

	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/tidwall/gjson"
)

var errInvalidJobJSON = errors.New("model did not return a JSON object")

// parseJobDescriptionJSON reads the JSON an LLM produced for
// jobDescriptionPrompt. Markdown code fences around the object are tolerated.
func parseJobDescriptionJSON(content string) (model.JobDescription, error) {
	content = stripCodeFence(content)
	if !gjson.Valid(content) {
		return model.JobDescription{}, errInvalidJobJSON
	}
	data := gjson.Parse(content)
	if !data.IsObject() {
		return model.JobDescription{}, errInvalidJobJSON
	}

	jd := model.JobDescription{
		JobTitle:         firstString(data, "job_title", "title"),
		Company:          firstString(data, "company", "company_name"),
		RequiredSkills:   stringList(firstValue(data, "required_skills", "skills"), "name", "skill"),
		PreferredSkills:  stringList(firstValue(data, "preferred_skills", "nice_to_have"), "name", "skill"),
		ExperienceLevel:  firstString(data, "experience_level", "seniority"),
		Description:      firstString(data, "description", "summary"),
		Responsibilities: stringList(data.Get("responsibilities"), "description"),
		Qualifications:   stringList(data.Get("qualifications"), "description"),
	}
	jd.Normalize()
	return jd, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
