package service

import (
	"regexp"
	"strings"

	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/tidwall/gjson"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)

	textSkillKeywords = []string{"python", "javascript", "react", "node", "sql", "aws", "docker", "git", "java", "css", "html"}
)

// NormalizeResume maps a document.resume prediction payload onto Resume.
// VLM.run has shipped several shapes for this domain, so each field is read
// from the first alias that carries a value. The second result is false when
// nothing usable was found.
func NormalizeResume(data gjson.Result) (model.Resume, bool) {
	if !data.IsObject() {
		return model.Resume{}, false
	}

	contact := data.Get("contact_info")
	r := model.Resume{
		PersonalInfo: model.PersonalInfo{
			FullName:  firstString(data, "contact_info.full_name", "name", "applicant_name", "contact_info.name"),
			Email:     firstString(data, "contact_info.email", "email", "email_address"),
			Phone:     firstString(data, "contact_info.phone", "phone", "phone_number", "contact_number"),
			Location:  firstString(data, "contact_info.address", "contact_info.location", "location", "address", "city"),
			LinkedIn:  firstString(data, "contact_info.linkedin", "linkedin", "linkedin_url"),
			GitHub:    firstString(data, "contact_info.github", "github", "github_url"),
			Portfolio: firstString(data, "contact_info.portfolio", "contact_info.website", "website", "portfolio"),
		},
		Experience:     experienceFrom(data),
		Education:      educationFrom(data),
		Skills:         skillsFrom(data),
		Certifications: certificationsFrom(data),
		Projects:       projectsFrom(data),
		Languages:      languagesFrom(data),
	}
	r.Normalize()
	if r.HasContent() {
		return r, true
	}

	if !contact.Exists() {
		text := firstString(data, "text", "content", "extracted_text")
		if len(text) > 50 {
			r = resumeFromText(text)
			r.Normalize()
			return r, r.HasContent()
		}
	}
	return r, false
}

func firstString(data gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := data.Get(p)
		if !v.Exists() || v.Type == gjson.Null || v.IsObject() || v.IsArray() {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return ""
}

// firstValue returns the first alias holding a non-empty value.
func firstValue(data gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		v := data.Get(p)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if v.IsArray() && len(v.Array()) == 0 {
			continue
		}
		if v.IsObject() && len(v.Map()) == 0 {
			continue
		}
		if v.Type == gjson.String && strings.TrimSpace(v.Str) == "" {
			continue
		}
		return v
	}
	return gjson.Result{}
}

func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// stringList reads either a JSON array of strings/objects or a delimited
// string. Objects contribute their first present name-like key.
func stringList(v gjson.Result, nameKeys ...string) []string {
	switch {
	case v.IsArray():
		out := []string{}
		for _, item := range v.Array() {
			if item.IsObject() {
				if s := firstString(item, nameKeys...); s != "" {
					out = append(out, s)
				}
				continue
			}
			if s := strings.TrimSpace(item.String()); s != "" && s != "None" {
				out = append(out, s)
			}
		}
		return out
	case v.Type == gjson.String:
		return splitList(v.Str)
	}
	return []string{}
}

func experienceFrom(data gjson.Result) []model.Experience {
	list := firstValue(data, "experience", "work_experience", "employment")
	out := []model.Experience{}
	if !list.IsArray() {
		return out
	}
	for _, e := range list.Array() {
		if !e.IsObject() {
			continue
		}
		duration := firstString(e, "duration", "dates", "period")
		start, end := firstString(e, "start_date"), firstString(e, "end_date")
		if duration == "" && start != "" && end != "" {
			duration = start + " - " + end
		}
		out = append(out, model.Experience{
			Position:     firstString(e, "position", "title", "job_title", "role"),
			Company:      firstString(e, "company", "employer", "organization"),
			Duration:     duration,
			Description:  firstString(e, "description", "responsibilities", "summary"),
			Achievements: stringList(firstValue(e, "achievements", "accomplishments"), "description", "text"),
		})
	}
	return out
}

func educationFrom(data gjson.Result) []model.Education {
	list := firstValue(data, "education", "academic_background")
	out := []model.Education{}
	if !list.IsArray() {
		return out
	}
	for _, e := range list.Array() {
		if !e.IsObject() {
			continue
		}
		out = append(out, model.Education{
			Degree:         firstString(e, "degree", "qualification"),
			Field:          firstString(e, "field", "major", "subject", "field_of_study"),
			Institution:    firstString(e, "institution", "school", "university"),
			GraduationYear: firstString(e, "year", "graduation_year", "graduation_date"),
			GPA:            firstString(e, "gpa", "grade"),
		})
	}
	return out
}

func skillsFrom(data gjson.Result) []string {
	v := firstValue(data, "skills", "technical_skills", "competencies")
	if !v.IsObject() {
		return stringList(v, "name", "skill", "technology")
	}

	// Categorised skills, e.g. {"languages": [...], "tools": "a, b"}.
	out := []string{}
	v.ForEach(func(_, group gjson.Result) bool {
		out = append(out, stringList(group, "name", "skill")...)
		return true
	})
	return out
}

func certificationsFrom(data gjson.Result) []model.Certification {
	list := firstValue(data, "certifications", "certificates")
	out := []model.Certification{}
	if !list.IsArray() {
		return out
	}
	for _, c := range list.Array() {
		switch {
		case c.IsObject():
			out = append(out, model.Certification{
				Name:   firstString(c, "name", "title", "certification"),
				Issuer: firstString(c, "issuer", "organization", "provider"),
				Date:   firstString(c, "date", "year", "issued_date"),
			})
		case c.Type == gjson.String && strings.TrimSpace(c.Str) != "":
			out = append(out, model.Certification{Name: strings.TrimSpace(c.Str)})
		}
	}
	return out
}

func projectsFrom(data gjson.Result) []model.Project {
	list := firstValue(data, "projects", "portfolio")
	out := []model.Project{}
	if !list.IsArray() {
		return out
	}
	for _, p := range list.Array() {
		if !p.IsObject() {
			continue
		}
		out = append(out, model.Project{
			Name:         firstString(p, "name", "title", "project_name"),
			Description:  firstString(p, "description", "summary", "details"),
			Technologies: stringList(firstValue(p, "technologies", "tech_stack", "tools"), "name"),
			URL:          firstString(p, "url", "link", "github", "github_url"),
		})
	}
	return out
}

func languagesFrom(data gjson.Result) []model.Language {
	list := data.Get("languages")
	out := []model.Language{}
	if !list.IsArray() {
		return out
	}
	for _, l := range list.Array() {
		switch {
		case l.IsObject():
			out = append(out, model.Language{
				Language:    firstString(l, "language", "name"),
				Proficiency: firstString(l, "proficiency", "level", "fluency"),
			})
		case l.Type == gjson.String && strings.TrimSpace(l.Str) != "":
			out = append(out, model.Language{Language: strings.TrimSpace(l.Str), Proficiency: "Not specified"})
		}
	}
	return out
}

// resumeFromText is the last resort when a prediction only carries raw text.
func resumeFromText(text string) model.Resume {
	var r model.Resume
	r.PersonalInfo.Email = emailPattern.FindString(text)
	r.PersonalInfo.Phone = phonePattern.FindString(text)

	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || emailPattern.MatchString(line) || phonePattern.MatchString(line) {
			continue
		}
		if len(strings.Fields(line)) <= 4 {
			r.PersonalInfo.FullName = line
			break
		}
	}

	lower := strings.ToLower(text)
	for _, kw := range textSkillKeywords {
		if strings.Contains(lower, kw) {
			r.Skills = append(r.Skills, strings.ToUpper(kw[:1])+kw[1:])
		}
	}
	return r
}
