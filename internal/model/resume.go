package model

import (
	"fmt"
	"strings"
)

type PersonalInfo struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Portfolio string `json:"portfolio"`
}

type Experience struct {
	Position     string   `json:"position"`
	Company      string   `json:"company"`
	Duration     string   `json:"duration"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

type Education struct {
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	Institution    string `json:"institution"`
	GraduationYear string `json:"graduation_year"`
	GPA            string `json:"gpa"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url"`
}

type Language struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// Resume is the canonical extracted form of an uploaded résumé.
type Resume struct {
	PersonalInfo   PersonalInfo    `json:"personal_info"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         []string        `json:"skills"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
	Languages      []Language      `json:"languages"`
	Demo           bool            `json:"demo"`
}

// Normalize replaces nil lists with empty ones and reduces Skills to a set.
func (r *Resume) Normalize() {
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	for i := range r.Experience {
		if r.Experience[i].Achievements == nil {
			r.Experience[i].Achievements = []string{}
		}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	r.Skills = UniqueStrings(r.Skills)
	if r.Certifications == nil {
		r.Certifications = []Certification{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	for i := range r.Projects {
		if r.Projects[i].Technologies == nil {
			r.Projects[i].Technologies = []string{}
		}
	}
	if r.Languages == nil {
		r.Languages = []Language{}
	}
}

// HasContent reports whether extraction produced anything worth keeping.
func (r *Resume) HasContent() bool {
	return r.PersonalInfo.FullName != "" ||
		r.PersonalInfo.Email != "" ||
		len(r.Experience) > 0 ||
		len(r.Education) > 0 ||
		len(r.Skills) > 0
}

// ContextText renders the résumé as plain text for LLM prompts and embeddings.
func (r *Resume) ContextText() string {
	var b strings.Builder
	p := r.PersonalInfo
	b.WriteString("Personal Information:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orNA(p.FullName))
	fmt.Fprintf(&b, "- Email: %s\n", orNA(p.Email))
	fmt.Fprintf(&b, "- Phone: %s\n", orNA(p.Phone))
	fmt.Fprintf(&b, "- Location: %s\n", orNA(p.Location))

	b.WriteString("\nExperience:\n")
	for _, e := range r.Experience {
		fmt.Fprintf(&b, "- %s at %s (%s)\n", orNA(e.Position), orNA(e.Company), orNA(e.Duration))
	}

	b.WriteString("\nEducation:\n")
	for _, e := range r.Education {
		fmt.Fprintf(&b, "- %s in %s from %s\n", orNA(e.Degree), orNA(e.Field), orNA(e.Institution))
	}

	fmt.Fprintf(&b, "\nSkills: %s\n", strings.Join(r.Skills, ", "))

	if len(r.Projects) > 0 {
		b.WriteString("\nProjects:\n")
		for _, p := range r.Projects {
			fmt.Fprintf(&b, "- %s: %s\n", orNA(p.Name), orNA(p.Description))
		}
	}
	return b.String()
}

// UniqueStrings trims entries, drops blanks and case-insensitive duplicates,
// keeping the first spelling. The result is never nil.
func UniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
