package model

// JobDescription is the structured form of an uploaded job posting.
type JobDescription struct {
	JobTitle         string   `json:"job_title"`
	Company          string   `json:"company"`
	RequiredSkills   []string `json:"required_skills"`
	PreferredSkills  []string `json:"preferred_skills"`
	ExperienceLevel  string   `json:"experience_level"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	Qualifications   []string `json:"qualifications"`
	Demo             bool     `json:"demo"`
}

func (j *JobDescription) Normalize() {
	j.RequiredSkills = UniqueStrings(j.RequiredSkills)
	j.PreferredSkills = UniqueStrings(j.PreferredSkills)
	if j.Responsibilities == nil {
		j.Responsibilities = []string{}
	}
	if j.Qualifications == nil {
		j.Qualifications = []string{}
	}
}
