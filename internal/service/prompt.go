package service

import (
	"fmt"

	"github.com/fadilmartias/resume-parser/internal/model"
)

const jobParserSystemPrompt = "You are an expert at parsing job descriptions and extracting structured information. Always return valid JSON."

func chatSystemPrompt(resume model.Resume) string {
	return fmt.Sprintf(`You are a helpful AI assistant that specializes in analyzing resumes and providing career advice.

Here is the resume data for context:

%s
You can help with:
- Analyzing the resume for strengths and weaknesses
- Suggesting improvements to specific sections
- Identifying missing skills or experiences
- Providing interview preparation tips
- Comparing qualifications to job requirements
- Career guidance and next steps

Be conversational, helpful, and specific in your responses. Use the resume data to provide personalized advice.`, resume.ContextText())
}

func jobDescriptionPrompt(text string) string {
	return fmt.Sprintf(`Parse the following job description and extract structured information in JSON format.

Job Description:
%s

Return a JSON object with the following structure:
{
	"job_title": "extracted job title",
	"company": "company name if mentioned",
	"required_skills": ["skill1", "skill2", "skill3"],
	"preferred_skills": ["preferred_skill1", "preferred_skill2"],
	"experience_level": "entry/mid/senior level",
	"description": "brief summary of the role",
	"responsibilities": ["responsibility1", "responsibility2"],
	"qualifications": ["qualification1", "qualification2"]
}

Focus on extracting technical skills, programming languages, frameworks, tools, and relevant technologies.
Return only the JSON object, no additional text.`, text)
}
