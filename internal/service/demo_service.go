package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fadilmartias/resume-parser/internal/model"
)

// The demo services stand in for external collaborators that have no API key
// configured. Everything they return is flagged Demo.

type DemoResumeExtractor struct{}

func NewDemoResumeExtractor() *DemoResumeExtractor {
	return &DemoResumeExtractor{}
}

func (DemoResumeExtractor) Extract(ctx context.Context, filename string, content []byte) (model.Resume, error) {
	if err := ctx.Err(); err != nil {
		return model.Resume{}, err
	}
	return DemoResume(), nil
}

// DemoResume is the fixed demonstration payload.
func DemoResume() model.Resume {
	r := model.Resume{
		PersonalInfo: model.PersonalInfo{
			FullName:  "Sarah Johnson",
			Email:     "sarah.johnson@email.com",
			Phone:     "+1-555-0123",
			Location:  "San Francisco, CA",
			LinkedIn:  "linkedin.com/in/sarahjohnson",
			GitHub:    "github.com/sarahjohnson",
			Portfolio: "sarahjohnson.dev",
		},
		Experience: []model.Experience{
			{
				Company:     "Tech Innovations Inc",
				Position:    "Senior Software Engineer",
				Duration:    "2022 - Present",
				Description: "Lead development of scalable web applications using React, Node.js, and AWS cloud services. Mentor junior developers and collaborate with cross-functional teams.",
				Achievements: []string{
					"Improved application performance by 40% through code optimization",
					"Led a team of 5 developers on a major product redesign",
					"Implemented CI/CD pipeline reducing deployment time by 60%",
				},
			},
			{
				Company:     "StartupXYZ",
				Position:    "Full Stack Developer",
				Duration:    "2020 - 2022",
				Description: "Developed and maintained full-stack applications using Python/Django and React. Worked in fast-paced startup environment.",
				Achievements: []string{
					"Built MVP from scratch serving 10,000+ users",
					"Reduced API response time by 50%",
				},
			},
		},
		Education: []model.Education{
			{
				Institution:    "University of California, Berkeley",
				Degree:         "Bachelor of Science",
				Field:          "Computer Science",
				GraduationYear: "2020",
				GPA:            "3.8",
			},
		},
		Skills: []string{
			"Python", "JavaScript", "React", "Node.js", "Django", "FastAPI",
			"PostgreSQL", "MongoDB", "AWS", "Docker", "Git", "TypeScript",
			"REST APIs", "GraphQL", "Redis", "Kubernetes",
		},
		Certifications: []model.Certification{
			{Name: "AWS Solutions Architect Associate", Issuer: "Amazon Web Services", Date: "2023"},
			{Name: "Certified Kubernetes Administrator", Issuer: "Cloud Native Computing Foundation", Date: "2022"},
		},
		Projects: []model.Project{
			{
				Name:         "AI Resume Parser",
				Description:  "Full-stack application that uses AI to parse resumes and provide career insights. Built with Next.js, FastAPI, and OpenAI API.",
				Technologies: []string{"Next.js", "TypeScript", "FastAPI", "Python", "OpenAI API", "PostgreSQL"},
				URL:          "github.com/sarahjohnson/ai-resume-parser",
			},
			{
				Name:         "E-commerce Platform",
				Description:  "Scalable e-commerce solution with real-time inventory management and payment processing.",
				Technologies: []string{"React", "Node.js", "Express", "MongoDB", "Stripe API"},
				URL:          "github.com/sarahjohnson/ecommerce-platform",
			},
		},
		Languages: []model.Language{
			{Language: "English", Proficiency: "Native"},
			{Language: "Spanish", Proficiency: "Conversational"},
			{Language: "French", Proficiency: "Basic"},
		},
		Demo: true,
	}
	r.Normalize()
	return r
}

// DemoChatService answers from keyword rules over the résumé.
type DemoChatService struct{}

func NewDemoChatService() *DemoChatService {
	return &DemoChatService{}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func (DemoChatService) Reply(ctx context.Context, resume model.Resume, history []model.ChatMessage, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lower := strings.ToLower(message)
	name := resume.PersonalInfo.FullName
	if name == "" {
		name = "your"
	}
	skills := resume.Skills

	switch {
	case containsAny(lower, "hello", "hi", "hey") && len(strings.Fields(message)) <= 3:
		return fmt.Sprintf("Hello! I'm here to help you analyze %s's resume and provide career guidance. I can see you have %d technical skills listed and %d work experiences. What would you like to know about the resume or career development?",
			name, len(skills), len(resume.Experience)), nil

	case containsAny(lower, "strength", "strong", "good", "positive"):
		if len(skills) == 0 {
			return "I'd be happy to analyze the strengths of this resume! Could you share the resume data so I can provide more specific feedback?", nil
		}
		top := skills
		more := ""
		if len(top) > 3 {
			top, more = top[:3], "..."
		}
		return fmt.Sprintf("Based on %s's resume, I can see several strengths:\n\n• **Technical Skills**: You have a solid foundation with %s%s\n• **Experience**: %d work experiences show professional growth\n• **Project Portfolio**: The projects demonstrate practical application of skills\n\nThese are valuable assets in today's competitive job market!",
			name, strings.Join(top, ", "), more, len(resume.Experience)), nil

	case containsAny(lower, "improve", "better", "enhance", "weakness"):
		return fmt.Sprintf("Here are some areas where %s's resume could be enhanced:\n\n• **Skills Section**: Consider adding more specific technologies or frameworks\n• **Project Descriptions**: Include quantifiable results and impact\n• **Certifications**: Industry certifications can strengthen credibility\n• **Keywords**: Optimize for ATS systems with relevant industry terms\n\nWould you like me to elaborate on any of these areas?", name), nil

	case containsAny(lower, "skill", "technology", "learn"):
		return fmt.Sprintf("Based on current market trends and %s's background, I'd recommend focusing on:\n\n• **Cloud Technologies**: AWS, Azure, or Google Cloud\n• **DevOps Tools**: Docker, Kubernetes, CI/CD pipelines\n• **Modern Frameworks**: React, Node.js, or similar based on your field\n• **Data Skills**: SQL, Python for data analysis\n\nWhich area interests you most for skill development?", name), nil

	case containsAny(lower, "interview", "prepare", "question"):
		return fmt.Sprintf("Great question! Based on %s's background, here are key interview areas to prepare:\n\n• **Technical Questions**: Be ready to explain your projects in detail\n• **Behavioral Questions**: Prepare STAR method examples\n• **Problem-Solving**: Practice coding challenges or case studies\n• **Company Research**: Know the role requirements and company culture\n\nWould you like me to suggest specific questions for any of these areas?", name), nil

	case containsAny(lower, "project", "portfolio", "build"):
		return fmt.Sprintf("Excellent! Building projects is crucial for career development. Here are project ideas that align with %s's skills:\n\n• **Full-Stack Application**: Combine frontend and backend technologies\n• **API Development**: Build and document a RESTful API\n• **Data Visualization**: Create interactive dashboards\n• **Open Source Contribution**: Contribute to existing projects\n\nFocus on projects that solve real problems and showcase your best skills!", name), nil
	}

	return fmt.Sprintf("I'm currently running in **demo mode** (no chat model configured), but I can still help analyze %s's resume!\n\nBased on your question: %q\n\nI can provide guidance on:\n• Resume analysis and improvements\n• Skill recommendations\n• Interview preparation tips\n• Project suggestions\n• Career development advice\n\nWhat specific aspect of the resume would you like me to focus on?", name, message), nil
}

// DemoJobParser builds a job description from keyword detection alone.
type DemoJobParser struct{}

func NewDemoJobParser() *DemoJobParser {
	return &DemoJobParser{}
}

type skillKeyword struct {
	keyword string
	skill   string
}

var demoSkillKeywords = []skillKeyword{
	{"python", "Python"}, {"javascript", "JavaScript"}, {"java", "Java"},
	{"react", "React"}, {"angular", "Angular"}, {"vue", "Vue.js"},
	{"node", "Node.js"}, {"express", "Express.js"}, {"django", "Django"},
	{"flask", "Flask"}, {"sql", "SQL"}, {"postgresql", "PostgreSQL"},
	{"mysql", "MySQL"}, {"mongodb", "MongoDB"}, {"redis", "Redis"},
	{"docker", "Docker"}, {"kubernetes", "Kubernetes"}, {"aws", "AWS"},
	{"azure", "Azure"}, {"gcp", "Google Cloud"}, {"git", "Git"},
	{"ci/cd", "CI/CD"}, {"jenkins", "Jenkins"}, {"terraform", "Terraform"},
	{"typescript", "TypeScript"}, {"html", "HTML"}, {"css", "CSS"},
	{"sass", "SASS"}, {"webpack", "Webpack"}, {"babel", "Babel"},
	{"rest", "REST APIs"}, {"graphql", "GraphQL"}, {"microservices", "Microservices"},
}

func demoJobTitle(lower string) string {
	engineer := strings.Contains(lower, "developer") || strings.Contains(lower, "engineer")
	switch {
	case strings.Contains(lower, "senior") && engineer:
		return "Senior Software Engineer"
	case strings.Contains(lower, "junior") && engineer:
		return "Junior Software Engineer"
	case containsAny(lower, "lead", "principal"):
		return "Lead Software Engineer"
	case containsAny(lower, "frontend", "front-end"):
		return "Frontend Developer"
	case containsAny(lower, "backend", "back-end"):
		return "Backend Developer"
	case containsAny(lower, "fullstack", "full-stack"):
		return "Full Stack Developer"
	case strings.Contains(lower, "data") && strings.Contains(lower, "scientist"):
		return "Data Scientist"
	case strings.Contains(lower, "devops"):
		return "DevOps Engineer"
	}
	return "Software Engineer"
}

func (DemoJobParser) ParseJobDescription(ctx context.Context, text string) (model.JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return model.JobDescription{}, err
	}
	lower := strings.ToLower(text)

	var detected []string
	for _, kw := range demoSkillKeywords {
		if strings.Contains(lower, kw.keyword) {
			detected = append(detected, kw.skill)
		}
	}
	if len(detected) == 0 {
		detected = []string{"JavaScript", "Python", "React", "Node.js", "SQL", "Git"}
	}

	var required, preferred []string
	if mid := len(detected) / 2; mid > 0 {
		required, preferred = detected[:mid], detected[mid:]
	} else {
		required, preferred = detected, []string{"Docker", "AWS", "TypeScript"}
	}

	top := required
	if len(top) > 3 {
		top = top[:3]
	}

	jd := model.JobDescription{
		JobTitle:        demoJobTitle(lower),
		Company:         "[Demo Mode - Company Name]",
		RequiredSkills:  required,
		PreferredSkills: preferred,
		ExperienceLevel: "Mid-level",
		Description: fmt.Sprintf("**[DEMO MODE]** This is a keyword-based analysis of the job description. "+
			"The original text contained %d characters. Configure a language model for a full analysis.", len(text)),
		Responsibilities: []string{
			"[Demo] Develop and maintain software applications",
			"[Demo] Collaborate with cross-functional teams",
			"[Demo] Write clean, maintainable code",
			"[Demo] Participate in code reviews",
		},
		Qualifications: []string{
			fmt.Sprintf("[Demo] Experience with %s", strings.Join(top, ", ")),
			"[Demo] Strong problem-solving skills",
			"[Demo] Bachelor's degree in Computer Science or related field",
			"[Demo] Excellent communication skills",
		},
		Demo: true,
	}
	jd.Normalize()
	return jd, nil
}
