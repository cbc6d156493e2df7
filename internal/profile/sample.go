package profile

// Sample returns a representative profile used for trial runs and demos.
func Sample() *Profile {
	return &Profile{
		CurrentTitle:    "Senior Software Engineer",
		YearsExperience: 5,
		Background: "• Software Engineer at TechCorp (2019-2023) - San Francisco, CA\n" +
			"  - Scalable Microservices Architecture: moved a monolith serving 1M+ users to " +
			"Python/Django microservices on AWS, cutting latency by 40%\n" +
			"  - ML Recommendation System: built a TensorFlow recommendation pipeline serving " +
			"100K+ users with a 25% click-through increase\n" +
			"• Full-Stack Developer at StartupXYZ (2017-2019) - Remote\n" +
			"  - E-commerce Platform: React frontend and Node.js backend handling $2M+ in " +
			"first-year transactions\n" +
			"  - CI/CD Pipelines: Jenkins and Docker automation, deployment time from 4 hours to 15 minutes",
		Languages:      []string{"Python", "JavaScript", "TypeScript", "SQL", "Go"},
		Technologies:   []string{"React", "Node.js", "Django", "FastAPI", "PostgreSQL", "Redis", "REST APIs", "GraphQL", "Machine Learning", "TensorFlow"},
		Infrastructure: []string{"AWS", "Docker", "Kubernetes", "Git", "CI/CD", "Terraform", "Linux", "Nginx", "Monitoring"},
		Education:      "Bachelor's in Computer Science",
		TargetRoles:    []string{"Senior Software Engineer", "Staff Software Engineer", "Technical Lead"},
		MatchGoal: "Find a senior engineering role at a fast-growing tech company with opportunities " +
			"to lead technical initiatives and work with cutting-edge technologies",
		LocationPreferences: []string{"Remote", "San Francisco", "Seattle", "New York"},
		SalaryRange:         "$150,000 - $220,000",
		WorkPreferences:     []string{"Remote", "Hybrid"},
	}
}
