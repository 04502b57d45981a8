package response

type Project struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	DemoURL     *string  `json:"demoUrl,omitempty"`
	RepoURL     *string  `json:"repoUrl,omitempty"`
}

func (p Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ContactStatus is the outcome of a contact form submission as the visitor
// sees it.
type ContactStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
