package aula

// A Video is a lesson students watch from their dashboard.
type Video struct {
	Model
	Title string `json:"title"`
	URL   string `json:"url"`
}

// An Exam is a link to an external assessment students complete.
type Exam struct {
	Model
	Link  string `json:"link"`
	Title string `json:"title"`
}
