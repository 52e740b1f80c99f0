package dto

// PostRequest is the body of both create and edit calls.
// Tags must never be nil so that an empty selection is sent as [].
type PostRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

func NewPostRequest(title, body string, tags []string) PostRequest {
	if tags == nil {
		tags = []string{}
	}
	return PostRequest{
		Title: title,
		Body:  body,
		Tags:  tags,
	}
}
