package model

type Post struct {
	ID     string   `json:"id"`
	UserID string   `json:"userId"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Date   string   `json:"date"`
	Tags   []string `json:"tags"`
}

// PagedPosts is one page of posts as returned by the posts API.
// It is a snapshot and is refetched after every mutation or page change.
type PagedPosts struct {
	Data       []Post `json:"data"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
	TotalPosts int    `json:"totalPosts"`
}

func (p *PagedPosts) FindByID(id string) (*Post, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.Data {
		if p.Data[i].ID == id {
			return &p.Data[i], true
		}
	}
	return nil, false
}
