package domain

type Book struct {
	ID               int32  `json:"id"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	Pages            int32  `json:"pages"`
	CoverURL         string `json:"cover_url"`
	OLID             string `json:"olid"`
	FirstPublishYear *int32 `json:"first_publish_year,omitempty"`
}

// BookInfo is catalog metadata fetched from the remote book database,
// before a local Book row exists for it.
type BookInfo struct {
	Title            string `json:"title"`
	Author           string `json:"author"`
	Pages            int32  `json:"pages"`
	CoverURL         string `json:"cover_url"`
	OLID             string `json:"olid"`
	FirstPublishYear *int32 `json:"first_publish_year,omitempty"`
}
