package vk

// Photo is a single item of a photos.get response (extended=1)
type Photo struct {
	ID        int64       `json:"id"`
	OwnerID   int64       `json:"owner_id"`
	AlbumID   int64       `json:"album_id"`
	Date      int64       `json:"date"`
	Text      string      `json:"text,omitempty"`
	Likes     Likes       `json:"likes"`
	OrigPhoto *PhotoSize  `json:"orig_photo,omitempty"`
	Sizes     []PhotoSize `json:"sizes,omitempty"`
}

// Likes holds the like counter of a photo
type Likes struct {
	Count     int `json:"count"`
	UserLikes int `json:"user_likes"`
}

// PhotoSize is one rendition of a photo
type PhotoSize struct {
	Type   string `json:"type"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// OriginalURL returns the URL of the highest-resolution rendition.
// orig_photo wins; otherwise the largest entry of sizes is used.
func (p Photo) OriginalURL() string {
	if p.OrigPhoto != nil && p.OrigPhoto.URL != "" {
		return p.OrigPhoto.URL
	}

	var best *PhotoSize
	for i := range p.Sizes {
		s := &p.Sizes[i]
		if best == nil || s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	if best == nil {
		return ""
	}
	return best.URL
}

// PhotosPage is the "response" object of photos.get
type PhotosPage struct {
	Count int     `json:"count"`
	Items []Photo `json:"items"`
}

// APIError is the "error" object VK returns with HTTP 200
type APIError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

// envelope is the top-level body of every VK API method
type envelope struct {
	Response *PhotosPage `json:"response"`
	Error    *APIError   `json:"error"`
}
