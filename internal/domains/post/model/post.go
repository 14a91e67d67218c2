package model

// Post is one news post. It mirrors the persisted document exactly:
// PostDate and EditDate are stored as strings in timefmt.Layout and are
// deliberately not validated on read (legacy records may hold garbage,
// the feed sorter tolerates that).
type Post struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"` // empty means no image
	Author      string `json:"author"`
	UserID      string `json:"userId"`
	PostDate    string `json:"postDate"`
	Edited      bool   `json:"edited"`
	EditDate    string `json:"editDate,omitempty"` // empty until first edit
}

// HasImage reports whether the post references a blob in the asset store.
func (p *Post) HasImage() bool {
	return p.ImageURL != ""
}

// PostUpdate is the partial write the coordinator sends to the record store
// on a successful edit. ID, Author, UserID and PostDate are never part of
// it: identity and authorship are set once at creation.
type PostUpdate struct {
	Title       string
	Category    string
	Description string
	ImageURL    string // empty clears the image reference
	Edited      bool
	EditDate    string
}

// AnonymousAuthor is the author name stored when a post is published
// anonymously.
const AnonymousAuthor = "Anonymous"

// Categories is the closed set of post categories the app offers.
var Categories = []string{
	"Business", "Crime", "Editorials", "Political", "Sports",
	"Social", "International", "Technology", "Health", "Education",
	"Environment", "Art & Culture", "Science", "Lifestyle", "Travel",
}
