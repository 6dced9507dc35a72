package types

// FeedResponse is the root structure returned by the Bluesky getFeed call.
// Only the fields the monitor consumes are declared.
type FeedResponse struct {
	Cursor string      `json:"cursor"`
	Feed   []FeedEntry `json:"feed"`
}

type FeedEntry struct {
	Post FeedPost `json:"post"`
}

type FeedPost struct {
	Author      FeedAuthor `json:"author"`
	URI         string     `json:"uri"`
	IndexedAt   string     `json:"indexedAt"`
	LikeCount   int        `json:"likeCount"`
	RepostCount int        `json:"repostCount"`
	ReplyCount  int        `json:"replyCount"`
	Record      FeedRecord `json:"record"`
}

type FeedAuthor struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
}

type FeedRecord struct {
	CreatedAt string      `json:"createdAt"`
	Text      string      `json:"text"`
	Facets    []FeedFacet `json:"facets,omitempty"`
}

// FeedFacet carries rich-text features such as hashtags.
type FeedFacet struct {
	Features []FeedFeature `json:"features"`
}

type FeedFeature struct {
	Type string `json:"$type"`
	Tag  string `json:"tag,omitempty"`
	URI  string `json:"uri,omitempty"`
}

// Hashtags collects the tag features attached to a record.
func (r FeedRecord) Hashtags() []string {
	var tags []string
	for _, facet := range r.Facets {
		for _, f := range facet.Features {
			if f.Tag != "" {
				tags = append(tags, f.Tag)
			}
		}
	}
	return tags
}
