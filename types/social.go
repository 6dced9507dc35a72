package types

// Engagement holds interaction counts for a social media post.
type Engagement struct {
	Likes    int `json:"likes"`
	Shares   int `json:"shares"`
	Comments int `json:"comments"`
}

// SocialMediaPost is an immutable snapshot of a post pulled from a monitored
// platform. The analyzer never mutates it.
type SocialMediaPost struct {
	ID         string      `json:"id"`
	Content    string      `json:"content"`
	Platform   string      `json:"platform"`
	Username   string      `json:"username"`
	Timestamp  string      `json:"timestamp"`
	Hashtags   []string    `json:"hashtags"`
	Location   string      `json:"location,omitempty"`
	Engagement *Engagement `json:"engagement,omitempty"`
}

// SentimentAnalysis is the combined AI + rule-based judgment for one post.
type SentimentAnalysis struct {
	Sentiment      Sentiment   `json:"sentiment"`
	Confidence     float64     `json:"confidence"`   // 0-1
	UrgencyScore   int         `json:"urgencyScore"` // 0-100
	Emotions       []string    `json:"emotions"`     // at most 5
	Keywords       []string    `json:"keywords"`     // at most 10
	ThreatLevel    ThreatLevel `json:"threatLevel"`
	ActionRequired bool        `json:"actionRequired"`
	Summary        string      `json:"summary"`
}

// AnalyzedPost pairs a post with its analysis for storage and display.
type AnalyzedPost struct {
	Post     SocialMediaPost   `json:"post"`
	Analysis SentimentAnalysis `json:"analysis"`
}
