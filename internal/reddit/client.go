package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/letieu/ideadb/internal/database"
)

// Source is the source_items.source value for everything fetched here.
const Source = "reddit"

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
}

type Post struct {
	ID        string
	Title     string
	Content   string
	Author    string
	Subreddit string
	URL       string
	Score     int
	CreatedAt time.Time
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Body       string  `json:"body"`
	Author     string  `json:"author"`
	Subreddit  string  `json:"subreddit"`
	Permalink  string  `json:"permalink"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}

// NewClient using public Reddit API
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		userAgent:  "linux:ideadb-importer:v1.0.0",
		baseURL:    "https://www.reddit.com",
	}
}

// FetchPosts returns the newest posts of a subreddit.
func (r *Client) FetchPosts(ctx context.Context, subreddit string, limit int) ([]Post, error) {
	var listing listingResponse
	if err := r.get(ctx, fmt.Sprintf("/r/%s/new.json?limit=%d", subreddit, limit), &listing); err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(listing.Data.Children))
	for _, c := range listing.Data.Children {
		posts = append(posts, toPost(c.Data, c.Data.Selftext, c.Data.Subreddit))
	}
	return posts, nil
}

// FetchComments returns the top level comments of a post, leaving out
// deleted and removed ones.
func (r *Client) FetchComments(ctx context.Context, subreddit, postID string) ([]Post, error) {
	var data []listingResponse
	if err := r.get(ctx, fmt.Sprintf("/r/%s/comments/%s.json", subreddit, postID), &data); err != nil {
		return nil, err
	}
	if len(data) < 2 {
		return []Post{}, nil
	}

	comments := []Post{}
	for _, c := range data[1].Data.Children {
		p := c.Data
		if p.Body == "" || p.Body == "[deleted]" || p.Body == "[removed]" {
			continue
		}
		comments = append(comments, toPost(p, p.Body, subreddit))
	}
	return comments, nil
}

func (r *Client) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("reddit error %d: %s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}

func toPost(p redditPost, content, subreddit string) Post {
	return Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   content,
		Author:    p.Author,
		Subreddit: subreddit,
		URL:       "https://reddit.com" + p.Permalink,
		Score:     p.Score,
		CreatedAt: time.Unix(int64(p.CreatedUTC), 0).UTC(),
	}
}

// SourceItem converts a post into a source item. Attach it to a problem or
// an idea before storing.
func (p Post) SourceItem() database.SourceItem {
	created := p.CreatedAt
	return database.SourceItem{
		Source:          Source,
		SourceItemID:    p.ID,
		Title:           p.Title,
		Content:         p.Content,
		Author:          p.Author,
		URL:             p.URL,
		Score:           p.Score,
		SourceCreatedAt: &created,
	}
}
