package data

import "strings"

// PostMarker is the prefix a commit summary needs to be published as a post.
const PostMarker = "POST: "

// ShortIDLength is the number of hash characters used to name a post.
const ShortIDLength = 7

// CommitContent is the part of a commit message relevant for publishing.
type CommitContent struct {
	Summary string
	Body    string
}

// HasSummary reports whether the commit message had any non-blank content.
func (c CommitContent) HasSummary() bool {
	return c.Summary != ""
}

// Post is a single published blog entry.
type Post struct {
	ShortID    string
	Title      string
	Paragraphs []string
}

// Entry returns the index projection of the post.
func (p Post) Entry() IndexEntry {
	return IndexEntry{
		Title:   p.Title,
		ShortID: p.ShortID,
	}
}

// IndexEntry is one line of the posts index.
type IndexEntry struct {
	Title   string
	ShortID string
}

// gitSpace lists the characters Git treats as whitespace in commit messages.
const gitSpace = " \t\n\v\f\r"

// ParseMessage splits a raw commit message into summary and body.
//
// The first paragraph ends at the first empty line. Its whitespace runs which
// contain a line break are collapsed into a single space to form the summary.
// The body is everything after the first paragraph with surrounding
// whitespace removed.
func ParseMessage(message string) CommitContent {
	message = strings.TrimLeft(message, "\n")
	end := paragraphEnd(message)

	return CommitContent{
		Summary: summarize(message[:end]),
		Body:    strings.Trim(message[end:], gitSpace),
	}
}

func paragraphEnd(message string) int {
	for i := 0; i < len(message); i++ {
		if message[i] == '\n' && (i+1 == len(message) || message[i+1] == '\n') {
			return i
		}
	}

	return len(message)
}

func summarize(paragraph string) string {
	b := &strings.Builder{}
	space := -1
	for i := 0; i < len(paragraph); i++ {
		if strings.IndexByte(gitSpace, paragraph[i]) >= 0 {
			if space < 0 {
				space = i
			}
			continue
		}

		if space >= 0 {
			run := paragraph[space:i]
			if strings.Contains(run, "\n") {
				b.WriteByte(' ')
			} else {
				b.WriteString(run)
			}
			space = -1
		}
		b.WriteByte(paragraph[i])
	}

	return b.String()
}

// NewPost creates a post from commit content. The second return value is
// false when the content is not marked for publishing.
func NewPost(hash string, content CommitContent) (Post, bool) {
	if !content.HasSummary() {
		return Post{}, false
	}

	title, ok := strings.CutPrefix(content.Summary, PostMarker)
	if !ok {
		return Post{}, false
	}

	return Post{
		ShortID:    ShortID(hash),
		Title:      title,
		Paragraphs: SplitParagraphs(content.Body),
	}, true
}

// ShortID returns the abbreviated form of a commit hash.
func ShortID(hash string) string {
	hash = strings.ToLower(hash)
	if len(hash) < ShortIDLength {
		return hash
	}

	return hash[:ShortIDLength]
}

// SplitParagraphs splits text on blank lines, dropping empty segments.
func SplitParagraphs(body string) []string {
	paragraphs := []string{}
	for _, p := range strings.Split(body, "\n\n") {
		if p == "" {
			continue
		}

		paragraphs = append(paragraphs, p)
	}

	return paragraphs
}
