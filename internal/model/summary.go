package model

import (
	"sort"
	"time"
)

// defaultTopN is how many entries the top author and destination lists keep.
const defaultTopN = 10

// Count is a name with the number of edges attributed to it.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary condenses a crawl report for display.
type Summary struct {
	VideoID    string        `json:"video_id"`
	RunID      int64         `json:"run_id,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	StopReason StopReason    `json:"stop_reason"`
	MaxEdges   int           `json:"max_edges"`
	Error      string        `json:"error,omitempty"`

	ThreadPages int `json:"thread_pages"`
	ReplyPages  int `json:"reply_pages"`

	TotalEdges       int   `json:"total_edges"`
	TopLevelComments int   `json:"top_level_comments"`
	Replies          int   `json:"replies"`
	MentionReplies   int   `json:"mention_replies"`
	DistinctAuthors  int   `json:"distinct_authors"`
	TotalLikes       int64 `json:"total_likes"`

	TopAuthors      []Count `json:"top_authors,omitempty"`
	TopDestinations []Count `json:"top_destinations,omitempty"`

	Digest     string `json:"digest,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
}

// NewSummary computes a summary of report.
func NewSummary(report *CrawlReport) *Summary {
	s := &Summary{
		VideoID:     report.VideoID,
		RunID:       report.RunID,
		StartedAt:   report.StartedAt,
		Duration:    report.Duration(),
		StopReason:  report.StopReason,
		MaxEdges:    report.MaxEdges,
		Error:       report.ErrorMessage,
		ThreadPages: report.ThreadPages,
		ReplyPages:  report.ReplyPages,
		Digest:      report.Digest,
		OutputPath:  report.OutputPath,
	}

	authors := make(map[string]int)
	destinations := make(map[string]int)
	if report.Table != nil {
		for _, e := range report.Table.edges {
			s.TotalEdges++
			s.TotalLikes += e.Likes
			authors[e.Author]++
			switch {
			case e.IsTopLevel():
				s.TopLevelComments++
			case e.Kind == KindReply:
				s.Replies++
				if e.HasDestination() {
					s.MentionReplies++
					destinations[e.Destination]++
				}
			}
		}
	}

	s.DistinctAuthors = len(authors)
	s.TopAuthors = topCounts(authors, defaultTopN)
	s.TopDestinations = topCounts(destinations, defaultTopN)
	return s
}

// HasEdges reports whether anything was collected.
func (s *Summary) HasEdges() bool {
	return s.TotalEdges > 0
}

// topCounts returns the n largest entries of m, ties broken by name.
func topCounts(m map[string]int, n int) []Count {
	counts := make([]Count, 0, len(m))
	for name, c := range m {
		counts = append(counts, Count{Name: name, Count: c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
