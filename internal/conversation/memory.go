// Package conversation maintains bounded conversational context across a
// multi-turn question-answering session: a FIFO ring of recent exchanges, a
// derived current topic, and lightweight retrieval of related prior
// exchanges by shared-word overlap.
package conversation

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	// MaxExchanges caps the exchange ring; the oldest entry is evicted
	// first, strictly FIFO.
	MaxExchanges = 10

	// topicWindow is how many recent questions feed topic recomputation.
	topicWindow = 3

	// relatedWindow is how many recent exchanges are scanned for related
	// prior exchanges.
	relatedWindow = 5

	// relatedLimit is the maximum number of related exchanges returned.
	relatedLimit = 3

	// minSharedWords is the overlap an exchange needs to count as related.
	minSharedWords = 2

	// answerPreviewLen is the truncation length for related answers.
	answerPreviewLen = 200
)

// Exchange is one question/answer pair in the ring.
type Exchange struct {
	Question  string
	Answer    string
	HasCode   bool
	Timestamp time.Time
}

// Related is a summarized prior exchange relevant to a new question.
type Related struct {
	Question    string
	Answer      string
	SharedWords int
}

type topicBucket struct {
	name     string
	keywords []string
}

// topicBuckets are the fixed subject-matter labels, scored by keyword hits.
// Declaration order breaks score ties.
var topicBuckets = []topicBucket{
	{"git", []string{"git", "repository", "commit", "branch", "merge", "push", "pull"}},
	{"python", []string{"python", "django", "flask", "pandas", "numpy", "pip"}},
	{"javascript", []string{"javascript", "node", "npm", "react", "vue", "angular"}},
	{"docker", []string{"docker", "container", "image", "dockerfile", "compose"}},
	{"linux", []string{"linux", "ubuntu", "bash", "shell", "terminal", "command"}},
	{"database", []string{"sql", "database", "mysql", "postgresql", "mongodb", "query"}},
	{"web", []string{"http", "api", "rest", "web", "server", "client", "html", "css"}},
}

// Memory is the conversation context engine. It owns the exchange ring
// exclusively; the current topic is derived state, recomputed on every
// insert and otherwise only touched by Clear.
type Memory struct {
	exchanges []Exchange
	topic     string
	now       func() time.Time
}

// NewMemory creates an empty Memory. A nil now defaults to time.Now.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{now: now}
}

// Record appends an exchange, evicts beyond the ring capacity, and
// recomputes the current topic from the last few questions.
func (m *Memory) Record(question, answer string, hasCode bool) {
	m.exchanges = append(m.exchanges, Exchange{
		Question:  question,
		Answer:    answer,
		HasCode:   hasCode,
		Timestamp: m.now(),
	})
	if len(m.exchanges) > MaxExchanges {
		m.exchanges = m.exchanges[len(m.exchanges)-MaxExchanges:]
	}
	m.updateTopic()
}

// Len returns the number of stored exchanges.
func (m *Memory) Len() int {
	return len(m.exchanges)
}

// Exchanges returns the stored exchanges in insertion order.
func (m *Memory) Exchanges() []Exchange {
	return m.exchanges
}

// CurrentTopic returns the derived topic, or "" when none has been detected
// yet.
func (m *Memory) CurrentTopic() string {
	return m.topic
}

// Clear empties the ring and unsets the topic. This explicit reset is the
// only way the topic reverts to unset.
func (m *Memory) Clear() {
	m.exchanges = nil
	m.topic = ""
}

// updateTopic scores each bucket by keyword hits across the last few
// questions and adopts the highest scorer when its score is positive. A
// low-signal window leaves the prior topic untouched, so the topic is
// monotonic until overwritten.
func (m *Memory) updateTopic() {
	recent := m.exchanges
	if len(recent) > topicWindow {
		recent = recent[len(recent)-topicWindow:]
	}

	bestScore := 0
	bestTopic := ""
	for _, bucket := range topicBuckets {
		score := 0
		for _, exchange := range recent {
			question := strings.ToLower(exchange.Question)
			for _, keyword := range bucket.keywords {
				if strings.Contains(question, keyword) {
					score++
				}
			}
		}
		if score > bestScore {
			bestScore = score
			bestTopic = bucket.name
		}
	}

	if bestScore > 0 {
		m.topic = bestTopic
	}
}

// RelatedExchanges finds prior exchanges related to a new question by
// counting shared lower-cased words over the most recent stored exchanges.
// Results are sorted by descending overlap (stable on ties) and capped;
// answers are truncated for prompt use.
func (m *Memory) RelatedExchanges(question string) []Related {
	recent := m.exchanges
	if len(recent) > relatedWindow {
		recent = recent[len(recent)-relatedWindow:]
	}

	questionWords := lo.Uniq(strings.Fields(strings.ToLower(question)))

	var related []Related
	for _, exchange := range recent {
		storedWords := lo.Uniq(strings.Fields(strings.ToLower(exchange.Question)))
		shared := len(lo.Intersect(questionWords, storedWords))
		if shared < minSharedWords {
			continue
		}

		answer := exchange.Answer
		if len(answer) > answerPreviewLen {
			answer = answer[:answerPreviewLen] + "..."
		}

		related = append(related, Related{
			Question:    exchange.Question,
			Answer:      answer,
			SharedWords: shared,
		})
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].SharedWords > related[j].SharedWords
	})

	if len(related) > relatedLimit {
		related = related[:relatedLimit]
	}
	return related
}

// RecentQuestions returns up to limit of the most recent questions, oldest
// first.
func (m *Memory) RecentQuestions(limit int) []string {
	recent := m.exchanges
	if len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}
	return lo.Map(recent, func(exchange Exchange, _ int) string {
		return exchange.Question
	})
}

// knownLanguages and knownTechnologies feed RecentTopics.
var (
	knownLanguages    = []string{"python", "javascript", "java", "c++", "go", "rust", "php", "ruby"}
	knownTechnologies = []string{"git", "docker", "kubernetes", "react", "vue", "angular", "django", "flask"}
)

// RecentTopics extracts language and technology names mentioned in the last
// few questions, in first-mention order.
func (m *Memory) RecentTopics() []string {
	recent := m.exchanges
	if len(recent) > topicWindow {
		recent = recent[len(recent)-topicWindow:]
	}

	var topics []string
	for _, exchange := range recent {
		question := strings.ToLower(exchange.Question)
		for _, name := range append(append([]string{}, knownLanguages...), knownTechnologies...) {
			if strings.Contains(question, name) {
				topics = append(topics, name)
			}
		}
	}
	return lo.Uniq(topics)
}

// Bundle is the context handed to the prompt builder for a new question.
type Bundle struct {
	CurrentTopic      string
	RecentTopics      []string
	PreviousQuestions []string
	Related           []Related
}

// ContextFor assembles the context bundle for a new question.
func (m *Memory) ContextFor(question string) Bundle {
	return Bundle{
		CurrentTopic:      m.topic,
		RecentTopics:      m.RecentTopics(),
		PreviousQuestions: m.RecentQuestions(relatedWindow),
		Related:           m.RelatedExchanges(question),
	}
}
