// Package faq answers visitor questions from a fixed table by keyword scoring.
package faq

import (
	"sort"
	"strings"
	"unicode"
)

const (
	Greeting      = "Hello! Welcome to ArtExhibit. How can I help you today? You can ask me about our exhibitions, artwork, or anything else."
	HandoffPrompt = "I don't have an immediate answer to your question. Please provide your contact details so our team can get back to you promptly."
)

type Entry struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"-"`
}

var Entries = []Entry{
	{
		Question: "What are your opening hours?",
		Answer:   "Our gallery is open Monday - Friday: 9:00 AM - 6:00 PM, Saturday: 10:00 AM - 5:00 PM, and Sunday: 11:00 AM - 4:00 PM.",
		Keywords: []string{"hours", "open", "opening", "close", "closing", "time", "weekend"},
	},
	{
		Question: "How can I buy artwork?",
		Answer:   "You can purchase artwork directly from our website by viewing the artwork details and clicking the 'Buy Now' button. We accept various payment methods including M-Pesa.",
		Keywords: []string{"buy", "purchase", "artwork", "order"},
	},
	{
		Question: "Can I view artwork in person before buying?",
		Answer:   "Some artworks may be available at local exhibitions. Keep an eye on our Events page for upcoming exhibitions.",
		Keywords: []string{"view", "see", "person", "before"},
	},
	{
		Question: "How do I buy a piece of art?",
		Answer:   "Simply click on the artwork you love and follow the checkout process.",
		Keywords: []string{"piece", "checkout"},
	},
	{
		Question: "What payment methods do you accept?",
		Answer:   "We accept M-Pesa. All transactions are secure.",
		Keywords: []string{"payment", "pay", "mpesa", "m-pesa", "card", "methods"},
	},
	{
		Question: "Is shipping included in the price?",
		Answer:   "Shipping costs vary based on location and artwork size. They'll be calculated at checkout.",
		Keywords: []string{"shipping cost", "included", "price", "delivery fee"},
	},
	{
		Question: "Can I return artwork?",
		Answer:   "Yes, returns are accepted within 7 days if the item is damaged or not as described.",
		Keywords: []string{"return", "refund", "damaged", "exchange"},
	},
	{
		Question: "How long does shipping take?",
		Answer:   "Domestic deliveries take 3–7 business days. International orders can take 7–14 days depending on customs.",
		Keywords: []string{"how long", "shipping", "delivery", "days", "arrive"},
	},
	{
		Question: "Do you ship internationally?",
		Answer:   "Yes, we ship artwork internationally. Shipping costs depend on the destination and the size of the artwork. Please contact us for a shipping quote.",
		Keywords: []string{"international", "internationally", "abroad", "overseas", "ship"},
	},
	{
		Question: "How is the artwork packaged?",
		Answer:   "Each piece is professionally packed to ensure safe delivery. Fragile pieces are double-boxed and cushioned.",
		Keywords: []string{"packaged", "packaging", "packed", "fragile"},
	},
	{
		Question: "How can I sell my artwork here?",
		Answer:   "Send us an email and submit your portfolio. Our team will review and get in touch.",
		Keywords: []string{"sell", "artist", "portfolio", "submit"},
	},
	{
		Question: "How do I apply for an exhibition?",
		Answer:   "Send us an email and submit your portfolio. Our team will review and get in touch.",
		Keywords: []string{"apply", "application", "showcase"},
	},
	{
		Question: "Do artists handle their own shipping?",
		Answer:   "We offer fulfillment support for artists.",
		Keywords: []string{"artists", "fulfillment", "own shipping"},
	},
	{
		Question: "Can I visit your gallery in person?",
		Answer:   "Yes, our physical gallery is located at Kimathi Street, Nairobi, Kenya. We welcome visitors during our opening hours.",
		Keywords: []string{"visit", "gallery", "location", "located", "address", "where", "nairobi"},
	},
	{
		Question: "How do I book for an exhibition?",
		Answer:   "You can book tickets for our exhibitions through our website by navigating to the Exhibitions page, selecting your preferred exhibition, and clicking 'Book Now'.",
		Keywords: []string{"book", "booking", "ticket", "tickets", "exhibition", "exhibitions", "event"},
	},
}

type Matcher struct {
	entries []Entry
}

func NewMatcher(entries []Entry) *Matcher {
	return &Matcher{entries: entries}
}

// Default matches against Entries.
func Default() *Matcher {
	return NewMatcher(Entries)
}

// Match returns the best scoring entry. ok is false when nothing scores above
// zero, which is the cue to hand the visitor over to a human.
func (m *Matcher) Match(input string) (Entry, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return Entry{}, false
	}
	words := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})

	type scored struct {
		idx   int
		score int
	}
	scores := make([]scored, 0, len(m.entries))
	for i := range m.entries {
		scores = append(scores, scored{idx: i, score: Score(&m.entries[i], normalized, words)})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if len(scores) == 0 || scores[0].score <= 0 {
		return Entry{}, false
	}
	return m.entries[scores[0].idx], true
}

// Score rates one entry against a lower-cased input and its words.
func Score(e *Entry, input string, words []string) int {
	score := 0

	for _, kw := range e.Keywords {
		if strings.Contains(input, kw) {
			score += 2
			break
		}
	}

	for _, word := range words {
		if len(word) <= 2 {
			continue
		}
		for _, kw := range e.Keywords {
			if strings.Contains(kw, word) {
				score++
			}
			if kw == word {
				score += 2
			}
		}
	}

	if strings.Contains(input, strings.ToLower(e.Question)) {
		score += 5
	}
	return score
}
