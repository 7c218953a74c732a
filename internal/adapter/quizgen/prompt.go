package quizgen

import (
	"fmt"
	"strings"

	"academy-ai/internal/domain"
)

const systemPrompt = `You are an expert exam author for a marketplace-seller academy.
You write multiple-choice diagnostic questions that probe practical understanding,
not trivia. Respond with a single JSON array and nothing else.`

// categoryTopics steers generation when no lesson context is available.
var categoryTopics = map[domain.Category]string{
	domain.CategoryAnalytics:   "marketplace sales analytics, niche research, demand metrics",
	domain.CategorySEO:         "product listing optimization, search queries, keyword ranking",
	domain.CategoryAdvertising: "paid promotion, bid management, advertising ROI",
	domain.CategoryEconomics:   "unit economics, margins, pricing, commission structures",
	domain.CategoryLogistics:   "fulfillment models, warehouse supply, delivery economics",
}

// buildUserPrompt assembles the generation request for one batch. When
// lesson chunks were retrieved, they ground the questions; otherwise the
// model works from general domain knowledge.
func buildUserPrompt(category domain.Category, contextChunks []domain.ContentChunk, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create %d unique multiple-choice questions for the skill category %q (%s).\n\n",
		count, category, categoryTopics[category])

	if len(contextChunks) > 0 {
		b.WriteString("Ground every question in the following course material:\n\n")
		for i, chunk := range contextChunks {
			fmt.Fprintf(&b, "[%d] %s\n", i+1, chunk.Text)
		}
		b.WriteString("\n")
	}

	b.WriteString(`For each question provide a JSON object with exactly these fields:
- "prompt": the question text
- "options": exactly 4 answer options
- "correct_option_index": integer 0-3 pointing at the correct option
- "explanation": why the correct answer is correct
- "difficulty": "easy", "medium" or "hard"

Respond with a single JSON array of these objects. No prose, no markdown.`)

	return b.String()
}
