package service

import "academy-ai/internal/domain"

// staticQuestions is the last-resort question set used to assemble a
// diagnostic quiz when a category has no generated bank at all. It is
// never written into the bank store and never substituted inside the
// refresh loop; a failed refresh stays visible as a failure.
var staticQuestions = map[domain.Category][]domain.DiagnosticQuestion{
	domain.CategoryAnalytics: {
		{
			ID:         "static-analytics-1",
			Category:   domain.CategoryAnalytics,
			Difficulty: "easy",
			Prompt:     "Which metric most directly reflects demand for a product niche?",
			Options: []string{
				"Number of product photos per listing",
				"Total sales volume across the niche",
				"Average review length",
				"Seller registration date",
			},
			CorrectOptionIndex: 1,
			Explanation:        "Niche sales volume measures what buyers actually purchase; the other signals are cosmetic.",
		},
		{
			ID:         "static-analytics-2",
			Category:   domain.CategoryAnalytics,
			Difficulty: "medium",
			Prompt:     "A niche shows high revenue concentrated in three listings. What does that indicate?",
			Options: []string{
				"Low competition and easy entry",
				"A monopolized niche that is hard to enter",
				"That the niche is seasonal",
				"That advertising is cheap in this niche",
			},
			CorrectOptionIndex: 1,
			Explanation:        "Revenue concentration means a few sellers dominate; a new entrant fights established leaders for visibility.",
		},
		{
			ID:         "static-analytics-3",
			Category:   domain.CategoryAnalytics,
			Difficulty: "medium",
			Prompt:     "Why compare sales per listing rather than total niche sales when sizing an opportunity?",
			Options: []string{
				"Total sales are usually misreported",
				"It normalizes demand against the number of competitors",
				"Sales per listing is easier to compute",
				"Marketplaces only publish per-listing data",
			},
			CorrectOptionIndex: 1,
			Explanation:        "Dividing demand by competition shows what an average entrant can expect to capture.",
		},
	},
	domain.CategorySEO: {
		{
			ID:         "static-seo-1",
			Category:   domain.CategorySEO,
			Difficulty: "easy",
			Prompt:     "Where do marketplace search engines primarily take ranking keywords from?",
			Options: []string{
				"The seller's company name",
				"The listing title and description fields",
				"Customer support chat logs",
				"The product barcode",
			},
			CorrectOptionIndex: 1,
			Explanation:        "Title and description are the indexed text fields; keywords placed there drive search matching.",
		},
		{
			ID:         "static-seo-2",
			Category:   domain.CategorySEO,
			Difficulty: "medium",
			Prompt:     "What is the main risk of stuffing a listing title with unrelated high-volume keywords?",
			Options: []string{
				"The listing loads more slowly",
				"Relevance drops, hurting conversion and ranking",
				"The marketplace charges more commission",
				"Photos stop being displayed",
			},
			CorrectOptionIndex: 1,
			Explanation:        "Irrelevant traffic does not convert, and poor conversion feeds back into worse ranking.",
		},
		{
			ID:         "static-seo-3",
			Category:   domain.CategorySEO,
			Difficulty: "medium",
			Prompt:     "A listing ranks well but converts poorly. Which fix addresses the conversion side?",
			Options: []string{
				"Adding more search keywords to the title",
				"Improving photos, price position and review profile",
				"Re-uploading the listing under a new SKU",
				"Lowering the stock level",
			},
			CorrectOptionIndex: 1,
			Explanation:        "Conversion is decided on the product card itself: visuals, price and social proof.",
		},
	},
	domain.CategoryAdvertising: {
		{
			ID:         "static-adv-1",
			Category:   domain.CategoryAdvertising,
			Difficulty: "easy",
			Prompt:     "What does ACOS-style ad efficiency measure?",
			Options: []string{
				"Ad spend as a share of ad-attributed revenue",
				"The number of clicks per impression",
				"The seller's total marketing budget",
				"How many campaigns are running",
			},
			CorrectOptionIndex: 0,
			Explanation:        "Spend divided by attributed revenue shows how much each ad ruble returns.",
		},
		{
			ID:         "static-adv-2",
			Category:   domain.CategoryAdvertising,
			Difficulty: "medium",
			Prompt:     "When is it rational to run ads at break-even or a small loss?",
			Options: []string{
				"Never; ads must always be profitable",
				"During launch, to accumulate sales velocity and reviews",
				"Only in December",
				"When the product has no competitors",
			},
			CorrectOptionIndex: 1,
			Explanation:        "Early sales velocity improves organic ranking, so launch-phase ads buy position, not just orders.",
		},
		{
			ID:         "static-adv-3",
			Category:   domain.CategoryAdvertising,
			Difficulty: "hard",
			Prompt:     "Raising a bid increases impressions but total ad revenue stays flat. What is the most likely cause?",
			Options: []string{
				"The extra impressions land on poorly matching queries",
				"The marketplace is throttling the account",
				"The product price is too low",
				"Reviews are being hidden",
			},
			CorrectOptionIndex: 0,
			Explanation:        "Higher bids widen delivery into weaker placements and queries, diluting conversion.",
		},
	},
	domain.CategoryEconomics: {
		{
			ID:         "static-econ-1",
			Category:   domain.CategoryEconomics,
			Difficulty: "easy",
			Prompt:     "Which costs belong in a unit economics calculation for one sold item?",
			Options: []string{
				"Only the purchase price of the goods",
				"Purchase price, commission, logistics, storage and returns",
				"Only marketplace commission",
				"Office rent exclusively",
			},
			CorrectOptionIndex: 1,
			Explanation:        "Unit economics allocates every variable cost a single sale carries, not just the cost of goods.",
		},
		{
			ID:         "static-econ-2",
			Category:   domain.CategoryEconomics,
			Difficulty: "medium",
			Prompt:     "A product has positive markup but negative margin after deductions. What does that mean?",
			Options: []string{
				"The product is profitable",
				"Commission, logistics and returns eat more than the markup",
				"The purchase price was recorded incorrectly",
				"Margin and markup are the same thing",
			},
			CorrectOptionIndex: 1,
			Explanation:        "Markup ignores marketplace deductions; margin includes them, and here they exceed the markup.",
		},
		{
			ID:         "static-econ-3",
			Category:   domain.CategoryEconomics,
			Difficulty: "hard",
			Prompt:     "How does a high return rate distort naive profitability estimates?",
			Options: []string{
				"It does not; returns are free for sellers",
				"Each return adds two-way logistics cost while the sale is reversed",
				"Returns only matter for clothing",
				"Returns increase the average check",
			},
			CorrectOptionIndex: 1,
			Explanation:        "A returned unit pays logistics in both directions and still produces zero revenue.",
		},
	},
	domain.CategoryLogistics: {
		{
			ID:         "static-log-1",
			Category:   domain.CategoryLogistics,
			Difficulty: "easy",
			Prompt:     "What is the main operational difference between FBO and FBS fulfillment?",
			Options: []string{
				"FBO stores goods in the marketplace warehouse; FBS ships from the seller's",
				"FBO is only for imported goods",
				"FBS removes marketplace commission",
				"There is no difference",
			},
			CorrectOptionIndex: 0,
			Explanation:        "Under FBO the marketplace warehouses and ships; under FBS the seller holds stock and hands over per order.",
		},
		{
			ID:         "static-log-2",
			Category:   domain.CategoryLogistics,
			Difficulty: "medium",
			Prompt:     "Why does distributing stock across regional warehouses usually lift sales?",
			Options: []string{
				"Regional warehouses charge no storage fees",
				"Shorter delivery times improve ranking and conversion in those regions",
				"It resets the listing's reviews",
				"It reduces the commission rate",
			},
			CorrectOptionIndex: 1,
			Explanation:        "Marketplaces boost offers that deliver fast locally, and buyers convert better on short delivery promises.",
		},
		{
			ID:         "static-log-3",
			Category:   domain.CategoryLogistics,
			Difficulty: "medium",
			Prompt:     "Out-of-stock periods hurt a listing beyond the lost orders because:",
			Options: []string{
				"The marketplace fines the seller automatically",
				"Accumulated sales velocity and ranking decay while the listing is empty",
				"Photos are removed after a stockout",
				"The SKU is permanently blocked",
			},
			CorrectOptionIndex: 1,
			Explanation:        "Ranking feeds on recent sales; a stockout starves it and recovery takes time after restocking.",
		},
	},
}

// StaticQuestionsForCategory returns the fallback question set for a
// category. The slice is copied so callers cannot mutate the source.
func StaticQuestionsForCategory(category domain.Category) []domain.DiagnosticQuestion {
	return append([]domain.DiagnosticQuestion(nil), staticQuestions[category]...)
}
