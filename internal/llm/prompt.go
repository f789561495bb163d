package llm

// System framings per task.
const (
	simplifySystem = "You are a helpful legal document simplifier. You break down complex legal jargon into plain, simple language that anyone can understand."
	concernsSystem = "You are a legal expert who identifies concerning clauses. Return only valid JSON."
	compareSystem  = "You are a legal expert who compares documents and explains differences clearly."
	chatSystem     = "You are a legal document expert who explains things in simple terms. Be conversational, friendly, and avoid legal jargon."
)

// Truncate caps s at max bytes before it is embedded into a prompt.
func Truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// BuildSimplifyPrompt builds the simplify task prompt. With an empty query it
// asks for the structured breakdown (summary, key points, dates, obligations
// and rights); with a query it asks for a plain-language answer to it.
func BuildSimplifyPrompt(legalText, query string) (system, user string) {
	text := Truncate(legalText, SimplifyBudget)

	if query != "" {
		user = "You are a legal document simplifier. A user has provided this legal text and has a specific question about it.\n\n" +
			"Legal Text:\n" + text + "\n\n" +
			"User Question: " + query + "\n\n" +
			"Please answer their question in simple, plain language that anyone can understand. Avoid legal jargon and explain any complex terms you must use."
		return simplifySystem, user
	}

	user = "You are a legal document simplifier. Your job is to break down complex legal language into simple, easy-to-understand terms.\n\n" +
		"Please analyze this legal text and provide:\n" +
		"1. A brief summary (2-3 sentences)\n" +
		"2. Key points in plain language (numbered list)\n" +
		"3. Important dates or deadlines mentioned\n" +
		"4. Your obligations and rights\n\n" +
		"Legal Text:\n" + text + "\n\n" +
		"Remember to use everyday language that anyone can understand."
	return simplifySystem, user
}

// BuildConcernsPrompt builds the concerning-clauses prompt, including the
// exact JSON array shape the interpreter expects back.
func BuildConcernsPrompt(legalText string) (system, user string) {
	text := Truncate(legalText, ConcernsBudget)

	user = "You are a legal expert analyzing documents for potential concerns.\n\n" +
		"Analyze this legal document and identify concerning clauses or red flags. For each concerning clause:\n" +
		"1. Quote the clause (keep it brief)\n" +
		"2. Explain why it's concerning in simple terms\n" +
		"3. Rate the severity (LOW, MEDIUM, HIGH)\n\n" +
		"Return ONLY a JSON array with this exact structure:\n" +
		"[\n" +
		"  {\n" +
		"    \"clause\": \"brief quote of concerning text\",\n" +
		"    \"concern\": \"explanation in plain language\",\n" +
		"    \"severity\": \"HIGH/MEDIUM/LOW\",\n" +
		"    \"recommendation\": \"what the reader should do\"\n" +
		"  }\n" +
		"]\n\n" +
		"Legal Text:\n" + text + "\n\n" +
		"Return ONLY valid JSON, no other text."
	return concernsSystem, user
}

// BuildComparePrompt builds the two-document comparison prompt. Each
// document's text is truncated independently.
func BuildComparePrompt(name1, text1, name2, text2 string) (system, user string) {
	t1 := Truncate(text1, CompareBudget)
	t2 := Truncate(text2, CompareBudget)

	user = "Compare these two legal documents and provide:\n" +
		"1. Main differences between them\n" +
		"2. Which document is more favorable and why\n" +
		"3. Key clauses that differ\n" +
		"4. Recommendations on which is better\n\n" +
		"Document 1 (" + name1 + "):\n" + t1 + "\n\n" +
		"Document 2 (" + name2 + "):\n" + t2 + "\n\n" +
		"Provide a clear, easy-to-understand comparison."
	return compareSystem, user
}

// BuildChatTurn packages a user message, with optional document context, into
// the content stored on the transcript. The context travels inside the stored
// turn so follow-up questions keep it.
func BuildChatTurn(message, documentContext string) string {
	if documentContext == "" {
		return message
	}
	return "Document Context:\n" + Truncate(documentContext, ChatContextBudget) + "\n\nUser Question: " + message
}

// ChatSystemPrompt returns the system framing for the chat task.
func ChatSystemPrompt() string {
	return chatSystem
}
