package cohere

// entityPromptMaxChars bounds the text sent for entity extraction to cap
// request cost. Summaries always see the full text.
const entityPromptMaxChars = 2000

func buildSummaryPrompt(text string) string {
	return "Please summarize this: " + text
}

func buildEntityPrompt(text string) string {
	snippet := text
	if runes := []rune(snippet); len(runes) > entityPromptMaxChars {
		snippet = string(runes[:entityPromptMaxChars])
	}
	return "Extract named entities, key dates, numbers, and facts from:\n\n" + snippet
}
