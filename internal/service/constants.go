package service

import "time"

// SlideSeparator delimits slides in the generated Markdown.
const SlideSeparator = "---"

const (
	defaultCredentialPrefix    = "sk-"
	defaultCredentialMinLength = 20
	defaultMaxRetryDelay       = 30 * time.Second
)

const systemPromptSlides = `
You are a presentation designer. Answer only with the Markdown source of a slide deck.
Separate slides with a line that contains exactly ` + SlideSeparator + `.
Do not add explanations before or after the deck and do not wrap it in code fences.`
