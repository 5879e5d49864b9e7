package blocks

// ComposePrompt prefixes prompt with the system prompt on its own line.
func ComposePrompt(sysPrompt, prompt string) string {
	if sysPrompt == "" {
		return prompt
	}
	return sysPrompt + "\n" + prompt
}
