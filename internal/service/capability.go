package service

// Capability parametriza una invocación al proveedor de completions.
// Chat, resumen de documentos y matching de esquemas comparten el mismo
// camino de ejecución y difieren solo en esta configuración.
type Capability struct {
	Name         string
	SystemPrompt string
	Model        string
	MaxTokens    int
	Temperature  float64
}

const chatSystemPrompt = `You are LexChat, a legal information assistant for Indian law. ` +
	`Explain rights, procedures and applicable statutes in plain language. ` +
	`Always clarify that you provide general legal information, not legal advice, ` +
	`and recommend consulting a qualified lawyer for specific cases. ` +
	`If a question is outside Indian law, say so.`

const summarySystemPrompt = `You are a legal document summarizer. Summarize the provided ` +
	`document in plain language: parties involved, key obligations, important dates, ` +
	`risks and unusual clauses. Keep the summary under 300 words.`

const schemeSystemPrompt = `You identify Indian government welfare schemes relevant to a ` +
	`citizen's situation. Respond ONLY with a JSON array of objects with fields: ` +
	`"name", "ministry", "eligibility", "benefits", "apply_url", "relevance". ` +
	`Return at most 5 schemes. No prose outside the JSON.`

func NewChatCapability(model string) Capability {
	return Capability{
		Name:         "chat",
		SystemPrompt: chatSystemPrompt,
		Model:        model,
		MaxTokens:    1024,
		Temperature:  0.7,
	}
}

func NewSummaryCapability(model string) Capability {
	return Capability{
		Name:         "summarize",
		SystemPrompt: summarySystemPrompt,
		Model:        model,
		MaxTokens:    512,
		Temperature:  0.3,
	}
}

func NewSchemeCapability(model string) Capability {
	return Capability{
		Name:         "scheme_match",
		SystemPrompt: schemeSystemPrompt,
		Model:        model,
		MaxTokens:    1024,
		Temperature:  0.2,
	}
}
