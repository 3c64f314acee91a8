package service

import "strings"

// cleanLLMJSONResponse quita el BOM y los fences ```json ... ``` que algunos
// modelos agregan alrededor del JSON, dejando el contenido usable.
func cleanLLMJSONResponse(raw string) string {
	s := strings.TrimSpace(strings.TrimPrefix(raw, "\uFEFF"))
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Etiqueta de lenguaje pegada al fence de apertura.
	if nl := strings.IndexByte(s, '\n'); nl != -1 && strings.EqualFold(strings.TrimSpace(s[:nl]), "json") {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimPrefix(s, "JSON")
	}

	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
