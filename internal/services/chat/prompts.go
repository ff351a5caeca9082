// File: internal/services/chat/prompts.go
package chat

import (
	"fmt"
	"strings"

	"github.com/haarwerk/haarwerk/internal/domain"
	"github.com/haarwerk/haarwerk/internal/services/retrieval"
)

// systemPrompt is the advisor persona. The placeholders are filled by
// buildSystemPrompt before each request.
const systemPrompt = `Du bist eine leidenschaftliche, selbstbewusste deutsche Haar-Expertin und Meisterfriseurin mit ueber 20 Jahren Erfahrung. Du bist wie eine beste Freundin, die zufaellig auch eine absolute Haar-Koryphae ist.

## Deine Persoenlichkeit:
- Du bist warm, direkt und ehrlich – wie eine beste Freundin, die auch Haar-Expertin ist
- Du verwendest liebevolle Anreden wie "Schatz", "Liebes", "Suesse" auf natuerliche Weise
- Du bist begeistert von gutem Haarpflege und laesst diese Begeisterung durchscheinen
- Du sprichst Klartext, wenn jemand schlechte Gewohnheiten hat oder fragwuerdige Produkte benutzt – aber immer mit Liebe
- Du erklaerst Fachbegriffe verstaendlich und zugaenglich
- Du gibst immer konkrete, umsetzbare Tipps – keine vagen Empfehlungen
- Du stellst Rueckfragen, wenn dir Informationen fehlen, um die beste Beratung zu geben
- Du antwortest IMMER auf Deutsch

## Wichtige Regeln:
- Erfinde NIEMALS Fakten oder Produktnamen. Wenn du dir unsicher bist, sag das ehrlich.
- Wenn jemand ueber Themen spricht, die nichts mit Haaren zu tun haben, lenke das Gespraech freundlich zurueck zum Thema Haar. Du bist Haar-Expertin, keine allgemeine Beraterin.
- Bei medizinischen Anliegen (z.B. starker Haarausfall, Kopfhauterkrankungen) empfiehl IMMER den Gang zum Dermatologen oder Arzt. Du bist keine Aerztin.
- Nutze den bereitgestellten Kontext als Wissensbasis, aber formuliere die Antworten in deinem eigenen Stil.
- Wenn Produktempfehlungen gegeben werden, beziehe dich auf die bereitgestellten Produkte.

## Quellenpriorisierung:
Die Wissensquellen im Kontext haben unterschiedliche Vertrauensstufen:
1. **Fachbuch** und **Produktmatrix** — hoechste Prioritaet. Geprueft und autorisiert.
2. **FAQ** und **Fachartikel** — mittlere Prioritaet. Strukturiert und redaktionell bearbeitet.
3. **Kurs-Transkript**, **Live-Beratung**, **Produktlinks** — ergaenzend. Bei Widerspruechen den hoeheren Quellen untergeordnet.

Bei widerspruechlichen Informationen:
- Bevorzuge IMMER die hoeherrangige Quelle.
- Erwaehne den Widerspruch NICHT gegenueber dem Nutzer.
- Bei Produktempfehlungen hat die Produktmatrix Vorrang.

## Nutzerprofil:
{{USER_PROFILE}}

## Wissensbasis (Kontext):
{{RAG_CONTEXT}}`

// sourceTypeLabels maps a chunk's source type to its German display label.
var sourceTypeLabels = map[string]string{
	"book":          "Fachbuch",
	"product_list":  "Produktmatrix",
	"qa":            "FAQ",
	"narrative":     "Fachartikel",
	"transcript":    "Kurs-Transkript",
	"live_call":     "Live-Beratung",
	"product_links": "Produktlinks",
	"community_qa":  "Community-Beratung",
}

// formatProfile renders the hair profile as a German summary for the
// system prompt, with accumulated conversation memory appended.
func formatProfile(profile *domain.HairProfile) string {
	if profile == nil {
		return "Kein Haarprofil vorhanden. Frage den Nutzer nach seinen Haardetails, wenn relevant."
	}

	var parts []string
	if profile.HairTexture != "" {
		parts = append(parts, "Haartyp: "+profile.HairTexture)
	}
	if profile.Thickness != "" {
		parts = append(parts, "Haardicke: "+profile.Thickness)
	}
	if concerns := profile.ConcernList(); len(concerns) > 0 {
		parts = append(parts, "Probleme/Bedenken: "+strings.Join(concerns, ", "))
	}
	if profile.ProteinMoistureBalance != "" {
		parts = append(parts, "Protein-Feuchtigkeits-Balance: "+profile.ProteinMoistureBalance)
	}
	if profile.ScalpType != "" {
		parts = append(parts, "Kopfhaut-Typ: "+profile.ScalpType)
	}
	if profile.ScalpCondition != "" && profile.ScalpCondition != "keine" {
		parts = append(parts, "Kopfhaut-Beschwerden: "+profile.ScalpCondition)
	}

	result := "Haarprofil angelegt, aber noch keine Details eingetragen."
	if len(parts) > 0 {
		result = strings.Join(parts, "\n")
	}

	if profile.ConversationMemory != "" {
		result += "\n\nErinnerungen aus frueheren Gespraechen:\n" + profile.ConversationMemory
	}

	return result
}

// formatContext renders retrieved chunks as numbered, source-labelled
// blocks.
func formatContext(chunks []retrieval.RetrievedChunk) string {
	if len(chunks) == 0 {
		return "Keine zusaetzlichen Informationen aus der Wissensbasis verfuegbar."
	}

	blocks := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		label := sourceTypeLabels[chunk.SourceType]
		if label == "" {
			label = chunk.SourceType
		}
		source := " (" + label + ")"
		if chunk.SourceName != "" {
			source = " (" + label + " – " + chunk.SourceName + ")"
		}
		blocks = append(blocks, fmt.Sprintf("[%d]%s:\n%s", i+1, source, chunk.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// formatProducts renders matched products as a context block. An empty
// match list instructs the model not to invent product names.
func formatProducts(products []retrieval.MatchedProduct) string {
	if len(products) == 0 {
		return "\n\nKeine passenden Produkte in der Datenbank gefunden. Nenne KEINE konkreten Produktnamen — sage dem Nutzer ehrlich, dass du gerade kein passendes Produkt parat hast, und bitte um genauere Angaben."
	}

	var b strings.Builder
	b.WriteString("\n\nPassende Produkte aus unserer Datenbank:\n")
	for _, p := range products {
		b.WriteString("- **" + p.Name + "**")
		if p.Brand != "" {
			b.WriteString(" von " + p.Brand)
		}
		b.WriteByte('\n')
		if p.Description != "" {
			b.WriteString("  " + p.Description + "\n")
		}
	}
	b.WriteString("\nWICHTIG: Verwende die EXAKTEN Produktnamen (wie oben geschrieben) wenn du sie erwaehnst — die Namen werden in der App als klickbare Links dargestellt.")
	return b.String()
}

// buildSystemPrompt fills the persona template with the profile and
// retrieved context. Products are only included when product matching ran.
func buildSystemPrompt(profile *domain.HairProfile, chunks []retrieval.RetrievedChunk, products []retrieval.MatchedProduct, includeProducts bool) string {
	prompt := strings.Replace(systemPrompt, "{{USER_PROFILE}}", formatProfile(profile), 1)

	ragContext := formatContext(chunks)
	if includeProducts {
		ragContext += formatProducts(products)
	}
	return strings.Replace(prompt, "{{RAG_CONTEXT}}", ragContext, 1)
}
