// Package prompt builds the deterministic prompts sent to the AI gateway.
//
// Every builder shares the same JSON response contract so that the
// response package can parse any reply. For identical inputs the output
// is byte-identical.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

// TruncationMarker is appended by TruncateContent when text is cut.
const TruncationMarker = "\n\n[... contenu tronqué ...]"

const preamble = `Tu es un auditeur expert chargé de vérifier la conformité et la qualité de documents professionnels.
Analyse le document ci-dessous et identifie précisément chaque problème de conformité, de cohérence ou de qualité.`

const responseFormat = `FORMAT DE RÉPONSE OBLIGATOIRE :
Réponds avec un objet JSON respectant exactement cette structure :
{
  "issues": [
    {
      "issueType": "catégorie du problème",
      "description": "description précise du problème constaté",
      "pageNumber": 1,
      "paragraphNumber": 1,
      "suggestion": "correction proposée"
    }
  ]
}
pageNumber et paragraphNumber sont des nombres entiers, ou null lorsqu'ils sont inconnus.
Si aucun problème n'est détecté, réponds {"issues": []}.`

const closing = `INSTRUCTIONS FINALES :
- Réponds UNIQUEMENT avec le JSON, sans texte avant ou après.
- N'utilise pas de bloc de code Markdown.
- Cite les passages concernés dans la description lorsque c'est possible.`

// Categories is the canonical list of problem categories offered to the model.
var Categories = []string{
	"Non-conformité réglementaire",
	"Information manquante ou incomplète",
	"Incohérence entre sections",
	"Erreur factuelle ou chiffrée",
	"Ambiguïté ou formulation imprécise",
	"Problème de structure ou d'organisation",
	"Problème de mise en forme",
	"Risque critique",
}

// Build returns the analysis prompt for a document checked against a rule template.
// It never truncates documentText; callers apply TruncateContent first.
func Build(tmpl domain.RuleTemplate, documentText, documentName string) string {
	var b strings.Builder

	b.WriteString(preamble)
	b.WriteString("\n\n")

	b.WriteString("RÉFÉRENTIEL D'AUDIT :\n")
	fmt.Fprintf(&b, "Nom : %s\n", tmpl.Name)
	if tmpl.Organization != "" {
		fmt.Fprintf(&b, "Organisation : %s\n", tmpl.Organization)
	}
	if tmpl.Description != "" {
		fmt.Fprintf(&b, "Description : %s\n", tmpl.Description)
	}
	if tmpl.RuleCount > 0 {
		fmt.Fprintf(&b, "Nombre de règles : %d\n", tmpl.RuleCount)
	}
	b.WriteString("\n")

	writeContract(&b)
	writeDocument(&b, "DOCUMENT À ANALYSER", documentName, documentText)
	b.WriteString(closing)

	return b.String()
}

// Minimal returns an analysis prompt without any rule template.
func Minimal(documentText, documentName string) string {
	var b strings.Builder

	b.WriteString(preamble)
	b.WriteString("\n\n")
	writeContract(&b)
	writeDocument(&b, "DOCUMENT À ANALYSER", documentName, documentText)
	b.WriteString(closing)

	return b.String()
}

// Comparison returns a prompt asking for inconsistencies between two documents.
func Comparison(nameA, textA, nameB, textB string) string {
	var b strings.Builder

	b.WriteString("Tu es un auditeur expert chargé de comparer deux documents professionnels.\n")
	b.WriteString("Identifie les contradictions, divergences et informations présentes dans un document mais absentes de l'autre.\n")
	b.WriteString("Indique dans la description le document concerné par chaque problème.\n\n")
	writeContract(&b)
	writeDocument(&b, "DOCUMENT A", nameA, textA)
	writeDocument(&b, "DOCUMENT B", nameB, textB)
	b.WriteString(closing)

	return b.String()
}

// Compliance returns a prompt checking a document against a named standard.
func Compliance(standard, documentText, documentName string) string {
	var b strings.Builder

	b.WriteString(preamble)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "NORME DE RÉFÉRENCE : %s\n", standard)
	b.WriteString("Vérifie chaque exigence de cette norme et signale toute exigence non couverte ou mal appliquée.\n\n")
	writeContract(&b)
	writeDocument(&b, "DOCUMENT À ANALYSER", documentName, documentText)
	b.WriteString(closing)

	return b.String()
}

// Quality returns a prompt evaluating clarity, structure and presentation.
func Quality(documentText, documentName string) string {
	var b strings.Builder

	b.WriteString("Tu es un relecteur expert chargé d'évaluer la qualité rédactionnelle d'un document professionnel.\n")
	b.WriteString("Évalue la clarté, la structure, la cohérence terminologique et la présentation.\n\n")
	writeContract(&b)
	writeDocument(&b, "DOCUMENT À ÉVALUER", documentName, documentText)
	b.WriteString(closing)

	return b.String()
}

// TruncateContent returns text unchanged if it has at most maxLength characters,
// otherwise its first maxLength characters followed by TruncationMarker.
func TruncateContent(text string, maxLength int) string {
	if maxLength < 0 {
		maxLength = 0
	}
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}

	count := 0
	for i := range text {
		if count == maxLength {
			return text[:i] + TruncationMarker
		}
		count++
	}
	return text + TruncationMarker
}

func writeContract(b *strings.Builder) {
	b.WriteString(responseFormat)
	b.WriteString("\n\n")

	b.WriteString("CATÉGORIES DE PROBLÈMES :\n")
	for i, c := range Categories {
		fmt.Fprintf(b, "%d. %s\n", i+1, c)
	}
	b.WriteString("\n")
}

func writeDocument(b *strings.Builder, heading, name, text string) {
	fmt.Fprintf(b, "%s : %s\n", heading, name)
	b.WriteString("---\n")
	b.WriteString(text)
	b.WriteString("\n---\n\n")
}
