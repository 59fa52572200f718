package agents

import (
	"github.com/leagravellard/Projet-GENAI/components/systemprompt/cot"
	"github.com/leagravellard/Projet-GENAI/tools"
)

var assistantBackground = []string{
	"- Tu es un assistant intelligent multi-outils.",
	"- Tu réponds aux questions de l'utilisateur, en t'appuyant sur des outils lorsque c'est nécessaire.",
}

// NewDecisionPrompt builds the system prompt of the decision pass. The registry is rendered as the tool catalogue.
func NewDecisionPrompt(registry *tools.Registry, structured bool) *cot.Generator {
	steps := []string{
		"- Analyse la question de l'utilisateur et l'historique de la conversation.",
		"- Décide si un outil est nécessaire ou si tu peux répondre directement.",
	}
	var instructs []string
	if structured {
		instructs = []string{
			"- Utilise un outil uniquement si c'est vraiment utile, en appelant les outils fournis.",
			"- Tu peux appeler plusieurs outils si la question le demande.",
			"- Sinon, réponds directement de manière claire et concise.",
			"- Réponds dans la langue de l'utilisateur.",
		}
	} else {
		instructs = []string{
			"- Utilise un outil uniquement si c'est vraiment utile.",
			"- Pour utiliser un outil, réponds uniquement par une ligne de la forme : [TOOL: nom_outil] argument",
			"- Tu peux aussi écrire deux lignes :\nTOOL: nom_outil\nQUERY: argument",
			"- N'utilise qu'un seul outil par réponse et n'écris rien d'autre autour de la directive.",
			"- Sinon, réponds directement de manière claire et concise, sans mentionner d'outil.",
			"- Réponds dans la langue de l'utilisateur.",
		}
	}
	return cot.New(
		cot.WithBackground(assistantBackground),
		cot.WithSteps(steps),
		cot.WithOutputInstructs(instructs),
		cot.WithContextProviders(registry),
	)
}

// NewSynthesisPrompt builds the system prompt of the synthesis pass
func NewSynthesisPrompt() *cot.Generator {
	return cot.New(
		cot.WithBackground(assistantBackground),
		cot.WithSteps([]string{
			"- Lis la question de l'utilisateur et les résultats des outils.",
			"- Identifie les informations utiles pour répondre.",
		}),
		cot.WithOutputInstructs([]string{
			"- Rédige une réponse finale claire et concise à partir des résultats.",
			"- Si un outil a échoué, indique-le brièvement et réponds au mieux avec ce qui reste.",
			"- N'invente pas d'information absente des résultats.",
			"- Réponds dans la langue de l'utilisateur.",
		}),
	)
}
