// Package parser converts battle orders into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"

	"github.com/meekantifun/naval-command-sub002/types"
)

var verbAliases = map[string]string{
	// End of turn
	"n":    "next",
	"end":  "next",
	"wait": "next",
	"z":    "next",
	"pass": "next",

	// Status
	"l":      "look",
	"status": "look",
	"sitrep": "look",

	// Fleet listing
	"fleet":  "ships",
	"roster": "ships",

	// Movement
	"sail":   "move",
	"steer":  "move",
	"go":     "move",
	"head":   "move",
	"helm":   "move",
	"travel": "move",

	// Damage
	"attack":  "hit",
	"fire":    "hit",
	"shoot":   "hit",
	"damage":  "hit",
	"strike":  "hit",
	"torpedo": "hit",

	// Sinking
	"scuttle": "sink",
	"destroy": "sink",

	// Shore bombardment
	"shell":   "bombard",
	"barrage": "bombard",
}

var prepositions = map[string]bool{
	"to": true, "for": true, "at": true, "on": true, "toward": true, "towards": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw order string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := words[1:]

	// Strip articles ("the", "a", "an").
	rest = stripArticles(rest)

	// Use the first preposition as a delimiter between object and target.
	object, target := splitOnPreposition(rest)

	return types.Intent{
		Verb:   verb,
		Object: object,
		Target: target,
	}
}

// expandMultiWordVerbs handles "end turn", "fire at", "open fire on" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "end", "next":
		if words[1] == "turn" {
			return append([]string{"next"}, words[2:]...)
		}
	case "fire", "shoot":
		if words[1] == "at" || words[1] == "on" {
			return append([]string{"hit"}, words[2:]...)
		}
	case "open":
		if words[1] == "fire" {
			rest := words[2:]
			if len(rest) > 0 && (rest[0] == "on" || rest[0] == "at") {
				rest = rest[1:]
			}
			return append([]string{"hit"}, rest...)
		}
	case "list", "show":
		if words[1] == "ships" || words[1] == "fleet" {
			return append([]string{"ships"}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[w] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	return strings.Join(words, " "), ""
}
