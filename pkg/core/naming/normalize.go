// Package naming converts arbitrary identifier strings (PascalCase headers,
// German column labels with umlauts and punctuation) into canonical
// lowercase-underscore identifiers safe to use as table and column names.
package naming

import "strings"

// Normalize converts an identifier to snake_case.
//
// Rules:
//   - an underscore is inserted before an uppercase letter that follows a
//     lowercase letter ("EuCountry" -> "eu_country")
//   - inside an uppercase run an underscore is inserted only before the last
//     letter of the run when it starts a new word ("EUCountry" -> "eu_country")
//   - any non-alphanumeric character becomes a single underscore, consecutive
//     separators collapse, leading/trailing underscores are stripped
//   - German letters fold to ASCII: ä->a, ö->o, ü->u, Ä->a, Ö->o, Ü->u, ß->ss
//
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(input string) string {
	if input == "" {
		return ""
	}

	runes := []rune(input)
	var b strings.Builder
	b.Grow(len(input) + len(input)/2)

	prevLower := false
	prevUpper := false
	prevUnderscore := true // suppresses a leading underscore

	for i, r := range runes {
		folded, upper, ok := foldRune(r)
		if !ok {
			// Separator: collapse runs into a single underscore.
			if !prevUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				prevUnderscore = true
			}
			prevLower = false
			prevUpper = false
			continue
		}

		if upper {
			if prevLower && !prevUnderscore {
				b.WriteByte('_')
			} else if prevUpper && !prevUnderscore && i+1 < len(runes) && isLowerLetter(runes[i+1]) {
				// End of an uppercase run that starts a new word.
				b.WriteByte('_')
			}
			b.WriteString(folded)
			prevLower = false
			prevUpper = true
			prevUnderscore = false
			continue
		}

		b.WriteString(folded)
		prevLower = isLetterFold(r)
		prevUpper = false
		prevUnderscore = false
	}

	return strings.TrimRight(b.String(), "_")
}

// TableNameFromFile derives a table name from a data file name: the extension
// is stripped, the remainder normalized. "Sachkonten 2024.CSV" -> "sachkonten_2024".
func TableNameFromFile(filename string) string {
	name := filename
	if dot := strings.LastIndexByte(name, '.'); dot > 0 {
		name = name[:dot]
	}
	return Normalize(name)
}

// Pascal converts a snake_case identifier back to PascalCase for descriptor
// output. Round-trips with Normalize: Normalize(Pascal("eu_country")) == "eu_country"
// does not hold for uppercase runs, but holds for names produced by Normalize.
func Pascal(input string) string {
	if input == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(input))
	upperNext := true
	for _, r := range input {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext && r >= 'a' && r <= 'z' {
			b.WriteRune(r - 'a' + 'A')
		} else {
			b.WriteRune(r)
		}
		upperNext = false
	}
	return b.String()
}

// foldRune maps a rune to its lowercase ASCII form. ok is false for
// separator characters. upper reports whether the rune was uppercase.
func foldRune(r rune) (folded string, upper bool, ok bool) {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return string(r), false, true
	case r >= 'A' && r <= 'Z':
		return string(r - 'A' + 'a'), true, true
	}
	switch r {
	case 'ä':
		return "a", false, true
	case 'ö':
		return "o", false, true
	case 'ü':
		return "u", false, true
	case 'Ä':
		return "a", true, true
	case 'Ö':
		return "o", true, true
	case 'Ü':
		return "u", true, true
	case 'ß':
		return "ss", false, true
	}
	return "", false, false
}

// isLetterFold reports whether r folds to a letter (not a digit).
func isLetterFold(r rune) bool {
	if r >= '0' && r <= '9' {
		return false
	}
	_, _, ok := foldRune(r)
	return ok
}

// isLowerLetter reports whether r is a lowercase letter after folding.
func isLowerLetter(r rune) bool {
	folded, upper, ok := foldRune(r)
	if !ok || upper {
		return false
	}
	return folded[0] >= 'a' && folded[0] <= 'z'
}
