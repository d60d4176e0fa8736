package story

import (
	"fmt"
	"strings"
)

// PlanPrompt asks for a three-part origin story outline as bare JSON.
func PlanPrompt(topic string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Je gaat een ontstaan verhaal vertellen over \"%s\" voor kinderen van 6-10 jaar in het Nederlands.\n\n", topic))
	b.WriteString("Maak een plan voor een verhaal in 3 delen:\n")
	b.WriteString("1. Het begin/oorsprong\n")
	b.WriteString("2. De ontwikkeling/verandering\n")
	b.WriteString("3. Hoe het nu is\n\n")
	b.WriteString("Geef alleen een korte samenvatting van elk deel (1-2 zinnen per deel). Reageer alleen met geldige JSON:\n\n")
	b.WriteString("{\n")
	b.WriteString("  \"deel1\": \"korte beschrijving van deel 1\",\n")
	b.WriteString("  \"deel2\": \"korte beschrijving van deel 2\",\n")
	b.WriteString("  \"deel3\": \"korte beschrijving van deel 3\"\n")
	b.WriteString("}\n\n")
	b.WriteString("BELANGRIJK: Geef ALLEEN JSON terug, geen andere tekst.")
	return b.String()
}

// PartPrompt asks for part n. previous is the text of part n-1 and is ignored
// for the first part.
func PartPrompt(topic string, n int, outline, previous string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Schrijf deel %d van een verhaal over het ontstaan van \"%s\" voor kinderen van 6-10 jaar in het Nederlands.\n\n", n, topic))
	b.WriteString(fmt.Sprintf("Plan voor dit deel: %s\n\n", outline))
	var opening, previousEnd string
	if n == 1 {
		opening = "Begin met \"Lang, lang geleden...\" of iets soortgelijks."
	}
	if n > 1 {
		previousEnd = fmt.Sprintf("Vorig deel eindigde met: \"%s...\"", Tail(previous, TailLength))
	}
	b.WriteString(opening + "\n")
	b.WriteString(previousEnd + "\n\n")
	b.WriteString("Schrijf een leuk, kort verhaal van ongeveer 70-90 woorden. Maak het spannend en begrijpelijk voor kinderen. Gebruik emoji's om het extra leuk te maken.\n\n")
	b.WriteString("Geef alleen het verhaal terug, geen andere tekst.")
	return b.String()
}

// Tail returns the last n characters of s.
func Tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
