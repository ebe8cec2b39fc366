// Package morse converts text to Morse element schedules and back.
package morse

import (
	"strings"
	"unicode"
)

var codes = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.",
	'D': "-..", 'E': ".", 'F': "..-.",
	'G': "--.", 'H': "....", 'I': "..",
	'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---",
	'P': ".--.", 'Q': "--.-", 'R': ".-.",
	'S': "...", 'T': "-", 'U': "..-",
	'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..",
	'1': ".----", '2': "..---", '3': "...--",
	'4': "....-", '5': ".....", '6': "-....",
	'7': "--...", '8': "---..", '9': "----.",
	'0': "-----",
	'.': ".-.-.-", ',': "--..--", '?': "..--..",
	'"': ".-..-.", '/': "-..-.", ':': "---...",
	'\'': ".----.",
	'-':  "-....-",
	'=':  "-...-",  // BT
	'+':  ".-.-.",  // AR
	'&':  ".-...",  // AS
	'$':  "...-.-", // SK
	'@':  ".--.-.",
}

var runes = func() map[string]rune {
	m := make(map[string]rune, len(codes))
	for r, code := range codes {
		m[code] = r
	}
	return m
}()

// Code returns the dot/dash pattern of r.
func Code(r rune) (string, bool) {
	code, ok := codes[unicode.ToUpper(r)]
	return code, ok
}

// Lookup returns the character sent as code.
func Lookup(code string) (rune, bool) {
	r, ok := runes[code]
	return r, ok
}

// Symbol is one step of a keying schedule.
type Symbol int

// Symbols
const (
	Dit Symbol = iota
	Dah
	// ElementGap separates elements inside a character.
	ElementGap
	// CharacterGap separates characters, measured from element end.
	CharacterGap
	// WordGap separates words, measured from element end.
	WordGap
)

// IsTone reports whether the key is down during s.
func (s Symbol) IsTone() bool {
	return s == Dit || s == Dah
}

func (s Symbol) String() string {
	switch s {
	case Dit:
		return "."
	case Dah:
		return "-"
	case ElementGap:
		return ""
	case CharacterGap:
		return " "
	case WordGap:
		return " / "
	}
	return "?"
}

// Encode converts text into a schedule. Characters without a Morse
// code are skipped and returned separately; whitespace runs collapse
// into a single word gap.
func Encode(text string) (schedule []Symbol, skipped []rune) {
	words := strings.Fields(text)
	for w, word := range words {
		sentChar := false
		for _, r := range word {
			code, ok := Code(r)
			if !ok {
				skipped = append(skipped, r)
				continue
			}
			if sentChar {
				schedule = append(schedule, CharacterGap)
			} else if w > 0 && len(schedule) > 0 {
				schedule = append(schedule, WordGap)
			}
			sentChar = true
			for n, el := range code {
				if n > 0 {
					schedule = append(schedule, ElementGap)
				}
				if el == '-' {
					schedule = append(schedule, Dah)
				} else {
					schedule = append(schedule, Dit)
				}
			}
		}
	}
	return
}

// Format renders a schedule as dots and dashes.
func Format(schedule []Symbol) string {
	var sb strings.Builder
	for _, s := range schedule {
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Decoder reassembles characters from elements reported by a keyer.
type Decoder struct {
	code strings.Builder
	text strings.Builder
}

// Element records a sent element.
func (d *Decoder) Element(dah bool) {
	if dah {
		d.code.WriteByte('-')
	} else {
		d.code.WriteByte('.')
	}
}

// EndCharacter closes the current character. Unknown patterns decode
// as '*'.
func (d *Decoder) EndCharacter() rune {
	if d.code.Len() == 0 {
		return 0
	}
	r, ok := Lookup(d.code.String())
	if !ok {
		r = '*'
	}
	d.code.Reset()
	d.text.WriteRune(r)
	return r
}

// EndWord closes the current word.
func (d *Decoder) EndWord() {
	d.EndCharacter()
	if d.text.Len() > 0 {
		d.text.WriteByte(' ')
	}
}

// Text returns everything decoded so far and clears it.
func (d *Decoder) Text() string {
	s := strings.TrimSpace(d.text.String())
	d.text.Reset()
	return s
}
