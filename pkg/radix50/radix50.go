// Package radix50 converts between 16-bit words and the Radix-50 text
// encoding used for file names and types on RSX-11-era volumes. Each word
// packs three characters drawn from a 40-character alphabet.
package radix50

import (
	"fmt"
	"strings"
)

// The 40-character Radix-50 alphabet in code order. Code 29 (%) is defined
// by the encoding but unused in file names.
const alphabet = " ABCDEFGHIJKLMNOPQRSTUVWXYZ$.%0123456789"

// MaxWord is the largest encodable word: all three characters at code 39.
const MaxWord = 39*1600 + 39*40 + 39

// DecodeWord expands one Radix-50 word into its three characters. Words
// above MaxWord have no defined decoding and produce "???".
func DecodeWord(w uint16) string {
	if w > MaxWord {
		return "???"
	}
	var sb strings.Builder
	sb.WriteByte(alphabet[w/1600])
	sb.WriteByte(alphabet[w/40%40])
	sb.WriteByte(alphabet[w%40])
	return sb.String()
}

// Decode expands a sequence of Radix-50 words into a single string,
// three characters per word.
func Decode(words []uint16) string {
	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(DecodeWord(w))
	}
	return sb.String()
}

// EncodeWord packs up to three characters into one Radix-50 word. Shorter
// input is space padded on the right. Characters outside the alphabet are
// an error; lowercase letters are folded to uppercase first.
func EncodeWord(s string) (uint16, error) {
	if len(s) > 3 {
		return 0, fmt.Errorf("radix-50 word holds at most 3 characters, got %q", s)
	}
	s = strings.ToUpper(s)
	var w uint16
	for i := 0; i < 3; i++ {
		c := byte(' ')
		if i < len(s) {
			c = s[i]
		}
		idx := strings.IndexByte(alphabet, c)
		if idx < 0 {
			return 0, fmt.Errorf("character %q is not in the radix-50 alphabet", c)
		}
		w = w*40 + uint16(idx)
	}
	return w, nil
}

// Encode packs a string into Radix-50 words, three characters per word.
// The input is space padded to a multiple of three.
func Encode(s string) ([]uint16, error) {
	words := make([]uint16, 0, (len(s)+2)/3)
	for i := 0; i < len(s); i += 3 {
		end := i + 3
		if end > len(s) {
			end = len(s)
		}
		w, err := EncodeWord(s[i:end])
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}
