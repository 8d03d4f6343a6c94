// Package numbering compone y valida el nomor_kepesertaan ({kode_toko}-{n}) y el kode_toko.
package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxStoreCodeLen longitud máxima del kode_toko (columna varchar(20)).
const MaxStoreCodeLen = 20

var storeCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,20}$`)

// Format compone el nomor_kepesertaan. Sin relleno de ceros: TOKO001-1, TOKO001-789.
func Format(storeCode string, n int64) string {
	return storeCode + "-" + strconv.FormatInt(n, 10)
}

// Parse separa un nomor_kepesertaan en kode_toko y número.
func Parse(number string) (storeCode string, n int64, err error) {
	i := strings.LastIndexByte(number, '-')
	if i <= 0 || i == len(number)-1 {
		return "", 0, fmt.Errorf("nomor_kepesertaan inválido: %q", number)
	}
	n, err = strconv.ParseInt(number[i+1:], 10, 64)
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("nomor_kepesertaan inválido: %q", number)
	}
	storeCode = number[:i]
	if !ValidStoreCode(storeCode) {
		return "", 0, fmt.Errorf("kode_toko inválido en %q", number)
	}
	return storeCode, n, nil
}

// NormalizeStoreCode quita acentos, espacios y separadores y pasa a mayúsculas.
// "toko-001" → "TOKO001", "Sémarang 2" → "SEMARANG2".
func NormalizeStoreCode(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, strings.TrimSpace(raw))
	if err != nil {
		s = raw
	}
	s = cases.Upper(language.Und).String(s)
	var b strings.Builder
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidStoreCode alfanumérico en mayúsculas, 2 a 20 caracteres.
func ValidStoreCode(code string) bool {
	return storeCodePattern.MatchString(code)
}
