// market/instruments.go
package market

import (
	"fmt"
	"sort"
)

// Instruments maps every quotable instrument code to its display name.
// The catalog is fixed at build time; a code outside this table is an
// invalid-input error at every boundary.
var Instruments = map[string]string{
	"ALTIN":        "Gram Gold",
	"USDPURE":      "USD Pure",
	"ONS":          "Gold Ounce",
	"USDKG":        "USD/KG",
	"EURKG":        "EUR/KG",
	"GBPTRY":       "GBP/TRY",
	"AYAR22":       "22 Carat Gold",
	"KULCEALTIN":   "Gold Bullion",
	"XAUXAG":       "XAU/XAG",
	"CEYREK_YENI":  "Quarter Gold (New)",
	"CEYREK_ESKI":  "Quarter Gold (Old)",
	"YARIM_YENI":   "Half Gold (New)",
	"YARIM_ESKI":   "Half Gold (Old)",
	"TEK_YENI":     "Full Gold (New)",
	"TEK_ESKI":     "Full Gold (Old)",
	"ATA_YENI":     "Ata Gold (New)",
	"ATA_ESKI":     "Ata Gold (Old)",
	"ATA5_YENI":    "5x Ata Gold (New)",
	"ATA5_ESKI":    "5x Ata Gold (Old)",
	"GREMESE_YENI": "Gremese Gold (New)",
	"GREMESE_ESKI": "Gremese Gold (Old)",
	"AYAR14":       "14 Carat Gold",
	"XPTUSD":       "XPT/USD",
	"PLATIN":       "Platinum",
	"NOKTRY":       "NOK/TRY",
	"USDTRY":       "USD/TRY",
	"EURTRY":       "EUR/TRY",
	"CHFTRY":       "CHF/TRY",
	"AUDTRY":       "AUD/TRY",
	"CADTRY":       "CAD/TRY",
	"SARTRY":       "SAR/TRY",
	"JPYTRY":       "JPY/TRY",
	"SEKTRY":       "SEK/TRY",
	"DKKTRY":       "DKK/TRY",
	"USDJPY":       "USD/JPY",
	"GUMUSTRY":     "Silver/TRY",
	"XPDUSD":       "XPD/USD",
	"PALADYUM":     "Palladium",
	"EURUSD":       "EUR/USD",
	"USDCHF":       "USD/CHF",
	"XAGUSD":       "XAG/USD",
	"GUMUSUSD":     "Silver/USD",
	"USDCAD":       "USD/CAD",
	"GBPUSD":       "GBP/USD",
	"AUDUSD":       "AUD/USD",
	"USDSAR":       "USD/SAR",
	"USDILS":       "USD/ILS",
	"ILSTRY":       "ILS/TRY",
}

// Valid reports whether code is in the instrument catalog.
func Valid(code string) bool {
	_, ok := Instruments[code]
	return ok
}

// Name returns the display name for code, or the code itself when the
// catalog has no entry for it.
func Name(code string) string {
	if name, ok := Instruments[code]; ok {
		return name
	}
	return code
}

// Codes returns every catalog code in lexical order.
func Codes() []string {
	codes := make([]string, 0, len(Instruments))
	for code := range Instruments {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ValidateCode rejects codes outside the catalog.
func ValidateCode(code string) error {
	if !Valid(code) {
		return fmt.Errorf("unknown instrument %q: %w", code, ErrUnknownInstrument)
	}
	return nil
}
