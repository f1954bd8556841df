// Package i18n renders user-facing confirmation and notification text in
// the languages the product ships. Tags are matched with x/text so
// regional variants ("hi-IN") land on the right base language.
package i18n

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.English, // en, the fallback
	language.Hindi,   // hi
	language.Marathi, // mr
}

var matcher = language.NewMatcher(supported)

// Match resolves a BCP-47 tag string to the closest supported language.
// Unknown or empty tags fall back to English.
func Match(tag string) language.Tag {
	if tag == "" {
		return language.English
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return language.English
	}
	matched, _, _ := matcher.Match(parsed)
	// The matcher returns extended tags; collapse to the supported base.
	base, _ := matched.Base()
	for _, s := range supported {
		if sb, _ := s.Base(); sb == base {
			return s
		}
	}
	return language.English
}

// CreditConfirmation renders the read-back text for a recorded credit
func CreditConfirmation(tag string, name string, amount, balance decimal.Decimal) string {
	switch Match(tag) {
	case language.Hindi:
		return fmt.Sprintf("%s के खाते में %s की उधारी दर्ज की गई। कुल बकाया: %s", name, amount.StringFixed(2), balance.StringFixed(2))
	case language.Marathi:
		return fmt.Sprintf("%s च्या खात्यात %s ची उधारी नोंदवली. एकूण थकबाकी: %s", name, amount.StringFixed(2), balance.StringFixed(2))
	default:
		return fmt.Sprintf("Recorded credit of %s for %s. Outstanding balance: %s", amount.StringFixed(2), name, balance.StringFixed(2))
	}
}

// PaymentConfirmation renders the read-back text for a recorded payment
func PaymentConfirmation(tag string, name string, amount, balance decimal.Decimal) string {
	switch Match(tag) {
	case language.Hindi:
		return fmt.Sprintf("%s से %s का भुगतान दर्ज किया गया। शेष बकाया: %s", name, amount.StringFixed(2), balance.StringFixed(2))
	case language.Marathi:
		return fmt.Sprintf("%s कडून %s चे पेमेंट नोंदवले. उर्वरित थकबाकी: %s", name, amount.StringFixed(2), balance.StringFixed(2))
	default:
		return fmt.Sprintf("Recorded payment of %s from %s. Remaining balance: %s", amount.StringFixed(2), name, balance.StringFixed(2))
	}
}

// PaymentReceipt renders the SMS sent to a customer after their payment
// is recorded
func PaymentReceipt(tag string, name string, amount, balance decimal.Decimal) string {
	switch Match(tag) {
	case language.Hindi:
		return fmt.Sprintf("नमस्ते %s, आपका %s का भुगतान मिल गया। शेष बकाया: %s", name, amount.StringFixed(2), balance.StringFixed(2))
	case language.Marathi:
		return fmt.Sprintf("नमस्कार %s, तुमचे %s चे पेमेंट मिळाले. उर्वरित थकबाकी: %s", name, amount.StringFixed(2), balance.StringFixed(2))
	default:
		return fmt.Sprintf("Hello %s, your payment of %s was received. Remaining balance: %s", name, amount.StringFixed(2), balance.StringFixed(2))
	}
}
