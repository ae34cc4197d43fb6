// internal/voice/phone.go
package voice

import "strings"

// NormalizePhone canonicalizes a destination number to +<digits> form before
// it is sent to the provider. Numbers without an international prefix get
// defaultCountry (e.g. "254") prepended; a leading 0 is a national trunk
// prefix and is dropped first.
func NormalizePhone(raw, defaultCountry string) string {
    var b strings.Builder
    for _, r := range raw {
        if r >= '0' && r <= '9' {
            b.WriteRune(r)
        }
    }
    digits := b.String()
    if digits == "" {
        return ""
    }

    if strings.HasPrefix(strings.TrimSpace(raw), "+") {
        return "+" + digits
    }

    if strings.HasPrefix(digits, "0") {
        digits = strings.TrimLeft(digits, "0")
        return "+" + defaultCountry + digits
    }

    if defaultCountry != "" && strings.HasPrefix(digits, defaultCountry) {
        return "+" + digits
    }

    return "+" + defaultCountry + digits
}
