// Package emailcheck validates email addresses against syntax and provider
// policy. Validation is pure: deterministic given the package denylists, no
// network lookups.
package emailcheck

import (
	"fmt"
	"regexp"
	"strings"
)

// Result is the outcome of validating a single address.
// Warnings do not affect Valid; they surface likely typos to the caller.
type Result struct {
	Normalized string
	Valid      bool
	Errors     []string
	Warnings   []string
}

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// commonTypos maps a correct provider domain to frequently mistyped variants.
var commonTypos = map[string][]string{
	"gmail.com":   {"gmial.com", "gmail.co", "gmail.con", "gmai.com"},
	"yahoo.com":   {"yaho.com", "yahoo.co", "yahoo.con"},
	"hotmail.com": {"hotmial.com", "hotmail.co", "hotmail.con"},
	"outlook.com": {"outlok.com", "outlook.co", "outlook.con"},
}

// publicProviders are free consumer providers rejected under the
// business-only account policy.
var publicProviders = map[string]struct{}{
	"gmail.com":      {},
	"yahoo.com":      {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"live.com":       {},
	"aol.com":        {},
	"icloud.com":     {},
	"protonmail.com": {},
}

var disposableProviders = map[string]struct{}{
	"yopmail.com": {}, "yopmail.net": {}, "yopmail.org": {}, "yopmail.fr": {},
	"10minutemail.com": {}, "tempmail.org": {}, "guerrillamail.com": {}, "mailinator.com": {},
	"throwaway.email": {}, "temp-mail.org": {}, "getnada.com": {}, "maildrop.cc": {},
	"guerrillamail.biz": {}, "sharklasers.com": {}, "grr.la": {}, "guerrillamail.info": {},
	"guerrillamail.de": {}, "guerrillamail.net": {}, "guerrillamail.org": {},
	"guerrillamailblock.com": {}, "pokemail.net": {}, "spam4.me": {}, "bccto.me": {},
	"chacuo.net": {}, "dispostable.com": {}, "mailnesia.com": {},
	"trashmail.com": {}, "spamgourmet.com": {}, "mailcatch.com": {}, "spam.la": {},
	"binkmail.com": {}, "bobmail.info": {}, "chammy.info": {}, "devnullmail.com": {},
	"letthemeatspam.com": {}, "mailin8r.com": {}, "notmailinator.com": {},
	"reallymymail.com": {}, "safetymail.info": {}, "sogetthis.com": {},
	"spamhereplease.com": {}, "superrito.com": {}, "thisisnotmyrealemail.com": {},
	"tradermail.info": {}, "veryrealemail.com": {}, "wegwerfadresse.de": {},
}

// Validate normalizes (trim, lowercase) and checks the address. An invalid
// result carries at least one error; Normalized is set whenever the raw input
// was non-empty.
func Validate(raw string) Result {
	var res Result
	if strings.TrimSpace(raw) == "" {
		res.Errors = append(res.Errors, "Email is required.")
		return res
	}

	email := strings.ToLower(strings.TrimSpace(raw))
	res.Normalized = email

	if !emailRe.MatchString(email) {
		res.Errors = append(res.Errors, "Invalid email format.")
		return res
	}
	if strings.Contains(email, "..") || strings.HasPrefix(email, ".") || strings.HasSuffix(email, ".") {
		res.Errors = append(res.Errors, "Invalid email format - consecutive dots or leading/trailing dots.")
		return res
	}

	domain := email[strings.LastIndex(email, "@")+1:]

	for correct, typos := range commonTypos {
		for _, typo := range typos {
			if domain == typo {
				suggestion := strings.Replace(email, domain, correct, 1)
				res.Warnings = append(res.Warnings, fmt.Sprintf("Did you mean %s?", suggestion))
			}
		}
	}

	if _, ok := publicProviders[domain]; ok {
		res.Errors = append(res.Errors, "Public email providers are not allowed. Please use a business or custom domain email.")
		return res
	}
	if _, ok := disposableProviders[domain]; ok {
		res.Errors = append(res.Errors, "Temporary or disposable email providers are not allowed. Please use a permanent email address.")
		return res
	}

	res.Valid = true
	return res
}
