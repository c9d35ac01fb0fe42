package provider

import "strings"

const (
	emptyFieldPlaceholder = "-"
	phonePlaceholder      = "0000000000"
	minPhoneLength        = 10
)

// OrDash trims s and returns "-" when nothing is left. The processor
// rejects empty fields.
func OrDash(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return emptyFieldPlaceholder
	}
	return s
}

// PhoneOrPlaceholder trims s and returns a ten zero placeholder for numbers
// shorter than ten characters.
func PhoneOrPlaceholder(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < minPhoneLength {
		return phonePlaceholder
	}
	return s
}

// Website derives the f_website value from a store location URL.
func Website(storeLocation string) string {
	w := strings.ToLower(storeLocation)
	w = strings.ReplaceAll(w, "www.", "")
	w = strings.ReplaceAll(w, "https://", "")
	w = strings.ReplaceAll(w, "http://", "")
	return w
}
