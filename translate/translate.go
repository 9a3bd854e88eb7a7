// Package translate formats user-visible messages for the uvm tools in the
// language of the current locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("uvm: locale: %v", err)
	}

	Use(locales...)
}

// Use selects the message printer for the first matching language.
// With no languages, en-US is used.
func Use(languages ...string) {
	if len(languages) == 0 {
		languages = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(languages...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
