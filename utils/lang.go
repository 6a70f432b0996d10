package utils

import (
	"embed"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

var (
	bundle     *i18n.Bundle
	bundleOnce sync.Once
)

func InitI18NBundle() {
	bundleOnce.Do(func() {
		bundle = i18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
		for _, f := range []string{"locales/en.yaml", "locales/zh-Hant.yaml"} {
			if _, err := bundle.LoadMessageFileFS(localeFS, f); err != nil {
				panic(err)
			}
		}
	})
}

func NewLocalizer(lang string) *i18n.Localizer {
	InitI18NBundle()
	return i18n.NewLocalizer(bundle, lang)
}

// Localize returns the message for lang. The default message is used when
// neither lang nor english has a translation.
func Localize(lang string, message *i18n.Message) string {
	// a translation missing in lang comes back in english along with an error
	text, _ := NewLocalizer(lang).Localize(&i18n.LocalizeConfig{
		DefaultMessage: message,
	})
	if text == "" {
		return message.Other
	}
	return text
}
