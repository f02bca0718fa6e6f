package i18n

import (
	"log"
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"
)

var lang string

var translations = map[string]map[string]string{
	"Pause": {
		"pt": "Pausar",
		"es": "Pausar",
		"ru": "Пауза",
	},
	"Resume": {
		"pt": "Retomar",
		"es": "Reanudar",
		"ru": "Продолжить",
	},
	"Replay": {
		"pt": "Repetir",
		"es": "Repetir",
		"ru": "Повтор",
	},
	"Stop": {
		"pt": "Parar",
		"es": "Parar",
		"ru": "Стоп",
	},
	"About TypeFX": {
		"pt": "Sobre o TypeFX",
		"es": "Acerca de TypeFX",
		"ru": "О TypeFX",
	},
	"Close": {
		"pt": "Fechar",
		"es": "Cerrar",
		"ru": "Закрыть",
	},
}

func init() {
	// Check for override environment variable
	if forcedLang := strings.TrimSpace(os.Getenv("TYPEFX_LANG")); forcedLang != "" {
		log.Printf("TYPEFX_LANG is set to: '%s'", forcedLang)
		lang = forcedLang
		return
	}

	userLocales, err := locale.GetLocales()
	if err != nil {
		log.Println("Could not get user locale, defaulting to english")
		lang = "en"
		return
	}

	if len(userLocales) > 0 {
		locale := userLocales[0]
		log.Printf("Detected user locale: %s", locale)
		if strings.HasPrefix(locale, "pt") {
			lang = "pt"
		} else if strings.HasPrefix(locale, "es") {
			lang = "es"
		} else if strings.HasPrefix(locale, "ru") {
			lang = "ru"
		} else {
			lang = "en"
		}
	} else {
		log.Println("No user locale detected, defaulting to english")
		lang = "en"
	}
	log.Printf("Language set to: %s", lang)
}

func T(key string) string {
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	return key
}

func GetLang() string {
	return lang
}
