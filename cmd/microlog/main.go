package main

import (
	"log"
	"strings"

	"github.com/esker/microlog"
)

func main() {
	cfg := microlog.SiteConfig{
		Name:        microlog.EnvOr("SITE_NAME", "Microblog"),
		URL:         strings.TrimSuffix(microlog.EnvOr("SITE_URL", "http://localhost:3000"), "/"),
		Description: microlog.EnvOr("SITE_DESCRIPTION", ""),

		Addr:         microlog.EnvOr("LISTEN_ADDR", ":3000"),
		LedgerPath:   microlog.EnvOr("LEDGER_PATH", "data/posted.txt"),
		QueuePath:    microlog.EnvOr("QUEUE_PATH", "data/topost.txt"),
		ImagesDir:    microlog.EnvOr("IMAGES_DIR", "data/images"),
		DatabasePath: microlog.EnvOr("DATABASE_PATH", "data/microlog.db"),

		AdminPassword: microlog.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: microlog.MustEnv("SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(microlog.EnvOr("COOKIE_SECURE", ""), "true"),
	}

	app := microlog.New(cfg)
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
