package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/csg33k/wc-intake/internal/adapters/pdf"
	"github.com/csg33k/wc-intake/internal/adapters/signature"
	"github.com/csg33k/wc-intake/internal/adapters/upload"
	"github.com/csg33k/wc-intake/internal/handlers"
	"github.com/csg33k/wc-intake/internal/intake"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	minAge := envInt("MIN_AGE", intake.MinAge)
	maxUploadMB := envInt("MAX_UPLOAD_MB", 10)

	engine := intake.New(intake.WithMinAge(minAge))
	files := upload.NewReader(int64(maxUploadMB) << 20)
	h := handlers.New(engine, signature.NewReader(), files, pdf.New()).
		WithMaxMemory(int64(maxUploadMB) << 20)

	log.Printf("Workers' Comp Claim Intake running on http://localhost:%s", port)
	log.Printf("Minimum employee age: %d, upload limit: %d MB", engine.MinAge(), maxUploadMB)
	if err := http.ListenAndServe(":"+port, h.Routes()); err != nil {
		log.Fatal(err)
	}
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		slog.Warn("ignoring invalid setting", "name", name, "value", v, "default", def)
		return def
	}
	return n
}
