package main

import (
	"net/http"
	"os"
	"time"

	"github.com/opark001/vertex-gemini-web/internal/constants"
)

func main() {
	port := os.Getenv(constants.EnvPort)
	if port == "" {
		port = constants.DefaultPort
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://127.0.0.1:" + port + constants.RouteAPIPrefix + constants.RouteVersion)
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		os.Exit(1)
	}
	os.Exit(0)
}
