package main

import (
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ericogr/sphere-quiz/internal/constants"
)

// target builds the version URL from SPHERE_QUIZ_ADDR (":8080" style).
func target() string {
	port := "8080"
	if addr := os.Getenv(constants.EnvAddr); addr != "" {
		if _, p, err := net.SplitHostPort(addr); err == nil && p != "" {
			port = p
		}
	}
	return "http://" + net.JoinHostPort("127.0.0.1", port) + constants.RouteAPIPrefix + constants.RouteVersion
}

func main() {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(target())
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get(constants.HeaderContentType), constants.ContentTypeJSON) {
		os.Exit(1)
	}
	os.Exit(0)
}
