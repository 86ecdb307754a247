// Command shorten submits a URL to a running shortly server and prints
// the resulting short link.
//
//	SHORTLY_URL=http://localhost:8080 shorten https://example.com/long
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/imroc/req/v3"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: shorten <long-url>")
		os.Exit(1)
	}
	longURL := os.Args[1]

	base := strings.TrimRight(os.Getenv("SHORTLY_URL"), "/")
	if base == "" {
		base = "http://localhost:8080"
	}

	client := req.C().
		SetTimeout(10 * time.Second).
		SetCommonHeader("Content-Type", "application/json")

	var out struct {
		ShortCode string `json:"short_code"`
	}
	var apiErr struct {
		Error string `json:"error"`
	}

	resp, err := client.R().
		SetBody(map[string]string{"long_url": longURL}).
		SetSuccessResult(&out).
		SetErrorResult(&apiErr).
		Post(base + "/api/shorten")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error shortening URL: %v\n", err)
		os.Exit(1)
	}
	if resp.IsErrorState() {
		msg := apiErr.Error
		if msg == "" {
			msg = resp.Status
		}
		fmt.Fprintf(os.Stderr, "error shortening URL: %s\n", msg)
		os.Exit(1)
	}

	fmt.Printf("Shortened URL: %s/%s\n", base, out.ShortCode)
}
