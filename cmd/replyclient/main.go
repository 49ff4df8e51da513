package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

func main() {
	serverAddr := flag.String("server", "http://localhost:3000", "Gateway base URL")
	intentName := flag.String("intent", "pricing_inquiry", "Intent to generate a reply for")
	userText := flag.String("text", "how much does a 10 yard dumpster cost", "Caller text")
	flag.Parse()

	payload, err := json.Marshal(map[string]string{
		"intent":   *intentName,
		"userText": *userText,
	})
	if err != nil {
		log.Fatalf("Failed to marshal request: %v", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	url := *serverAddr + "/v1/reply/test"

	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		Intent string `json:"intent"`
		Reply  string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Fatalf("Failed to decode response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Gateway returned %d", resp.StatusCode)
	}

	fmt.Printf("Intent: %s\n", out.Intent)
	fmt.Printf("Reply:  %s\n", out.Reply)
}
