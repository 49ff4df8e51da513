package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// WAV header is 44 bytes for standard PCM files
const wavHeaderSize = 44

func main() {
	audioFile := flag.String("audio", "../../testdata/sample-8khz.wav", "Path to WAV file (8kHz 16-bit mono)")
	serverAddr := flag.String("server", "http://localhost:3000", "Gateway base URL")
	flag.Parse()

	// Open audio file
	f, err := os.Open(*audioFile)
	if err != nil {
		log.Fatalf("Failed to open audio file: %v", err)
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		log.Fatalf("Failed to read audio file: %v", err)
	}
	if len(buf) < wavHeaderSize {
		log.Fatal("File shorter than a WAV header")
	}

	// Validate it's a WAV file
	if string(buf[0:4]) != "RIFF" || string(buf[8:12]) != "WAVE" {
		log.Fatal("Not a valid WAV file")
	}

	// Extract audio format info
	audioFormat := binary.LittleEndian.Uint16(buf[20:22])
	numChannels := binary.LittleEndian.Uint16(buf[22:24])
	sampleRate := binary.LittleEndian.Uint32(buf[24:28])
	bitsPerSample := binary.LittleEndian.Uint16(buf[34:36])

	log.Printf("WAV file: format=%d channels=%d sampleRate=%d bitsPerSample=%d size=%d",
		audioFormat, numChannels, sampleRate, bitsPerSample, len(buf))

	if audioFormat != 1 { // PCM
		log.Fatal("Only PCM format supported")
	}
	if sampleRate != 8000 {
		log.Printf("Warning: Sample rate is %d Hz, expected 8000 Hz", sampleRate)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	url := *serverAddr + "/v1/audio/reply"

	log.Printf("Posting %d bytes to %s", len(buf), url)
	start := time.Now()

	resp, err := client.Post(url, "audio/wav", bytes.NewReader(buf))
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Gateway returned %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Result *struct {
			Text         string  `json:"text"`
			Intent       string  `json:"intent"`
			Confidence   float64 `json:"confidence"`
			SegmentCount int     `json:"segment_count"`
		} `json:"result"`
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		log.Fatalf("Failed to decode response: %v", err)
	}

	log.Printf("Completed in %v", time.Since(start))
	if out.Result == nil {
		fmt.Println("No usable speech recognized")
		return
	}
	fmt.Printf("Transcript:  %s\n", out.Result.Text)
	fmt.Printf("Intent:      %s (confidence %.2f, %d segments)\n",
		out.Result.Intent, out.Result.Confidence, out.Result.SegmentCount)
	fmt.Printf("Reply:       %s\n", out.Reply)
}
