package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

// toxicWords is a tiny lexicon; enough to make local runs produce non-zero scores.
var toxicWords = []string{"idiot", "stupid", "hate", "trash", "moron", "kill"}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Toxicity   float64 `json:"toxicity"`
	Spam       float64 `json:"spam"`
	Confidence float64 `json:"confidence"`
}

type assessRequest struct {
	ReplyID          int64  `json:"reply_id"`
	UserID           int64  `json:"user_id"`
	ReactionType     string `json:"reaction_type"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
	Comment          string `json:"comment"`
}

type assessResponse struct {
	Spam    float64 `json:"spam"`
	Bot     float64 `json:"bot"`
	Anomaly float64 `json:"anomaly"`
}

func analyze(text string) analyzeResponse {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)
	if len(words) == 0 {
		return analyzeResponse{}
	}

	hits := 0
	for _, w := range words {
		for _, t := range toxicWords {
			if strings.Contains(w, t) {
				hits++
			}
		}
	}

	links := strings.Count(lower, "http://") + strings.Count(lower, "https://")

	return analyzeResponse{
		Toxicity:   min(1, float64(hits)*0.35),
		Spam:       min(1, float64(links)*0.3),
		Confidence: min(0.95, 0.5+float64(len(words))/200),
	}
}

func assess(req assessRequest) assessResponse {
	var resp assessResponse

	if req.TimeSpentSeconds < 2 {
		resp.Bot = 0.8
	}
	if strings.Contains(req.Comment, "http") {
		resp.Spam = 0.9
	}
	if req.TimeSpentSeconds > 6*60*60 {
		resp.Anomaly = 0.7
	}

	return resp
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return false
	}
	return true
}

func respond(w http.ResponseWriter, r *http.Request, v interface{}) {
	// Simulate network latency (20-80ms)
	time.Sleep(time.Duration(20+time.Now().UnixNano()%60) * time.Millisecond)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Analyzer] Write error: %v", err)
	}

	log.Printf("[Analyzer] %s %s - 200 OK", r.Method, r.URL.Path)
}

func main() {
	http.HandleFunc("/v1/analyze", func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if decode(w, r, &req) {
			respond(w, r, analyze(req.Text))
		}
	})

	http.HandleFunc("/v1/reactions/assess", func(w http.ResponseWriter, r *http.Request) {
		var req assessRequest
		if decode(w, r, &req) {
			respond(w, r, assess(req))
		}
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[Analyzer] Health write error: %v", err)
		}
	})

	log.Println("Mock analyzer running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
