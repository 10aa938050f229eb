package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

var (
	defaultTemperature = 0.7
	defaultMaxTokens   = 4096

	templatesToRun = []string{"general", "business", "technical"}
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/slides", "slides endpoint")
	topicsPath := flag.String("topics", "topics.txt", "file with one topic per line")
	apiKey := flag.String("api-key", os.Getenv("OPENAI_API_KEY"), "provider api key")
	flag.Parse()

	topics, err := readTopics(*topicsPath)
	if err != nil {
		log.Fatalf("read topics: %v", err)
	}

	ctx := context.Background()
	client := &http.Client{Timeout: 5 * time.Minute}

	var results []BenchResult
	for _, tpl := range templatesToRun {
		for _, topic := range topics {
			res := benchmarkTopic(ctx, client, *endpoint, *apiKey, topic, tpl)

			if res.Err != nil {
				log.Println("ERR:", res.Topic, res.Template, res.Err)
			} else {
				log.Printf("OK %s/%s %v slides=%d", res.Template, res.Topic, res.Duration, res.Slides)
			}

			results = append(results, res)
		}
	}

	printMarkdown(results)
}

func readTopics(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var topics []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" && !strings.HasPrefix(line, "#") {
			topics = append(topics, line)
		}
	}
	return topics, scanner.Err()
}

func benchmarkTopic(ctx context.Context, client *http.Client, endpoint, apiKey, topic, tpl string) BenchResult {
	start := time.Now()

	req := SlideRequest{
		Topic:        topic,
		TemplateType: tpl,
		Options: &GenerationOptions{
			Temperature: &defaultTemperature,
			MaxTokens:   &defaultMaxTokens,
		},
	}

	resp, err := send(ctx, client, endpoint, apiKey, req)
	res := BenchResult{
		Topic:    topic,
		Template: tpl,
		Duration: time.Since(start),
		Err:      err,
	}
	if err != nil {
		return res
	}

	res.Slides = resp.Metadata.SlideCount
	res.Attempts = resp.Metadata.Attempts
	if resp.Metadata.Usage != nil {
		res.Tokens = resp.Metadata.Usage.TotalTokens
	}
	return res
}

func send(ctx context.Context, client *http.Client, endpoint, apiKey string, req SlideRequest) (*SlideResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal req: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var e ErrorResponse
		if json.Unmarshal(raw, &e) == nil && e.Kind != "" {
			return nil, fmt.Errorf("%s (%d): %s", e.Kind, resp.StatusCode, e.Message)
		}
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out SlideResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func printMarkdown(results []BenchResult) {
	fmt.Println("| Template | Topic | Duration | Slides | Attempts | Tokens | Error |")
	fmt.Println("|---|---|---|---|---|---|---|")
	for _, r := range results {
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		fmt.Printf("| %s | %s | %v | %d | %d | %d | %s |\n",
			r.Template, r.Topic, r.Duration.Round(time.Millisecond), r.Slides, r.Attempts, r.Tokens, errText)
	}

	aggs := map[string]*Agg{}
	for _, r := range results {
		a, ok := aggs[r.Template]
		if !ok {
			a = &Agg{}
			aggs[r.Template] = a
		}
		a.Count++
		if r.Err != nil {
			a.Failed++
			continue
		}
		a.Total += r.Duration
		a.Slides += r.Slides
	}

	names := make([]string, 0, len(aggs))
	for name := range aggs {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println()
	fmt.Println("| Template | Runs | Failed | Avg duration | Avg slides |")
	fmt.Println("|---|---|---|---|---|")
	for _, name := range names {
		a := aggs[name]
		ok := a.Count - a.Failed
		var avg time.Duration
		avgSlides := 0.0
		if ok > 0 {
			avg = a.Total / time.Duration(ok)
			avgSlides = float64(a.Slides) / float64(ok)
		}
		fmt.Printf("| %s | %d | %d | %v | %.1f |\n", name, a.Count, a.Failed, avg.Round(time.Millisecond), avgSlides)
	}
}
