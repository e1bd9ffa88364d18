// Command ask sends one question straight to the chat model, without tools
// or memory, and prints the answer.
//
// Usage:
//
//	ask "What is there to do in Fremantle?"
//	echo "question" | ask
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/va6996/routebot/config"
	"github.com/va6996/routebot/log"
)

const requestTimeout = 60 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(context.Background(), "Failed to load config: %v", err)
	}
	log.Init(cfg.Log.Level)

	question, err := readQuestion(os.Args[1:], os.Stdin)
	if err != nil {
		log.Fatalf(context.Background(), "%v", err)
	}
	if cfg.AI.Together.APIKey == "" {
		log.Fatalf(context.Background(), "TOGETHER_API_KEY must be set")
	}

	clientCfg := openai.DefaultConfig(cfg.AI.Together.APIKey)
	clientCfg.BaseURL = cfg.AI.Together.BaseURL
	client := openai.NewClientWithConfig(clientCfg)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	answer, err := ask(ctx, client, cfg.AI.Together.Model, float32(cfg.AI.Temperature), question)
	if err != nil {
		log.Fatalf(ctx, "Chat request failed: %v", err)
	}
	fmt.Println(answer)
}

// readQuestion joins args, or reads stdin when there are none
func readQuestion(args []string, stdin io.Reader) (string, error) {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" && stdin != nil {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read question: %w", err)
		}
		question = strings.TrimSpace(string(b))
	}
	if question == "" {
		return "", errors.New("usage: ask <question>")
	}
	return question, nil
}

func ask(ctx context.Context, client *openai.Client, model string, temperature float32, question string) (string, error) {
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
