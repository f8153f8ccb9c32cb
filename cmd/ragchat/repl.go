package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"ragchat/pkg/citation"
	"ragchat/pkg/ragchat"
)

// asker is the slice of the client the loop needs; tests stub it.
type asker interface {
	Ask(ctx context.Context, question string) (ragchat.Answer, error)
}

// runLoop reads questions one line at a time until EOF, an empty line, or
// "exit". Failed round trips are reported and the loop continues.
func runLoop(ctx context.Context, client asker, in io.Reader, out io.Writer) error {
	_, _ = fmt.Fprintln(out, "RAG Client Ready! Enter your questions (type 'exit' to quit):")
	_, _ = fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(out, "Question: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" || strings.EqualFold(query, "exit") {
			break
		}

		answer, err := client.Ask(ctx, query)
		if err != nil {
			_, _ = fmt.Fprintf(out, "Error: %v\n\n", err)
			continue
		}
		printAnswer(out, answer)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	_, _ = fmt.Fprintln(out, "Goodbye!")
	return nil
}

// runOnce tests the connection, then sends a single query and returns.
func runOnce(ctx context.Context, client *ragchat.Client, query string, out io.Writer) error {
	_, _ = fmt.Fprintln(out, "Testing basic Azure OpenAI connection...")
	greeting, err := client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Connected to Azure AI: %s\n\n", greeting)

	_, _ = fmt.Fprintln(out, "Starting RAG query...")
	answer, err := client.Ask(ctx, query)
	if err != nil {
		return err
	}
	printAnswer(out, answer)
	return nil
}

// printAnswer writes the answer followed by its numbered citations.
func printAnswer(out io.Writer, answer ragchat.Answer) {
	_, _ = fmt.Fprintf(out, "\nAnswer: %s\n\n", answer.Content)
	if len(answer.Citations) == 0 {
		return
	}

	_, _ = color.New(color.FgYellow).Fprintln(out, "Citations:")
	for i, c := range answer.Citations {
		_, _ = fmt.Fprintln(out, citation.Format(c, i+1))
	}
	_, _ = fmt.Fprintln(out)
}
