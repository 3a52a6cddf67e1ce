package utils

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/avalonia-tools/avalint/constants/lipgloss"
)

// ConfirmPrompt asks a yes/no question and reads one answer line. Empty
// input and EOF count as "no".
func ConfirmPrompt(reader *bufio.Reader, question string) (bool, error) {
	fmt.Print(lipgloss.BlueSky.Render(question + " [y/N] "))

	answer, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("error reading input: %w", err)
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// ConfirmPromptWithContext asks a yes/no question with context cancellation
// support, so Ctrl+C during a fix session exits cleanly.
func ConfirmPromptWithContext(ctx context.Context, reader *bufio.Reader, question string) (bool, error) {
	answerChan := make(chan bool, 1)
	errChan := make(chan error, 1)

	go func() {
		ok, err := ConfirmPrompt(reader, question)
		if err != nil {
			errChan <- err
			return
		}
		answerChan <- ok
	}()

	select {
	case <-ctx.Done():
		fmt.Println() // newline for clean exit
		return false, ctx.Err()
	case err := <-errChan:
		return false, err
	case answer := <-answerChan:
		return answer, nil
	}
}
