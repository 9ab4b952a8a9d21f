// Package gigachat is a minimal chat-completions client used to draft
// checkpoint lines and quiz questions from an event's title and description.
// Only the draft's shape is ever validated, and not here: the authoring
// service checks line counts and retries.
package gigachat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const checkpointsPrompt = "Когда пользователь отправит тебе название и описание мероприятия, " +
	"составь 5 контрольных точек этого мероприятия. Это может быть поговорить " +
	"с каким-либо экспертом либо что-то подобное. Каждая контрольная точка - " +
	"с новой строки, без нумерации и пустых строк. Будь креативным."

const questionsPrompt = "Когда пользователь отправит тебе название и описание мероприятия, " +
	"составь 5 контрольных вопросов. Формат каждого вопроса: " +
	"\"Контрольный вопрос\\nОтвет 1\\nОтвет 2\\nОтвет 3\", вопросы разделяй пустой строкой. " +
	"Самый первый ответ должен быть правильным, остальные - нет. " +
	"Эти вопросы будут задаваться после прохождения мероприятия. Будь креативным."

type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
	model      string
}

func NewClient(apiURL, token, model string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		apiURL:     apiURL,
		token:      token,
		model:      model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) DraftCheckpoints(ctx context.Context, title, description string) (string, error) {
	return c.complete(ctx, checkpointsPrompt, title, description)
}

func (c *Client) DraftQuestions(ctx context.Context, title, description string) (string, error) {
	return c.complete(ctx, questionsPrompt, title, description)
}

func (c *Client) complete(ctx context.Context, systemPrompt, title, description string) (string, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Название: %s, описание: %s", title, description)},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gigachat returned %d: %s", resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err = json.Unmarshal(body, &chatResp); err != nil {
		return "", err
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("gigachat returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}
