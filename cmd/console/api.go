package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"dungeonmaster/pkg/game"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type startGameResponse struct {
	Success     bool             `json:"success"`
	SessionID   string           `json:"session_id"`
	Story       string           `json:"story"`
	Choices     []string         `json:"choices"`
	PlayerStats game.PlayerStats `json:"player_stats"`
}

type makeChoiceResponse struct {
	Success      bool             `json:"success"`
	Story        string           `json:"story"`
	Choices      []string         `json:"choices"`
	PlayerStats  game.PlayerStats `json:"player_stats"`
	PlayerAction string           `json:"player_action"`
}

type saveGameResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
}

func postJSON(client *http.Client, url string, reqBody, out any) error {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("%s", errResp.Error)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func startGame(client *http.Client, baseURL, playerName string) (*startGameResponse, error) {
	var resp startGameResponse
	err := postJSON(client, baseURL+"/api/start-game",
		map[string]string{"player_name": playerName}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func makeChoice(client *http.Client, baseURL, sessionID string, choiceIndex int) (*makeChoiceResponse, error) {
	var resp makeChoiceResponse
	err := postJSON(client, baseURL+"/api/make-choice",
		map[string]any{"session_id": sessionID, "choice_index": choiceIndex}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func saveGame(client *http.Client, baseURL, sessionID, saveName string) (*saveGameResponse, error) {
	var resp saveGameResponse
	err := postJSON(client, baseURL+"/api/save-game",
		map[string]string{"session_id": sessionID, "save_name": saveName}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func endSession(client *http.Client, baseURL, sessionID string) error {
	var resp errorResponse
	return postJSON(client, baseURL+"/api/end-session",
		map[string]string{"session_id": sessionID}, &resp)
}
