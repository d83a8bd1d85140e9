//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/stemsi/guesswise-backend/internal/model"
)

const (
	defaultBaseURL = "http://localhost:8080/api/v1"
	playerID       = "e2e_player"
)

var (
	baseURL string
	// dbURL is optional; history checks are skipped without it.
	dbURL string
)

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	dbURL = os.Getenv("DATABASE_URL")

	os.Exit(m.Run())
}

type envelope[T any] struct {
	Data  T `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestE2EFlow(t *testing.T) {
	var roundID string
	var before model.PlayerStatsResponse

	t.Run("Stats Before", func(t *testing.T) {
		resp, err := get("/game/players/" + playerID + "/stats")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("stats status %d: %s", resp.StatusCode, readBody(resp))
		}
		var body envelope[model.PlayerStatsResponse]
		decodeJSON(t, resp, &body)
		before = body.Data
	})

	t.Run("Start Round", func(t *testing.T) {
		resp, err := post("/game/rounds", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("start status %d: %s", resp.StatusCode, readBody(resp))
		}
		var body envelope[model.StartRoundResponse]
		decodeJSON(t, resp, &body)
		roundID = body.Data.RoundID
		if roundID == "" || body.Data.MaxAttempts != 7 {
			t.Fatalf("unexpected start payload: %+v", body.Data)
		}
	})

	t.Run("Invalid Guess Is Free", func(t *testing.T) {
		resp, err := post("/game/rounds/"+roundID+"/guesses", map[string]string{"player_id": playerID, "guess": "abc"})
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", resp.StatusCode, readBody(resp))
		}
		var body envelope[model.GuessResult]
		decodeJSON(t, resp, &body)
		if body.Data.AttemptsUsed != 0 {
			t.Errorf("invalid guess used an attempt: %+v", body.Data)
		}
	})

	var final model.GuessResult
	t.Run("Binary Search Wins", func(t *testing.T) {
		low, high := 1, 100
		for attempt := 1; attempt <= 7; attempt++ {
			guess := (low + high) / 2
			resp, err := post("/game/rounds/"+roundID+"/guesses", map[string]string{"player_id": playerID, "guess": strconv.Itoa(guess)})
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			var body envelope[model.GuessResult]
			decodeJSON(t, resp, &body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("guess status %d: %+v", resp.StatusCode, body.Error)
			}

			final = body.Data
			if final.Ended {
				break
			}
			switch {
			case strings.Contains(final.Message, "Too low"):
				low = guess + 1
			case strings.Contains(final.Message, "Too high"):
				high = guess - 1
			default:
				t.Fatalf("unexpected hint: %q", final.Message)
			}
		}
		if final.Status != model.RoundStatusWon {
			t.Fatalf("binary search should always win, got %+v", final)
		}
		if want := 100 - (final.AttemptsUsed-1)*10; final.Score != want {
			t.Errorf("score %d, want %d", final.Score, want)
		}
	})

	t.Run("Finished Round Rejects Guesses", func(t *testing.T) {
		resp, err := post("/game/rounds/"+roundID+"/guesses", map[string]string{"player_id": playerID, "guess": "50"})
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", resp.StatusCode, readBody(resp))
		}
	})

	t.Run("Stats Counted Once", func(t *testing.T) {
		resp, err := get("/game/players/" + playerID + "/stats")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		var body envelope[model.PlayerStatsResponse]
		decodeJSON(t, resp, &body)

		if body.Data.TotalGames != before.TotalGames+1 || body.Data.GamesWon != before.GamesWon+1 {
			t.Errorf("stats before %+v after %+v", before, body.Data)
		}
		if body.Data.TotalScore != before.TotalScore+final.Score {
			t.Errorf("total score %d, want %d", body.Data.TotalScore, before.TotalScore+final.Score)
		}
	})

	t.Run("Leaderboard", func(t *testing.T) {
		resp, err := get("/leaderboard?limit=3")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		var body envelope[struct {
			Leaderboard []model.LeaderboardEntry `json:"leaderboard"`
		}]
		decodeJSON(t, resp, &body)
		entries := body.Data.Leaderboard
		if len(entries) == 0 || len(entries) > 3 {
			t.Fatalf("unexpected leaderboard size %d", len(entries))
		}
		for i := 1; i < len(entries); i++ {
			if entries[i-1].Score < entries[i].Score {
				t.Errorf("leaderboard not sorted: %+v", entries)
			}
		}
	})

	t.Run("Grade Sheet", func(t *testing.T) {
		resp, err := post("/grades/sheets", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		var created envelope[model.GradeSheet]
		decodeJSON(t, resp, &created)
		resp.Body.Close()
		sheetID := created.Data.ID

		for i, marks := range []int{85, 92, 78} {
			resp, err := send(http.MethodPut, fmt.Sprintf("/grades/sheets/%s/subjects/%d/marks", sheetID, i+1), map[string]int{"marks": marks})
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("set marks status %d: %s", resp.StatusCode, readBody(resp))
			}
			resp.Body.Close()
		}

		resp, err = post("/grades/sheets/"+sheetID+"/calculate", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		var calculated envelope[model.GradeSheet]
		decodeJSON(t, resp, &calculated)
		result := calculated.Data.Result
		if result == nil || result.TotalMarks != 255 || result.AveragePercentage != 85 || result.Grade != "A" {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("History Recorded", func(t *testing.T) {
		if dbURL == "" {
			t.Skip("DATABASE_URL not set")
		}
		ctx := context.Background()
		conn, err := pgx.Connect(ctx, dbURL)
		if err != nil {
			t.Fatalf("db connect: %v", err)
		}
		defer conn.Close(ctx)

		// The history worker flushes in batches; allow a few cycles.
		deadline := time.Now().Add(10 * time.Second)
		for {
			var status string
			err := conn.QueryRow(ctx, `SELECT status FROM games WHERE id = $1`, roundID).Scan(&status)
			if err == nil {
				if status != string(model.RoundStatusWon) {
					t.Errorf("stored status %s", status)
				}
				return
			}
			if time.Now().After(deadline) {
				t.Fatalf("round %s not recorded: %v", roundID, err)
			}
			time.Sleep(500 * time.Millisecond)
		}
	})
}

// Helpers

func send(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func post(path string, body interface{}) (*http.Response, error) {
	return send(http.MethodPost, path, body)
}

func get(path string) (*http.Response, error) {
	return send(http.MethodGet, path, nil)
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("json decode: %v", err)
	}
}
