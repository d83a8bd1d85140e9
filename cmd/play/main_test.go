package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/guesswise-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// targetFifty makes every round's target 50.
type targetFifty struct{}

func (targetFifty) IntN(int) int { return 49 }

func TestPlayRounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxRounds int
		want      []string
		wantStats string
	}{
		{
			name:      "win after hints",
			input:     "20\nabc\n70\n50\n",
			maxRounds: 1,
			want: []string{
				"📈 Too low! Try a higher number. 6 attempts remaining.",
				"⚠️ Please enter a valid number between 1 and 100",
				"📉 Too high! Try a lower number. 5 attempts remaining.",
				"🎉 Congratulations! You guessed it in 3 attempts! (+80 points)",
			},
			wantStats: "Games: 1  Won: 1  Win rate: 100%  Score: 80  Streak: 1 (best 1)",
		},
		{
			name:      "loss",
			input:     strings.Repeat("1\n", 7),
			maxRounds: 1,
			want:      []string{"😔 Game over! The number was 50. Better luck next time!"},
			wantStats: "Games: 1  Won: 0  Win rate: 0%  Score: 0  Streak: 0 (best 0)",
		},
		{
			name:      "two rounds",
			input:     "50\n50\n",
			maxRounds: 2,
			want:      []string{"🎉 Congratulations! You guessed it in 1 attempt! (+100 points)"},
			wantStats: "Games: 2  Won: 2  Win rate: 100%  Score: 200  Streak: 2 (best 2)",
		},
		{
			name:  "quit mid round",
			input: "10\nq\n",
			want:  []string{"📈 Too low!"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newGameService(zerolog.Nop(), targetFifty{})
			var out bytes.Buffer

			err := playRounds(context.Background(), strings.NewReader(tt.input), &out, svc, "tester", tt.maxRounds, false)
			require.NoError(t, err)

			got := out.String()
			assert.Contains(t, got, service.StartPrompt)
			assert.NotContains(t, got, "> ", "no prompts for piped input")
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			if tt.wantStats != "" {
				assert.Contains(t, got, tt.wantStats)
			}
		})
	}
}

func TestPlayRounds_InteractivePrompts(t *testing.T) {
	svc := newGameService(zerolog.Nop(), targetFifty{})
	var out bytes.Buffer

	require.NoError(t, playRounds(context.Background(), strings.NewReader("50\n"), &out, svc, "tester", 1, true))
	assert.Contains(t, out.String(), "> ")
}

func TestGradeSubjects(t *testing.T) {
	svc := service.NewGradeService(nil, nil, nil, zerolog.Nop())

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{"grades subjects", []string{"Mathematics=85", "Science=92", "English=78"}, "Total: 255  Average: 85.00%  Grade: A", ""},
		{"single subject", []string{"Art=45"}, "Grade: F", ""},
		{"no args", nil, "", "at least one"},
		{"missing marks", []string{"Mathematics"}, "", "name=marks"},
		{"non-numeric marks", []string{"Mathematics=lots"}, "", "whole number"},
		{"out of range", []string{"Mathematics=120"}, "", "marks must be between"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := gradeSubjects(&out, svc, tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.want)
		})
	}
}
