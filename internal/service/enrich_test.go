package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/draw"
)

func assignment(position, number int, userID string) draw.Assignment {
	return draw.Assignment{
		Prize:         domain.Prize{Position: position, Description: "prize"},
		WinningNumber: number,
		Owner:         draw.Owner{UserID: userID, CustomData: map[string]string{"k": "v"}, AdminNotes: strPtr("note")},
	}
}

func TestEnricher_Enrich(t *testing.T) {
	users := &fakeUsers{
		users: map[string]domain.User{
			"full":         {ID: "full", Name: strPtr("Ana"), Email: strPtr("ana@example.com"), PhoneNumber: strPtr("+33123")},
			"no-name":      {ID: "no-name", Email: strPtr("bob@example.com")},
			"account-only": {ID: "account-only", AccountEmail: strPtr("carla@login.example.com")},
			"blank":        {ID: "blank", Name: strPtr("  "), Email: strPtr("")},
		},
		err: map[string]error{"broken": errors.New("connection refused")},
	}
	e := NewEnricher(users, 4, time.Second)

	tests := []struct {
		name      string
		userID    string
		wantName  string
		wantEmail string
		wantPhone string
	}{
		{"all fields", "full", "Ana", "ana@example.com", "+33123"},
		{"name falls back to email", "no-name", "bob@example.com", "bob@example.com", PlaceholderPhone},
		{"email falls back to account email", "account-only", "carla@login.example.com", "carla@login.example.com", PlaceholderPhone},
		{"blank values count as missing", "blank", PlaceholderName, PlaceholderEmail, PlaceholderPhone},
		{"not found", "ghost", PlaceholderName, PlaceholderEmail, PlaceholderPhone},
		{"transport error", "broken", PlaceholderName, PlaceholderEmail, PlaceholderPhone},
		{"no owner", "", PlaceholderName, PlaceholderEmail, PlaceholderPhone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Enrich(context.Background(), 1, []draw.Assignment{assignment(1, 77, tt.userID)})

			require.Len(t, got, 1)
			assert.Equal(t, tt.wantName, got[0].WinnerName)
			assert.Equal(t, tt.wantEmail, got[0].WinnerEmail)
			assert.Equal(t, tt.wantPhone, got[0].WinnerPhoneNumber)
			assert.Equal(t, tt.userID, got[0].WinnerUserID)
			assert.Equal(t, 77, got[0].WinningNumber)
			assert.Equal(t, "v", got[0].CustomData["k"])
			assert.Equal(t, "note", *got[0].AdminNotes)
		})
	}
}

func TestEnricher_KeepsAssignmentOrder(t *testing.T) {
	users := &fakeUsers{users: map[string]domain.User{
		"a": {ID: "a", Name: strPtr("A")},
		"b": {ID: "b", Name: strPtr("B")},
		"c": {ID: "c", Name: strPtr("C")},
	}}
	e := NewEnricher(users, 3, 0)

	got := e.Enrich(context.Background(), 1, []draw.Assignment{
		assignment(1, 10, "c"),
		assignment(2, 20, "a"),
		assignment(3, 30, "b"),
	})

	require.Len(t, got, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{got[0].WinnerName, got[1].WinnerName, got[2].WinnerName})
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].PrizePosition, got[1].PrizePosition, got[2].PrizePosition})
}

func TestEnricher_CancelledContextUsesPlaceholders(t *testing.T) {
	users := &fakeUsers{users: map[string]domain.User{"a": {ID: "a", Name: strPtr("A")}}}
	e := NewEnricher(users, 1, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := e.Enrich(ctx, 1, []draw.Assignment{assignment(1, 10, "a")})

	require.Len(t, got, 1)
	assert.Equal(t, PlaceholderName, got[0].WinnerName)
}

func TestEnricher_Empty(t *testing.T) {
	e := NewEnricher(&fakeUsers{}, 0, 0)

	assert.Empty(t, e.Enrich(context.Background(), 1, nil))
}
