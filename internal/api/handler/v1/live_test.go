package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"
)

func startLiveServer(t *testing.T, svc RaffleService) (*LiveHandler, string) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	hub := NewLiveHandler(svc, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/raffles/:raffleID/live", hub.HandleLive)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestLiveHandler_PushesOutcomesOfTheWatchedRaffle(t *testing.T) {
	svc := &fakeRaffleService{raffles: map[uint]domain.Raffle{
		1: {ID: 1, Status: domain.RaffleActive},
	}}
	hub, baseURL := startLiveServer(t, svc)
	conn := dial(t, baseURL+"/raffles/1/live")

	// The client may not be registered yet, keep publishing until it hears something.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hub.Publish(domain.DrawOutcome{RaffleID: 2, Status: domain.RaffleFinished})
				hub.Publish(domain.DrawOutcome{RaffleID: 1, Status: domain.RaffleFinished, Winners: []domain.WinnerRecord{{WinningNumber: 7}}})
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for i := 0; i < 3; i++ {
		var outcome domain.DrawOutcome
		require.NoError(t, conn.ReadJSON(&outcome))
		assert.Equal(t, uint(1), outcome.RaffleID)
		require.Len(t, outcome.Winners, 1)
		assert.Equal(t, 7, outcome.Winners[0].WinningNumber)
	}
}

func TestLiveHandler_SendsSnapshotOfDrawnRaffle(t *testing.T) {
	svc := &fakeRaffleService{raffles: map[uint]domain.Raffle{
		1: {ID: 1, Status: domain.RaffleErrorDrawing, LastError: "s.repo.Finish -> timeout"},
	}}
	_, baseURL := startLiveServer(t, svc)
	conn := dial(t, baseURL+"/raffles/1/live")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var outcome domain.DrawOutcome
	require.NoError(t, conn.ReadJSON(&outcome))
	assert.Equal(t, domain.RaffleErrorDrawing, outcome.Status)
	assert.Equal(t, "s.repo.Finish -> timeout", outcome.Error)
}

// drawnDuringUpgrade reports the raffle as active on the first read and as
// finished afterwards, as if the draw completed while the client connected.
type drawnDuringUpgrade struct {
	fakeRaffleService
	mu    sync.Mutex
	reads int
}

func (f *drawnDuringUpgrade) GetRaffle(_ context.Context, id uint) (domain.Raffle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads++
	if f.reads == 1 {
		return domain.Raffle{ID: id, Status: domain.RaffleActive}, nil
	}

	return domain.Raffle{
		ID:      id,
		Status:  domain.RaffleFinished,
		Winners: []domain.WinnerRecord{{WinningNumber: 12}},
	}, nil
}

func TestLiveHandler_SendsOutcomeOfDrawFinishedWhileConnecting(t *testing.T) {
	svc := &drawnDuringUpgrade{}
	_, baseURL := startLiveServer(t, svc)
	conn := dial(t, baseURL+"/raffles/4/live")

	// Nothing is published, the outcome can only come from the re-read.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var outcome domain.DrawOutcome
	require.NoError(t, conn.ReadJSON(&outcome))
	assert.Equal(t, uint(4), outcome.RaffleID)
	assert.Equal(t, domain.RaffleFinished, outcome.Status)
	require.Len(t, outcome.Winners, 1)
	assert.Equal(t, 12, outcome.Winners[0].WinningNumber)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, 2, svc.reads)
}

func TestLiveHandler_UnknownRaffle(t *testing.T) {
	_, baseURL := startLiveServer(t, &fakeRaffleService{})

	_, resp, err := websocket.DefaultDialer.Dial(baseURL+"/raffles/3/live", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLiveHandler_PublishDoesNotBlockWithoutHub(t *testing.T) {
	hub := NewLiveHandler(&fakeRaffleService{}, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastSize*2; i++ {
			hub.Publish(domain.DrawOutcome{RaffleID: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked")
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://raffles.example"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(req), "non-browser clients send no origin")

	req.Header.Set("Origin", "https://raffles.example")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))

	assert.True(t, originChecker(nil)(req))
}
