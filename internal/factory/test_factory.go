package factory

import (
	"time"

	"github.com/quailholm/wolfgame-go/internal/dependencies/mocks"
	"github.com/quailholm/wolfgame-go/internal/services/auth"
	"github.com/quailholm/wolfgame-go/internal/services/scheduler"
	"github.com/quailholm/wolfgame-go/internal/storage/memory"
	"github.com/quailholm/wolfgame-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, auth.DefaultConfig(), scheduler.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
