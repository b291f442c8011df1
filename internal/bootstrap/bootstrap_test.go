package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Run(t *testing.T) {
	errLoad := errors.New("load items")
	errClose := errors.New("close repository")

	tests := []struct {
		name    string
		hooks   []error
		run     func(ctx context.Context, cancel context.CancelFunc) error
		wantErr []error
	}{
		{
			name: "one-shot command finishes",
			run: func(ctx context.Context, cancel context.CancelFunc) error {
				return nil
			},
		},
		{
			name:  "command error is joined with hook errors",
			hooks: []error{errClose},
			run: func(ctx context.Context, cancel context.CancelFunc) error {
				return errLoad
			},
			wantErr: []error{errLoad, errClose},
		},
		{
			name:  "interrupted loop releases resources",
			hooks: []error{nil, nil},
			run: func(ctx context.Context, cancel context.CancelFunc) error {
				cancel()
				<-ctx.Done()
				return nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := New()
			calls := 0
			for _, hookErr := range tt.hooks {
				app.AddShutdownHook(func(ctx context.Context) error {
					calls++
					return hookErr
				})
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			err := app.Run(ctx, func(ctx context.Context) error {
				return tt.run(ctx, cancel)
			})

			assert.Equal(t, len(tt.hooks), calls)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestApp_ShutdownOrder(t *testing.T) {
	app := New()
	var mu sync.Mutex
	var order []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	app.AddShutdownHook(record("repository"))

	err := app.Run(context.Background(), func(ctx context.Context) error {
		app.AddShutdownHook(record("reminder"))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"reminder", "repository"}, order)
}

func TestApp_ShutdownTimeout(t *testing.T) {
	app := New(WithShutdownTimeout(20 * time.Millisecond))
	app.AddShutdownHook(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := app.Run(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
