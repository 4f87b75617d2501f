package wyvern

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShutdownJobsRunAllRunsEveryJob(t *testing.T) {
	s := newShutdownJobs()

	var ran1, ran2 bool
	s.Add("one", func(ctx context.Context) error {
		ran1 = true
		return nil
	})
	s.Add("two", func(ctx context.Context) error {
		ran2 = true
		return nil
	})

	assert.NoError(t, s.RunAll(context.Background()))
	assert.True(t, ran1)
	assert.True(t, ran2)
}

func TestShutdownJobsRunAllReturnsFirstError(t *testing.T) {
	s := newShutdownJobs()
	boom := errors.New("boom")

	s.Add("failing", func(ctx context.Context) error {
		return boom
	})

	err := s.RunAll(context.Background())
	assert.Error(t, err)
}

func TestShutdownJobsRemove(t *testing.T) {
	s := newShutdownJobs()

	ran := false
	s.Add("job", func(ctx context.Context) error {
		ran = true
		return nil
	})
	s.Remove("job")

	assert.NoError(t, s.RunAll(context.Background()))
	assert.False(t, ran)
}
