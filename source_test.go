package zepstream

import (
	"iter"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func seqOf(err error, chunks ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, chunk := range chunks {
			if !yield(chunk, nil) {
				return
			}
		}

		if err != nil {
			yield("", err)
		}
	}
}

func TestFromSlice(t *testing.T) {
	source := FromSlice([]string{"a", "b"})

	assert.Equal(t, "", source.Current())
	assert.True(t, source.Next())
	assert.Equal(t, "a", source.Current())
	assert.True(t, source.Next())
	assert.Equal(t, "b", source.Current())
	assert.False(t, source.Next())
	assert.False(t, source.Next())
	assert.Equal(t, "", source.Current())
	assert.Nil(t, source.Err())
	assert.Nil(t, source.Close())
}

func TestFromSeq2(t *testing.T) {
	source := FromSeq2(seqOf(nil, "a", "b"))

	assert.True(t, source.Next())
	assert.Equal(t, "a", source.Current())
	assert.True(t, source.Next())
	assert.Equal(t, "b", source.Current())
	assert.False(t, source.Next())
	assert.Nil(t, source.Err())
	assert.Nil(t, source.Close())
}

func TestFromSeq2Error(t *testing.T) {
	seqErr := errors.New("quota exceeded")

	source := FromSeq2(seqOf(seqErr, "a"))

	assert.True(t, source.Next())
	assert.False(t, source.Next())
	assert.False(t, source.Next())
	assert.Equal(t, seqErr, source.Err())
	assert.Nil(t, source.Close())
}

func TestFromSeq2StopsIteratorOnClose(t *testing.T) {
	pulled := 0

	seq := func(yield func(string, error) bool) {
		for _, chunk := range []string{"a", "b", "c"} {
			pulled += 1

			if !yield(chunk, nil) {
				return
			}
		}
	}

	store := NewMockStore()
	store.On("AppendMessage", mock.Anything, "t1", RoleAssistant, "a").Return(nil).Once()

	stream := NewStream(t.Context(), FromSeq2(seq), "t1", store, textOf, WithCache(NewCache()))

	assert.True(t, stream.Next())
	assert.Nil(t, stream.Close())
	assert.Equal(t, 1, pulled)
	store.AssertExpectations(t)
}
