// (c) Copyright Enthought, Inc. 2013

package isolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemChannel_OneShot(t *testing.T) {
	ch := newMemChannel()

	_, ok := ch.TryGet()
	assert.False(t, ok, "a fresh channel must be empty")

	require.NoError(t, ch.Put(Outcome{Token: "tok", Status: StatusFinished}))

	o, ok := ch.TryGet()
	require.True(t, ok)
	assert.Equal(t, "tok", o.Token)
	assert.Equal(t, StatusFinished, o.Status)

	_, ok = ch.TryGet()
	assert.False(t, ok, "the channel must be drained by the first read")
}

func TestMemChannel_SecondPutFails(t *testing.T) {
	ch := newMemChannel()

	require.NoError(t, ch.Put(Outcome{Status: StatusFinished}))
	assert.Error(t, ch.Put(Outcome{Status: StatusFailed}))
}

func TestOutcome_RoundTrip(t *testing.T) {
	data, err := Outcome{Token: "tok", Status: StatusFailed, Detail: "memory leak of 25.00%"}.Encode()
	require.NoError(t, err)

	o, err := DecodeOutcome(data)
	require.NoError(t, err)
	assert.Equal(t, "memory leak of 25.00%", o.Detail)
}
