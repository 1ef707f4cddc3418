package connection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMongoDB_Connect_EmptyConnectionString(t *testing.T) {
	m := &MongoDB{}

	client, err := m.Connect(context.Background())
	require.ErrorIs(t, err, ErrNoConnectionString)
	require.Nil(t, client)
}

func TestRedis_Connect_BadURL(t *testing.T) {
	r := &Redis{URL: "http://localhost:6379"}

	client, err := r.Connect(context.Background())
	require.Error(t, err)
	require.Nil(t, client)
}
