package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEndpoint(t *testing.T) {
	cases := []struct {
		in   string
		host string
		tls  bool
	}{
		{"localhost:9000", "localhost:9000", false},
		{"http://minio:9000", "minio:9000", false},
		{"https://s3.us-east-1.amazonaws.com", "s3.us-east-1.amazonaws.com", true},
	}
	for _, c := range cases {
		host, tls := splitEndpoint(c.in)
		assert.Equal(t, c.host, host, c.in)
		assert.Equal(t, c.tls, tls, c.in)
	}
}

func TestNewConnectionDoesNotDial(t *testing.T) {
	conn, err := NewConnection(ConnectionInfo{Endpoint: "http://localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "lending-docs"})
	require.NoError(t, err)
	assert.Equal(t, "lending-docs", conn.Bucket)
	assert.NotNil(t, conn.Client)
}
